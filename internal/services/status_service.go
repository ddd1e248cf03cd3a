package services

import (
	"context"

	apperrors "courier-sync.com/courier-sync/internal/errors"
	repository "courier-sync.com/courier-sync/internal/repositories"
	"courier-sync.com/courier-sync/internal/roster"
	"courier-sync.com/courier-sync/pkg/constants"
)

// StatusService owns courier availability. Manual changes go through
// UpdateManual; busy is entered and left only through task transitions or
// the safety reset.
type StatusService struct {
	store roster.StatusStore
	repo  *repository.TaskRepository
}

func NewStatusService(store roster.StatusStore, repo *repository.TaskRepository) *StatusService {
	return &StatusService{store: store, repo: repo}
}

func (s *StatusService) Current(ctx context.Context, courierID string) (constants.AvailabilityStatus, bool, error) {
	status, err := s.store.Get(ctx, courierID)
	if err != nil {
		return "", false, err
	}
	return status, status != constants.AvailabilityBusy, nil
}

// UpdateManual applies a courier-requested online/offline change and returns
// the authoritative status. Requesting the current status is a no-op success.
func (s *StatusService) UpdateManual(
	ctx context.Context,
	courierID string,
	target constants.AvailabilityStatus,
) (constants.AvailabilityStatus, bool, error) {
	if !constants.IsManual(target) {
		return "", false, apperrors.ErrInvalidTransition
	}

	current, err := s.store.Get(ctx, courierID)
	if err != nil {
		return "", false, err
	}
	if current == constants.AvailabilityBusy {
		return "", false, apperrors.ErrForbiddenWhileBusy
	}
	if current == target {
		return current, true, nil
	}

	if err := s.store.SetManual(ctx, courierID, target); err != nil {
		return "", false, err
	}
	return target, true, nil
}

// Reset is the safety net for a stale busy status. It releases busy only when
// no active task justifies it, restoring the courier's last manual choice.
func (s *StatusService) Reset(ctx context.Context, courierID string) (constants.AvailabilityStatus, bool, error) {
	current, err := s.store.Get(ctx, courierID)
	if err != nil {
		return "", false, err
	}
	if current != constants.AvailabilityBusy {
		return current, false, nil
	}

	active, err := s.repo.CountActiveByCourier(ctx, courierID)
	if err != nil {
		return "", false, err
	}
	if active > 0 {
		return current, false, nil
	}

	to, err := s.store.LastManual(ctx, courierID)
	if err != nil {
		return "", false, err
	}
	if err := s.store.ReleaseBusy(ctx, courierID, to); err != nil {
		return "", false, err
	}
	return to, true, nil
}

// MarkBusy is invoked when a courier accepts a task.
func (s *StatusService) MarkBusy(ctx context.Context, courierID string) error {
	return s.store.MarkBusy(ctx, courierID)
}

// ReleaseIfIdle returns the courier to online once no active task remains.
func (s *StatusService) ReleaseIfIdle(ctx context.Context, courierID string) error {
	current, err := s.store.Get(ctx, courierID)
	if err != nil {
		return err
	}
	if current != constants.AvailabilityBusy {
		return nil
	}

	active, err := s.repo.CountActiveByCourier(ctx, courierID)
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return s.store.ReleaseBusy(ctx, courierID, constants.AvailabilityOnline)
}
