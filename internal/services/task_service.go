package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	apperrors "courier-sync.com/courier-sync/internal/errors"
	repository "courier-sync.com/courier-sync/internal/repositories"
	"courier-sync.com/courier-sync/pkg/constants"
	model "courier-sync.com/courier-sync/pkg/models"
)

type TaskService struct {
	repo          *repository.TaskRepository
	statusService *StatusService
}

func NewTaskService(repo *repository.TaskRepository, statusService *StatusService) *TaskService {
	return &TaskService{
		repo:          repo,
		statusService: statusService,
	}
}

func (s *TaskService) Create(
	ctx context.Context,
	orderID string,
	kind model.TaskKind,
	courierID string,
	address string,
	deadline *time.Time,
) (*model.Task, error) {
	return s.repo.CreateTask(ctx, orderID, kind, courierID, address, deadline)
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ListForCourier(ctx context.Context, courierID string) ([]model.Task, error) {
	return s.repo.ListByCourier(ctx, courierID)
}

// UpdateStatus moves a task along the lifecycle graph. The transition is
// validated here so no client can push a task backwards or skip a step.
// Accepting a task marks its courier busy; finishing the last active task
// releases the courier back to online.
func (s *TaskService) UpdateStatus(
	ctx context.Context,
	id string,
	target constants.TaskStatus,
	reason string,
) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !constants.CanTransition(task.Status, target) {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	task.Status = target
	task.StampTransition(target, now)
	if target == constants.StatusFailed {
		task.FailureReason = reason
		task.RetryCount++
	}

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, apperrors.ErrVersionConflict
		}
		return nil, err
	}

	s.applyAvailabilityEdge(ctx, task, target)

	return task, nil
}

// applyAvailabilityEdge drives the server-only busy transitions. Failures
// here are logged, not returned: the task transition already committed and
// the safety reset covers a courier stuck busy.
func (s *TaskService) applyAvailabilityEdge(ctx context.Context, task *model.Task, target constants.TaskStatus) {
	if task.CourierID == "" {
		return
	}

	switch target {
	case constants.StatusAccepted:
		if err := s.statusService.MarkBusy(ctx, task.CourierID); err != nil {
			log.Printf("failed to mark courier %s busy: %v", task.CourierID, err)
		}
	case constants.StatusCompleted, constants.StatusCancelled, constants.StatusFailed:
		if err := s.statusService.ReleaseIfIdle(ctx, task.CourierID); err != nil {
			log.Printf("failed to release courier %s: %v", task.CourierID, err)
		}
	}
}
