package roster

import (
	"context"

	"courier-sync.com/courier-sync/pkg/constants"
)

// StatusStore holds the authoritative availability of each courier. A courier
// with no stored status reads as offline.
type StatusStore interface {
	// Get returns the courier's current availability.
	Get(ctx context.Context, courierID string) (constants.AvailabilityStatus, error)

	// SetManual records an online/offline choice made by the courier and
	// remembers it as the courier's manual preference.
	SetManual(ctx context.Context, courierID string, status constants.AvailabilityStatus) error

	// MarkBusy flips the courier to busy, keeping the manual preference intact.
	MarkBusy(ctx context.Context, courierID string) error

	// ReleaseBusy replaces busy with the given status.
	ReleaseBusy(ctx context.Context, courierID string, to constants.AvailabilityStatus) error

	// LastManual returns the courier's most recent manual choice,
	// defaulting to online when none was ever made.
	LastManual(ctx context.Context, courierID string) (constants.AvailabilityStatus, error)
}
