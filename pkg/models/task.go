package model

import (
	"time"

	"courier-sync.com/courier-sync/pkg/constants"
)

// UrgentWindow is how close to its deadline a task must be before it is
// classified as urgent.
const UrgentWindow = time.Hour

// Task is one delivery or borrow-fulfillment unit of work.
type Task struct {
	ID            string               `gorm:"primaryKey;size:36" json:"id"`
	OrderID       string               `gorm:"not null;index" json:"order_id"`
	Kind          TaskKind             `gorm:"type:varchar(20);not null" json:"kind"`
	CourierID     string               `gorm:"size:36;index" json:"courier_id,omitempty"`
	Address       string               `gorm:"not null" json:"address"`
	Status        constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	FailureReason string               `json:"failure_reason,omitempty"`
	RetryCount    int                  `gorm:"not null;default:0" json:"retry_count"`
	Version       uint                 `gorm:"not null;default:1" json:"version"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	AssignedAt    *time.Time           `json:"assigned_at,omitempty"`
	AcceptedAt    *time.Time           `json:"accepted_at,omitempty"`
	PickedUpAt    *time.Time           `json:"picked_up_at,omitempty"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
}

// TaskKind distinguishes delivery of a purchase from collection of a
// borrowed book.
type TaskKind string

const (
	KindDelivery TaskKind = "delivery"
	KindReturn   TaskKind = "return"
)

// StampTransition records the timestamp that belongs to the given status.
// Statuses without a dedicated column (in_transit, side branches) only
// matter through Status itself.
func (t *Task) StampTransition(s constants.TaskStatus, now time.Time) {
	switch s {
	case constants.StatusAssigned:
		t.AssignedAt = &now
	case constants.StatusAccepted:
		t.AcceptedAt = &now
	case constants.StatusPickedUp:
		t.PickedUpAt = &now
	case constants.StatusDelivered:
		t.DeliveredAt = &now
	case constants.StatusCompleted:
		t.CompletedAt = &now
	}
}

// IsOverdue reports whether the task missed its deadline. Classification is
// derived from status and timestamps on every call, never stored.
func (t *Task) IsOverdue(now time.Time) bool {
	if constants.IsTerminal(t.Status) {
		return false
	}
	if t.Status == constants.StatusOverdue {
		return true
	}
	return t.Deadline != nil && t.Deadline.Before(now)
}

// IsUrgent reports whether the task is close enough to its deadline to need
// attention but has not missed it yet.
func (t *Task) IsUrgent(now time.Time) bool {
	if constants.IsTerminal(t.Status) || t.Deadline == nil {
		return false
	}
	return t.Deadline.After(now) && t.Deadline.Sub(now) <= UrgentWindow
}
