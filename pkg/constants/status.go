package constants

import "errors"

// TaskStatus represents the position of a task in the fulfillment lifecycle.
// Use the exported constants instead of raw strings to avoid typos.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusAssigned  TaskStatus = "assigned"
	StatusAccepted  TaskStatus = "accepted"
	StatusPickedUp  TaskStatus = "picked_up"
	StatusInTransit TaskStatus = "in_transit"
	StatusDelivered TaskStatus = "delivered"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
	StatusCancelled TaskStatus = "cancelled"
	StatusOverdue   TaskStatus = "overdue"
)

// AllTaskStatuses lists every valid task status in a stable order.
var AllTaskStatuses = []TaskStatus{
	StatusPending, StatusAssigned, StatusAccepted, StatusPickedUp,
	StatusInTransit, StatusDelivered, StatusCompleted,
	StatusFailed, StatusCancelled, StatusOverdue,
}

var ErrUnknownTaskStatus = errors.New("unknown task status")

func (s TaskStatus) String() string { return string(s) }

// ParseTaskStatus converts a string into a TaskStatus, returning an error
// for unknown values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, v := range AllTaskStatuses {
		if s == string(v) {
			return v, nil
		}
	}
	return "", ErrUnknownTaskStatus
}

// chainOrder positions the forward lifecycle chain; side statuses
// (failed, cancelled, overdue) are not part of it.
var chainOrder = map[TaskStatus]int{
	StatusPending:   0,
	StatusAssigned:  1,
	StatusAccepted:  2,
	StatusPickedUp:  3,
	StatusInTransit: 4,
	StatusDelivered: 5,
	StatusCompleted: 6,
}

// IsTerminal reports whether no further transition may leave the status.
func IsTerminal(s TaskStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether moving a task from one status to another is
// allowed. The forward chain advances one step at a time; failed, cancelled
// and overdue are reachable from any non-terminal status; failed and overdue
// tasks may re-enter the chain at assigned (reassignment).
func CanTransition(from, to TaskStatus) bool {
	if IsTerminal(from) || from == to {
		return false
	}
	switch to {
	case StatusFailed, StatusCancelled, StatusOverdue:
		return true
	case StatusAssigned:
		if from == StatusFailed || from == StatusOverdue {
			return true
		}
	}
	fromPos, ok := chainOrder[from]
	if !ok {
		return false
	}
	toPos, ok := chainOrder[to]
	if !ok {
		return false
	}
	return toPos == fromPos+1
}

// AvailabilityStatus represents a courier's availability.
type AvailabilityStatus string

const (
	AvailabilityOnline  AvailabilityStatus = "online"
	AvailabilityOffline AvailabilityStatus = "offline"
	AvailabilityBusy    AvailabilityStatus = "busy"
)

var ErrUnknownAvailability = errors.New("unknown availability status")

func (s AvailabilityStatus) String() string { return string(s) }

// ParseAvailability converts a string into an AvailabilityStatus.
func ParseAvailability(s string) (AvailabilityStatus, error) {
	switch s {
	case string(AvailabilityOnline):
		return AvailabilityOnline, nil
	case string(AvailabilityOffline):
		return AvailabilityOffline, nil
	case string(AvailabilityBusy):
		return AvailabilityBusy, nil
	default:
		return "", ErrUnknownAvailability
	}
}

// IsManual reports whether a courier may request the status directly.
// Busy is entered and left only by server-side task transitions.
func IsManual(s AvailabilityStatus) bool {
	return s == AvailabilityOnline || s == AvailabilityOffline
}
