package constants

import (
	"testing"
)

func TestTaskStatus_Parse(t *testing.T) {
	for _, s := range AllTaskStatuses {
		parsed, err := ParseTaskStatus(s.String())
		if err != nil {
			t.Fatalf("parse valid status %q failed: %v", s, err)
		}
		if parsed != s {
			t.Fatalf("expected %q, got %q", s, parsed)
		}
	}
	if _, err := ParseTaskStatus("teleported"); err != ErrUnknownTaskStatus {
		t.Fatalf("expected ErrUnknownTaskStatus, got %v", err)
	}
}

func TestAvailability_Parse(t *testing.T) {
	for _, s := range []string{"online", "offline", "busy"} {
		if _, err := ParseAvailability(s); err != nil {
			t.Fatalf("parse valid availability %q failed: %v", s, err)
		}
	}
	if _, err := ParseAvailability("away"); err != ErrUnknownAvailability {
		t.Fatalf("expected ErrUnknownAvailability, got %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to TaskStatus }{
		{StatusPending, StatusAssigned},
		{StatusAssigned, StatusAccepted},
		{StatusAccepted, StatusPickedUp},
		{StatusPickedUp, StatusInTransit},
		{StatusInTransit, StatusDelivered},
		{StatusDelivered, StatusCompleted},
		{StatusAssigned, StatusFailed},
		{StatusInTransit, StatusCancelled},
		{StatusPickedUp, StatusOverdue},
		{StatusFailed, StatusAssigned},
		{StatusOverdue, StatusAssigned},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to TaskStatus }{
		{StatusPending, StatusAccepted},
		{StatusAssigned, StatusDelivered},
		{StatusDelivered, StatusInTransit},
		{StatusCompleted, StatusFailed},
		{StatusCancelled, StatusAssigned},
		{StatusCompleted, StatusCancelled},
		{StatusPending, StatusPending},
		{StatusAccepted, StatusAssigned},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestIsManual(t *testing.T) {
	if !IsManual(AvailabilityOnline) || !IsManual(AvailabilityOffline) {
		t.Error("expected online and offline to be manually settable")
	}
	if IsManual(AvailabilityBusy) {
		t.Error("expected busy to be server-controlled only")
	}
}
