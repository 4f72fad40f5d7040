package bookings

import (
	"testing"

	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Two concurrent cancels both pass the handler's read check; only the
// transaction's conditional update decides the winner. The filter must
// exclude every terminal status so the loser matches nothing.
func TestCancellableFilterExcludesTerminalStatuses(t *testing.T) {
	filter := cancellableFilter("b123")

	if filter["bookingid"] != "b123" {
		t.Errorf("filter bookingid = %v, want b123", filter["bookingid"])
	}

	guard, ok := filter["status"].(bson.M)
	if !ok {
		t.Fatal("filter has no status guard")
	}
	excluded, ok := guard["$nin"].([]string)
	if !ok {
		t.Fatalf("status guard = %v, want $nin list", guard)
	}

	for _, status := range []string{models.BookingCancelled, models.BookingCompleted} {
		found := false
		for _, s := range excluded {
			if s == status {
				found = true
			}
		}
		if !found {
			t.Errorf("status guard does not exclude %q", status)
		}
	}

	for _, status := range []string{models.BookingPending, models.BookingConfirmed} {
		for _, s := range excluded {
			if s == status {
				t.Errorf("status guard wrongly excludes live status %q", status)
			}
		}
	}
}
