package inventory

import (
	"testing"

	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReserveFilterGuardsAvailability(t *testing.T) {
	filter := reserveFilter("tour1", "2026-07-01", 3)

	if filter["tourid"] != "tour1" {
		t.Errorf("filter tourid = %v, want tour1", filter["tourid"])
	}

	elem, ok := filter["startDates"].(bson.M)["$elemMatch"].(bson.M)
	if !ok {
		t.Fatal("filter missing $elemMatch on startDates")
	}
	if elem["date"] != "2026-07-01" {
		t.Errorf("elemMatch date = %v, want 2026-07-01", elem["date"])
	}

	guard, ok := elem["availableSeats"].(bson.M)
	if !ok {
		t.Fatal("elemMatch missing availableSeats guard")
	}
	if guard["$gte"] != 3 {
		t.Errorf("availability guard = %v, want $gte 3", guard)
	}
}

func TestReleasePipelineClampsToTotal(t *testing.T) {
	pipeline := releasePipeline("2026-07-01", 2)
	if len(pipeline) != 1 {
		t.Fatalf("expected single-stage pipeline, got %d stages", len(pipeline))
	}

	stage := pipeline[0]
	if stage[0].Key != "$set" {
		t.Fatalf("stage key = %s, want $set", stage[0].Key)
	}

	set := stage[0].Value.(bson.M)
	mapped := set["startDates"].(bson.M)["$map"].(bson.M)
	cond := mapped["in"].(bson.M)["$cond"].(bson.A)

	merge := cond[1].(bson.M)["$mergeObjects"].(bson.A)
	seats := merge[1].(bson.M)["availableSeats"].(bson.M)
	minArgs, ok := seats["$min"].(bson.A)
	if !ok {
		t.Fatal("release update does not clamp with $min")
	}
	if minArgs[0] != "$$sd.totalSeats" {
		t.Errorf("clamp bound = %v, want $$sd.totalSeats", minArgs[0])
	}

	add := minArgs[1].(bson.M)["$add"].(bson.A)
	if add[1] != 2 {
		t.Errorf("release increment = %v, want 2", add[1])
	}
}

func TestSeatUpdateReportsMatchingDate(t *testing.T) {
	tour := &models.Tour{
		TourID: "tour1",
		StartDates: []models.StartDate{
			{Date: "2026-07-01", AvailableSeats: 4, TotalSeats: 10},
			{Date: "2026-08-01", AvailableSeats: 9, TotalSeats: 10},
		},
	}

	update := seatUpdate(tour, "tour1", "2026-07-01")
	if update.AvailableSeats != 4 {
		t.Errorf("availableSeats = %d, want 4", update.AvailableSeats)
	}
	if update.TourID != "tour1" || update.Date != "2026-07-01" {
		t.Errorf("update identity = %s/%s, want tour1/2026-07-01", update.TourID, update.Date)
	}

	// Unknown date reports zero rather than leaking another departure.
	if got := seatUpdate(tour, "tour1", "2026-09-01").AvailableSeats; got != 0 {
		t.Errorf("availableSeats for unknown date = %d, want 0", got)
	}
}
