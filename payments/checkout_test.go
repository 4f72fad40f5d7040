package payments

import (
	"errors"
	"fmt"
	"testing"

	"voyago/apperr"
	"voyago/models"
)

func tourWithPrice(id string, amount float64, dates ...string) *models.Tour {
	tour := &models.Tour{
		TourID: id,
		Name:   "Tour " + id,
		Price:  models.Price{Amount: amount, Currency: "USD"},
	}
	for _, d := range dates {
		tour.StartDates = append(tour.StartDates, models.StartDate{Date: d, AvailableSeats: 10, TotalSeats: 10})
	}
	return tour
}

func catalogLookup(tours ...*models.Tour) func(string) (*models.Tour, error) {
	return func(tourID string) (*models.Tour, error) {
		for _, t := range tours {
			if t.TourID == tourID {
				return t, nil
			}
		}
		return nil, fmt.Errorf("tour %s not found", tourID)
	}
}

// The cart snapshot carries the price at add-to-cart time. Checkout
// must charge current tour prices, never the snapshot.
func TestPriceLinesUsesCurrentTourPrices(t *testing.T) {
	items := []models.CartItem{
		{TourID: "t1", StartDate: "2026-07-01", Travelers: 2, Price: models.Price{Amount: 100, Currency: "USD"}},
		{TourID: "t2", StartDate: "2026-08-15", Travelers: 1, Price: models.Price{Amount: 300, Currency: "USD"}},
	}
	lookup := catalogLookup(
		tourWithPrice("t1", 150, "2026-07-01"), // raised since the cart snapshot
		tourWithPrice("t2", 300, "2026-08-15"),
	)

	lines, subtotal, err := priceLines(items, lookup)
	if err != nil {
		t.Fatalf("priceLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if lines[0].total != 300 { // 150 x 2 travelers, not 100 x 2
		t.Errorf("line 0 total = %v, want 300 at the current price", lines[0].total)
	}
	if subtotal != 600 {
		t.Errorf("subtotal = %v, want 600", subtotal)
	}

	stale := 0.0
	for _, item := range items {
		stale += item.Price.Amount * float64(item.Travelers)
	}
	if subtotal == stale {
		t.Error("subtotal matches the stale cart snapshot, current prices ignored")
	}
}

func TestPriceLinesFailsWholeCartOnUnknownTour(t *testing.T) {
	items := []models.CartItem{
		{TourID: "t1", StartDate: "2026-07-01", Travelers: 1},
		{TourID: "gone", StartDate: "2026-07-01", Travelers: 1},
	}
	lookup := catalogLookup(tourWithPrice("t1", 100, "2026-07-01"))

	lines, _, err := priceLines(items, lookup)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if lines != nil {
		t.Errorf("got %d lines despite the bad cart, want none", len(lines))
	}
}

func TestPriceLinesRejectsMissingDeparture(t *testing.T) {
	items := []models.CartItem{
		{TourID: "t1", StartDate: "2026-12-24", Travelers: 2},
	}
	lookup := catalogLookup(tourWithPrice("t1", 100, "2026-07-01"))

	_, _, err := priceLines(items, lookup)
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
