package pricing

import (
	"testing"
	"time"

	"voyago/models"
)

func TestRefundPercentageTiers(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{31, 90},
		{30, 70}, // boundary falls to the lower tier
		{15, 70},
		{14, 50},
		{8, 50},
		{7, 25},
		{4, 25},
		{3, 0},
		{2, 0},
		{0, 0},
	}
	for _, c := range cases {
		if got := RefundPercentage(c.days); got != c.want {
			t.Errorf("RefundPercentage(%d) = %d, want %d", c.days, got, c.want)
		}
	}
}

func TestDaysUntilRoundsUp(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		start time.Time
		want  int
	}{
		{now.Add(30*24*time.Hour + time.Hour), 31},
		{now.Add(30 * 24 * time.Hour), 30},
		{now.Add(36 * time.Hour), 2},
		{now.Add(time.Hour), 1},
		{now, 0},
		{now.Add(-time.Hour), 0},
	}
	for _, c := range cases {
		if got := DaysUntil(c.start, now); got != c.want {
			t.Errorf("DaysUntil(%v) = %d, want %d", c.start, got, c.want)
		}
	}
}

func TestRefundAmount(t *testing.T) {
	amount, pct := RefundAmount(200, 31)
	if pct != 90 || amount != 180 {
		t.Errorf("RefundAmount(200, 31) = %v, %d; want 180, 90", amount, pct)
	}
	amount, pct = RefundAmount(200, 2)
	if pct != 0 || amount != 0 {
		t.Errorf("RefundAmount(200, 2) = %v, %d; want 0, 0", amount, pct)
	}
}

func validCoupon(typ string, value float64) *models.Coupon {
	now := time.Now()
	return &models.Coupon{
		Code:       "SAVE",
		Type:       typ,
		Value:      value,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		IsActive:   true,
	}
}

func TestDiscountPercentageCapped(t *testing.T) {
	c := validCoupon(models.CouponPercentage, 10)
	c.MaxDiscount = 50

	if got := Discount(c, 1000, time.Now()); got != 50 {
		t.Errorf("capped percentage discount = %v, want 50", got)
	}

	c.MaxDiscount = 0
	if got := Discount(c, 1000, time.Now()); got != 100 {
		t.Errorf("uncapped percentage discount = %v, want 100", got)
	}
}

func TestDiscountFixedExceedsSubtotal(t *testing.T) {
	c := validCoupon(models.CouponFixed, 50)
	// Fixed coupons are not floored against the subtotal.
	if got := Discount(c, 40, time.Now()); got != 50 {
		t.Errorf("fixed discount = %v, want 50", got)
	}
}

func TestDiscountFailsClosed(t *testing.T) {
	now := time.Now()

	if got := Discount(nil, 100, now); got != 0 {
		t.Errorf("nil coupon discount = %v, want 0", got)
	}

	expired := validCoupon(models.CouponPercentage, 10)
	expired.ValidUntil = now.Add(-time.Minute)
	if got := Discount(expired, 100, now); got != 0 {
		t.Errorf("expired coupon discount = %v, want 0", got)
	}

	inactive := validCoupon(models.CouponPercentage, 10)
	inactive.IsActive = false
	if got := Discount(inactive, 100, now); got != 0 {
		t.Errorf("inactive coupon discount = %v, want 0", got)
	}

	limited := validCoupon(models.CouponPercentage, 10)
	limited.UsageLimit = 3
	limited.UsageCount = 3
	if got := Discount(limited, 100, now); got != 0 {
		t.Errorf("exhausted coupon discount = %v, want 0", got)
	}

	minSpend := validCoupon(models.CouponFixed, 20)
	minSpend.MinPurchase = 500
	if got := Discount(minSpend, 100, now); got != 0 {
		t.Errorf("below min purchase discount = %v, want 0", got)
	}
}

func TestBookingTotalFullPricePerTraveler(t *testing.T) {
	if got := BookingTotal(120, 3); got != 360 {
		t.Errorf("BookingTotal(120, 3) = %v, want 360", got)
	}
}

func TestInvoiceItemsChildMultiplier(t *testing.T) {
	items := InvoiceItems("Alpine Trek", 100, models.Participants{Adults: 2, Children: 1})
	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	if items[0].Total != 200 {
		t.Errorf("adult line total = %v, want 200", items[0].Total)
	}
	if items[1].UnitPrice != 50 || items[1].Total != 50 {
		t.Errorf("child line = %v @ %v, want 50 @ 50", items[1].Total, items[1].UnitPrice)
	}
	if got := ItemsSubtotal(items); got != 250 {
		t.Errorf("subtotal = %v, want 250", got)
	}
}

func TestTax(t *testing.T) {
	if got := Tax(250); got != 25 {
		t.Errorf("Tax(250) = %v, want 25", got)
	}
}
