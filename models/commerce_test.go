package models

import (
	"testing"
	"time"
)

func TestCartTotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Travelers: 2, Price: Price{Amount: 100}},
		{Travelers: 1, Price: Price{Amount: 49.5}},
	}}
	if got := cart.Total(); got != 249.5 {
		t.Fatalf("Total() = %v, want 249.5", got)
	}

	empty := Cart{}
	if got := empty.Total(); got != 0 {
		t.Fatalf("empty cart Total() = %v, want 0", got)
	}
}

func TestCouponIsValidAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	base := Coupon{
		Code:       "SUMMER",
		Type:       CouponPercentage,
		Value:      10,
		ValidFrom:  now.AddDate(0, -1, 0),
		ValidUntil: now.AddDate(0, 1, 0),
		IsActive:   true,
	}

	tests := []struct {
		name   string
		mutate func(*Coupon)
		want   bool
	}{
		{"valid", func(c *Coupon) {}, true},
		{"inactive", func(c *Coupon) { c.IsActive = false }, false},
		{"not yet valid", func(c *Coupon) { c.ValidFrom = now.AddDate(0, 0, 1) }, false},
		{"expired", func(c *Coupon) { c.ValidUntil = now.AddDate(0, 0, -1) }, false},
		{"limit reached", func(c *Coupon) { c.UsageLimit = 5; c.UsageCount = 5 }, false},
		{"under limit", func(c *Coupon) { c.UsageLimit = 5; c.UsageCount = 4 }, true},
		{"zero limit is unlimited", func(c *Coupon) { c.UsageCount = 1000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if got := c.IsValidAt(now); got != tt.want {
				t.Fatalf("IsValidAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTerminalBookingStatus(t *testing.T) {
	terminal := map[string]bool{
		BookingPending:   false,
		BookingConfirmed: false,
		BookingCancelled: true,
		BookingCompleted: true,
	}
	for status, want := range terminal {
		if got := IsTerminalBookingStatus(status); got != want {
			t.Errorf("IsTerminalBookingStatus(%q) = %v, want %v", status, got, want)
		}
	}
}
