package pricing

import (
	"math"
	"time"

	"voyago/models"
)

// TaxRate is the flat tax applied to invoice subtotals and per-booking
// checkout totals. Keep this the single source for both paths.
const TaxRate = 0.10

// ChildPriceMultiplier discounts children on invoice line items. Booking
// totals charge every participant at full price; only invoice generation
// applies this multiplier. The asymmetry matches the billing policy in
// production and is intentional until product settles on one rule.
const ChildPriceMultiplier = 0.5

// BookingTotal charges every traveler the full tour price.
func BookingTotal(tourPrice float64, travelers int) float64 {
	return tourPrice * float64(travelers)
}

// Tax returns the flat tax on a subtotal.
func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

// DaysUntil returns the number of days from now until start, rounded up.
// A start 30 days and 1 hour away counts as 31 days.
func DaysUntil(start, now time.Time) int {
	diff := start.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// RefundPercentage is the tiered cancellation policy. Boundary values
// fall to the lower tier: exactly 30 days out refunds 70%, not 90%.
func RefundPercentage(daysUntilStart int) int {
	switch {
	case daysUntilStart > 30:
		return 90
	case daysUntilStart > 14:
		return 70
	case daysUntilStart > 7:
		return 50
	case daysUntilStart > 3:
		return 25
	default:
		return 0
	}
}

// RefundAmount applies the policy to the amount paid.
func RefundAmount(paid float64, daysUntilStart int) (amount float64, percentage int) {
	percentage = RefundPercentage(daysUntilStart)
	return paid * float64(percentage) / 100, percentage
}

// Discount computes the coupon discount on a subtotal. It fails closed:
// any invalid coupon or an unmet minimum purchase yields 0. Percentage
// coupons are capped at MaxDiscount when set. Fixed coupons are a flat
// value with no cap and no floor against the subtotal, so the discount
// can exceed what is owed.
func Discount(coupon *models.Coupon, subtotal float64, now time.Time) float64 {
	if coupon == nil || !coupon.IsValidAt(now) {
		return 0
	}
	if subtotal < coupon.MinPurchase {
		return 0
	}

	switch coupon.Type {
	case models.CouponPercentage:
		discount := subtotal * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
		return discount
	case models.CouponFixed:
		return coupon.Value
	default:
		return 0
	}
}

// InvoiceItems builds the billing lines for a booking: adults at full
// price, children at the child multiplier.
func InvoiceItems(tourName string, unitPrice float64, participants models.Participants) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, 2)
	if participants.Adults > 0 {
		items = append(items, models.InvoiceItem{
			Description: tourName + " (adult)",
			Quantity:    participants.Adults,
			UnitPrice:   unitPrice,
			Total:       unitPrice * float64(participants.Adults),
		})
	}
	if participants.Children > 0 {
		childPrice := unitPrice * ChildPriceMultiplier
		items = append(items, models.InvoiceItem{
			Description: tourName + " (child)",
			Quantity:    participants.Children,
			UnitPrice:   childPrice,
			Total:       childPrice * float64(participants.Children),
		})
	}
	return items
}

// ItemsSubtotal sums invoice line totals.
func ItemsSubtotal(items []models.InvoiceItem) float64 {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Total
	}
	return subtotal
}
