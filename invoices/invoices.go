package invoices

import (
	"context"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/pricing"
	"voyago/utils"
)

const dueInDays = 7

// Build creates and persists the invoice for one booking. Children are
// billed at the child multiplier; the booking total is not. See the
// pricing package for the policy note. The caller controls transactional
// scope through ctx.
func Build(ctx context.Context, booking *models.Booking, tour *models.Tour, discount float64) (*models.Invoice, error) {
	number, err := NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	items := pricing.InvoiceItems(tour.Name, tour.Price.Amount, booking.Participants)
	subtotal := pricing.ItemsSubtotal(items)
	tax := pricing.Tax(subtotal)

	inv := &models.Invoice{
		InvoiceID:     utils.GenerateRandomString(16),
		InvoiceNumber: number,
		BookingID:     booking.BookingID,
		UserID:        booking.UserID,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		Tax:           tax,
		Total:         subtotal - discount + tax,
		Currency:      tour.Price.Currency,
		PaymentStatus: models.PaymentPending,
		DueDate:       time.Now().AddDate(0, 0, dueInDays),
		CreatedAt:     time.Now(),
	}

	if _, err := db.InvoicesCollection.InsertOne(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
