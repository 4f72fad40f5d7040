package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"voyago/apperr"
	"voyago/db"
	"voyago/inventory"
	"voyago/invoices"
	"voyago/models"
	"voyago/mq"
	"voyago/notifications"
	"voyago/pricing"
	"voyago/rdx"
	"voyago/utils"
	"voyago/validate"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// checkoutLockTTL bounds how long a user's checkout lock can linger if a
// request dies mid-flight.
const checkoutLockTTL = 30 * time.Second

type checkoutRequest struct {
	PaymentMethod  string `json:"paymentMethod" validate:"required,oneof=card paypal bank_transfer"`
	BillingAddress string `json:"billingAddress"`
	CouponCode     string `json:"couponCode"`
}

type checkoutResult struct {
	Payment  *models.Payment   `json:"payment"`
	Bookings []*models.Booking `json:"bookings"`
	invoices []*models.Invoice
	discount float64

	seatUpdates []mq.SeatUpdate
}

// checkoutLine pairs a cart item with the tour as it exists now. The
// cart snapshot may carry stale prices; the charge is always derived
// from line totals at current tour prices so the payment amount, the
// per-line discount apportionment and the invoices share one basis.
type checkoutLine struct {
	item  models.CartItem
	tour  *models.Tour
	total float64
}

// priceLines validates every cart line against the current tour
// catalog and totals the cart at current prices. The first bad line
// fails the whole cart.
func priceLines(items []models.CartItem, lookup func(tourID string) (*models.Tour, error)) ([]checkoutLine, float64, error) {
	lines := make([]checkoutLine, 0, len(items))
	subtotal := 0.0
	for _, item := range items {
		tour, err := lookup(item.TourID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: tour %s", apperr.ErrNotFound, item.TourID)
		}
		if tour.FindStartDate(item.StartDate) == nil {
			return nil, 0, fmt.Errorf("%w: %s has no departure on %s", apperr.ErrUnavailable, tour.Name, item.StartDate)
		}
		total := pricing.BookingTotal(tour.Price.Amount, item.Travelers)
		subtotal += total
		lines = append(lines, checkoutLine{item: item, tour: tour, total: total})
	}
	return lines, subtotal, nil
}

// POST /api/payments/process-cart
//
// The whole cart commits or nothing does: per-line validation, seat
// reservations, bookings, invoices, the payment, the coupon usage bump
// and the cart wipe all share one transaction. Emails go out only after
// commit and their failures are swallowed.
func ProcessCartCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// One checkout at a time per user; a stuck lock expires on its own.
	// Redis being down degrades to unlocked checkout, which the seat
	// reservations still keep correct, but it must not pass silently.
	lockKey := "checkout_lock:" + userID
	acquired, err := rdx.AcquireLock(ctx, lockKey, checkoutLockTTL)
	switch {
	case err != nil:
		log.Printf("checkout %s: lock acquire failed, proceeding without lock: %v", userID, err)
	case !acquired:
		utils.RespondWithError(w, http.StatusConflict, "Checkout already in progress")
		return
	default:
		defer rdx.ReleaseLock(ctx, lockKey)
	}

	result, err := checkout(ctx, userID, req)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	// Post-commit notifications, one per booking, each isolated.
	for _, booking := range result.Bookings {
		_, nerr := notifications.Notify(ctx, userID,
			models.NotifyBookingConfirmation,
			"Booking confirmed",
			fmt.Sprintf("Your booking for %s is confirmed.", booking.StartDate),
			models.RelatedTo{Model: models.RelatedBooking, ID: booking.BookingID},
		)
		if nerr != nil {
			log.Printf("checkout booking %s: notification failed: %v", booking.BookingID, nerr)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"payment":  result.Payment,
		"bookings": result.Bookings,
		"discount": result.discount,
	})
}

func checkout(ctx context.Context, userID string, req checkoutRequest) (*checkoutResult, error) {
	var cart models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&cart)
	if err != nil || len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", apperr.ErrInvalidInput)
	}

	var coupon *models.Coupon
	if req.CouponCode != "" {
		code := utils.NormalizeCouponCode(req.CouponCode)
		var c models.Coupon
		err := db.CouponsCollection.FindOne(ctx, bson.M{"code": code}).Decode(&c)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("%w: coupon %s", apperr.ErrNotFound, code)
			}
			return nil, err
		}
		if !c.IsValidAt(time.Now()) {
			return nil, fmt.Errorf("%w: coupon %s is not redeemable", apperr.ErrInvalidState, code)
		}
		coupon = &c
	}

	session, err := db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return checkoutTxn(sc, userID, &cart, req, coupon)
	})
	if err != nil {
		return nil, err
	}

	result := out.(*checkoutResult)
	// Committed seat counts only; an aborted checkout broadcasts nothing.
	for _, update := range result.seatUpdates {
		mq.EmitSeatUpdate(ctx, update)
	}
	return result, nil
}

// checkoutTxn is the transaction body. Every write goes through the
// session context; any returned error aborts with zero persisted state.
// Pricing is re-derived here from the current tour documents, so the
// discount and the payment amount cannot mix stale cart prices with
// fresh line totals.
func checkoutTxn(sc mongo.SessionContext, userID string, cart *models.Cart, req checkoutRequest, coupon *models.Coupon) (*checkoutResult, error) {
	now := time.Now()

	lines, subtotal, err := priceLines(cart.Items, func(tourID string) (*models.Tour, error) {
		var tour models.Tour
		if err := db.ToursCollection.FindOne(sc, bson.M{"tourid": tourID}).Decode(&tour); err != nil {
			return nil, err
		}
		return &tour, nil
	})
	if err != nil {
		return nil, err
	}

	discount := pricing.Discount(coupon, subtotal, now)
	result := &checkoutResult{discount: discount}

	var totalTax float64
	currency := ""

	for _, line := range lines {
		update, err := inventory.ReserveSeats(sc, line.tour.TourID, line.item.StartDate, line.item.Travelers)
		if err != nil {
			return nil, err
		}
		result.seatUpdates = append(result.seatUpdates, update)

		booking := &models.Booking{
			BookingID:    utils.GenerateRandomDigitString(22),
			UserID:       userID,
			TourID:       line.tour.TourID,
			StartDate:    line.item.StartDate,
			Participants: models.Participants{Adults: line.item.Travelers},
			TotalPrice:   models.Price{Amount: line.total, Currency: line.tour.Price.Currency},
			Status:       models.BookingConfirmed,
			PaymentInfo: models.PaymentInfo{
				Method: req.PaymentMethod,
				Status: models.PaymentCompleted,
			},
			CreatedAt: now,
		}
		if _, err := db.BookingsCollection.InsertOne(sc, booking); err != nil {
			return nil, err
		}
		result.Bookings = append(result.Bookings, booking)

		// Coupon discount is apportioned to invoices by line share.
		lineDiscount := 0.0
		if subtotal > 0 {
			lineDiscount = discount * line.total / subtotal
		}
		invoice, err := invoices.Build(sc, booking, line.tour, lineDiscount)
		if err != nil {
			return nil, err
		}
		result.invoices = append(result.invoices, invoice)

		totalTax += pricing.Tax(line.total)
		currency = line.tour.Price.Currency
	}

	txnID := utils.GetUUID()
	payment := &models.Payment{
		PaymentID:     utils.GenerateRandomString(16),
		UserID:        userID,
		BookingIDs:    bookingIDs(result.Bookings),
		Amount:        subtotal - discount + totalTax,
		Currency:      currency,
		Method:        req.PaymentMethod,
		Status:        models.PaymentCompleted,
		TransactionID: txnID,
		CreatedAt:     now,
	}
	if _, err := db.PaymentsCollection.InsertOne(sc, payment); err != nil {
		return nil, err
	}
	result.Payment = payment

	if coupon != nil {
		// The usage-limit guard re-checks inside the transaction so two
		// racing checkouts cannot both take the last redemption.
		filter := bson.M{"code": coupon.Code}
		if coupon.UsageLimit > 0 {
			filter["usageCount"] = bson.M{"$lt": coupon.UsageLimit}
		}
		res, err := db.CouponsCollection.UpdateOne(sc, filter, bson.M{"$inc": bson.M{"usageCount": 1}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: coupon %s usage limit reached", apperr.ErrInvalidState, coupon.Code)
		}
	}

	if _, err := db.CartsCollection.DeleteOne(sc, bson.M{"userid": userID}); err != nil {
		return nil, err
	}

	return result, nil
}

func bookingIDs(bookings []*models.Booking) []string {
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		ids[i] = b.BookingID
	}
	return ids
}
