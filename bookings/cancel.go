package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"voyago/apperr"
	"voyago/db"
	"voyago/inventory"
	"voyago/models"
	"voyago/mq"
	"voyago/notifications"
	"voyago/pricing"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type cancelResult struct {
	Booking          *models.Booking `json:"booking"`
	RefundAmount     float64         `json:"refundAmount"`
	RefundPercentage int             `json:"refundPercentage"`
}

// PUT /api/bookings/:id/cancel
//
// Terminal bookings (cancelled, completed) reject the request. The
// read check here is a fast path only; the transaction re-checks the
// status with a conditional update so concurrent cancels cannot
// double-release seats. The notification is post-commit and
// best-effort.
func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	booking, err := loadOwnedBooking(ctx, r, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	if models.IsTerminalBookingStatus(booking.Status) {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Booking is already %s", booking.Status))
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body) // reason is optional

	result, err := cancelAndRefund(ctx, booking, body.Reason)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	_, nerr := notifications.Notify(ctx, booking.UserID,
		models.NotifyBookingUpdate,
		"Booking cancelled",
		fmt.Sprintf("Your booking for %s was cancelled. Refund: %.2f %s (%d%%).",
			booking.StartDate, result.RefundAmount, booking.TotalPrice.Currency, result.RefundPercentage),
		models.RelatedTo{Model: models.RelatedBooking, ID: booking.BookingID},
	)
	if nerr != nil {
		log.Printf("booking %s: cancel notification failed: %v", booking.BookingID, nerr)
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func cancelAndRefund(ctx context.Context, booking *models.Booking, reason string) (*cancelResult, error) {
	start, err := time.Parse("2006-01-02", booking.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed booking start date", apperr.ErrInvalidState)
	}

	refundAmount, refundPct := pricing.RefundAmount(
		booking.TotalPrice.Amount,
		pricing.DaysUntil(start, time.Now()),
	)

	session, err := db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// The status flip is conditional on the booking still being
		// live, and it happens before the seat release. Two racing
		// cancels both pass the handler's read check, but only the one
		// whose update matches gets to return seats; the loser aborts
		// here with nothing written.
		now := time.Now()
		res, err := db.BookingsCollection.UpdateOne(sc,
			cancellableFilter(booking.BookingID),
			bson.M{"$set": bson.M{
				"status":             models.BookingCancelled,
				"cancelReason":       reason,
				"paymentInfo.status": models.PaymentRefunded,
				"updatedAt":          now,
			}},
		)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			return nil, fmt.Errorf("%w: booking %s can no longer be cancelled", apperr.ErrInvalidState, booking.BookingID)
		}

		travelers := booking.Participants.Total()
		update, err := inventory.ReleaseSeats(sc, booking.TourID, booking.StartDate, travelers)
		if err != nil {
			return nil, err
		}

		_, err = db.PaymentsCollection.UpdateOne(sc,
			bson.M{"bookingids": booking.BookingID},
			bson.M{"$set": bson.M{
				"status":       models.PaymentRefunded,
				"refundAmount": refundAmount,
				"refundReason": reason,
				"refundDate":   now,
				"updatedAt":    now,
			}},
		)
		return update, err
	})
	if err != nil {
		return nil, err
	}

	// Seat counts are broadcast only once they are committed.
	mq.EmitSeatUpdate(ctx, out.(mq.SeatUpdate))

	booking.Status = models.BookingCancelled
	booking.CancelReason = reason
	booking.PaymentInfo.Status = models.PaymentRefunded

	return &cancelResult{
		Booking:          booking,
		RefundAmount:     refundAmount,
		RefundPercentage: refundPct,
	}, nil
}

// cancellableFilter matches the booking only while it is still in a
// live state, so a cancel that loses a race with another cancel or with
// completion modifies nothing.
func cancellableFilter(bookingID string) bson.M {
	return bson.M{
		"bookingid": bookingID,
		"status":    bson.M{"$nin": []string{models.BookingCancelled, models.BookingCompleted}},
	}
}
