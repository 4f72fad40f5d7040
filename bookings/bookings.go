package bookings

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
	"voyago/utils"
	"voyago/validate"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	TourID        string             `json:"tourId" validate:"required"`
	StartDate     string             `json:"startDate" validate:"required"`
	Participants  models.Participants `json:"participants"`
	ContactInfo   models.ContactInfo  `json:"contactInfo"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=card paypal bank_transfer"`
}

type createResult struct {
	Booking *models.Booking `json:"booking"`
	Payment *models.Payment `json:"payment"`
	Invoice *models.Invoice `json:"invoice"`

	seatUpdate mq.SeatUpdate
}

// POST /api/bookings
//
// Seat reservation and the three correlated inserts run in one
// transaction; the confirmation notification and email fire only after
// commit and cannot fail the request.
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ContactInfo.Name == "" || req.ContactInfo.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Contact name and email are required")
		return
	}

	var tour models.Tour
	err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": req.TourID}).Decode(&tour)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}
	if tour.FindStartDate(req.StartDate) == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Tour has no departure on that date")
		return
	}

	result, err := writeBooking(ctx, userID, &tour, req)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	// Post-commit side effects only.
	_, nerr := notifications.Notify(ctx, userID,
		models.NotifyBookingConfirmation,
		"Booking confirmed",
		fmt.Sprintf("Your booking for %s on %s is received.", tour.Name, req.StartDate),
		models.RelatedTo{Model: models.RelatedBooking, ID: result.Booking.BookingID},
	)
	if nerr != nil {
		log.Printf("booking %s: notification write failed: %v", result.Booking.BookingID, nerr)
	}

	utils.RespondWithJSON(w, http.StatusCreated, result)
}

// writeBooking reserves seats and persists booking, payment and invoice
// atomically.
func writeBooking(ctx context.Context, userID string, tour *models.Tour, req createRequest) (*createResult, error) {
	session, err := db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	travelers := req.Participants.Total()
	total := pricing.BookingTotal(tour.Price.Amount, travelers)

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		update, err := inventory.ReserveSeats(sc, tour.TourID, req.StartDate, travelers)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		booking := &models.Booking{
			BookingID:    utils.GenerateRandomDigitString(22),
			UserID:       userID,
			TourID:       tour.TourID,
			StartDate:    req.StartDate,
			Participants: req.Participants,
			TotalPrice:   models.Price{Amount: total, Currency: tour.Price.Currency},
			Status:       models.BookingPending,
			PaymentInfo: models.PaymentInfo{
				Method: req.PaymentMethod,
				Status: models.PaymentPending,
			},
			ContactInfo: req.ContactInfo,
			CreatedAt:   now,
		}
		if _, err := db.BookingsCollection.InsertOne(sc, booking); err != nil {
			return nil, err
		}

		payment := &models.Payment{
			PaymentID:  utils.GenerateRandomString(16),
			UserID:     userID,
			BookingIDs: []string{booking.BookingID},
			Amount:     total,
			Currency:   tour.Price.Currency,
			Method:     req.PaymentMethod,
			Status:     models.PaymentPending,
			CreatedAt:  now,
		}
		if _, err := db.PaymentsCollection.InsertOne(sc, payment); err != nil {
			return nil, err
		}

		invoice, err := invoices.Build(sc, booking, tour, 0)
		if err != nil {
			return nil, err
		}

		return &createResult{Booking: booking, Payment: payment, Invoice: invoice, seatUpdate: update}, nil
	})
	if err != nil {
		return nil, err
	}

	result := out.(*createResult)
	// The new seat count goes out only once the reservation is durable.
	mq.EmitSeatUpdate(ctx, result.seatUpdate)
	return result, nil
}

// GET /api/bookings
func GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userid": userID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	items, err := utils.FindAndDecode[models.Booking](ctx, db.BookingsCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	if items == nil {
		items = []models.Booking{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"bookings": items})
}

// GET /api/bookings/:id
func GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	booking, err := loadOwnedBooking(ctx, r, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, booking)
}

// loadOwnedBooking fetches a booking and enforces that the requester
// owns it or is an admin.
func loadOwnedBooking(ctx context.Context, r *http.Request, bookingID string) (*models.Booking, error) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", apperr.ErrForbidden)
	}

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: booking %s", apperr.ErrNotFound, bookingID)
		}
		return nil, err
	}

	if booking.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		return nil, fmt.Errorf("%w: not your booking", apperr.ErrForbidden)
	}
	return &booking, nil
}
