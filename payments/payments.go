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
	"voyago/models"
	"voyago/notifications"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// POST /api/payments/process
//
// Marks a pending payment completed and confirms its bookings. Invoices
// track paymentStatus independently and are updated alongside.
func ProcessPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		PaymentID string `json:"paymentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PaymentID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "paymentId is required")
		return
	}

	payment, err := completePayment(ctx, userID, body.PaymentID)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	_, nerr := notifications.Notify(ctx, userID,
		models.NotifyPayment,
		"Payment received",
		fmt.Sprintf("Payment of %.2f %s was processed.", payment.Amount, payment.Currency),
		models.RelatedTo{Model: models.RelatedPayment, ID: payment.PaymentID},
	)
	if nerr != nil {
		log.Printf("payment %s: notification failed: %v", payment.PaymentID, nerr)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"payment": payment})
}

func completePayment(ctx context.Context, userID, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := db.PaymentsCollection.FindOne(ctx, bson.M{"paymentid": paymentID}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: payment %s", apperr.ErrNotFound, paymentID)
		}
		return nil, err
	}
	if payment.UserID != userID {
		return nil, fmt.Errorf("%w: not your payment", apperr.ErrForbidden)
	}
	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("%w: payment is %s", apperr.ErrInvalidState, payment.Status)
	}

	session, err := db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	txnID := utils.GetUUID()
	now := time.Now()

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		_, err := db.PaymentsCollection.UpdateOne(sc,
			bson.M{"paymentid": paymentID},
			bson.M{"$set": bson.M{
				"status":        models.PaymentCompleted,
				"transactionId": txnID,
				"updatedAt":     now,
			}},
		)
		if err != nil {
			return nil, err
		}

		_, err = db.BookingsCollection.UpdateMany(sc,
			bson.M{"bookingid": bson.M{"$in": payment.BookingIDs}, "status": models.BookingPending},
			bson.M{"$set": bson.M{
				"status":                    models.BookingConfirmed,
				"paymentInfo.status":        models.PaymentCompleted,
				"paymentInfo.transactionId": txnID,
				"updatedAt":                 now,
			}},
		)
		if err != nil {
			return nil, err
		}

		_, err = db.InvoicesCollection.UpdateMany(sc,
			bson.M{"bookingid": bson.M{"$in": payment.BookingIDs}},
			bson.M{"$set": bson.M{"paymentStatus": models.PaymentCompleted}},
		)
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	payment.Status = models.PaymentCompleted
	payment.TransactionID = txnID
	return &payment, nil
}

// GET /api/payments
func ListPayments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 50)
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip).SetLimit(limit)

	payments, err := utils.FindAndDecode[models.Payment](ctx, db.PaymentsCollection, bson.M{"userid": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"payments": payments})
}
