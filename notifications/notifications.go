package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"voyago/apperr"
	"voyago/db"
	"voyago/mailer"
	"voyago/models"
	"voyago/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mailer delivers notification emails. Set once at startup; a nil Mailer
// disables email entirely (notifications are still persisted).
var Mailer mailer.Sender

// Notify persists a notification and best-effort emails the user. Email
// failure is logged and swallowed: the caller's operation already
// committed and must not be rolled back or failed by a side effect.
func Notify(ctx context.Context, userID, notifType, title, message string, related models.RelatedTo) (*models.Notification, error) {
	n := &models.Notification{
		NotificationID: utils.GenerateRandomString(16),
		UserID:         userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		IsRead:         false,
		IsEmailSent:    false,
		RelatedTo:      related,
		CreatedAt:      time.Now(),
	}

	if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
		return nil, err
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil || user.Email == "" {
		return n, nil
	}

	if deliverEmail(user.Email, n) {
		markEmailSent(ctx, n)
	}
	return n, nil
}

// deliverEmail attempts one send and reports success. Never panics,
// never returns an error to the caller.
func deliverEmail(to string, n *models.Notification) bool {
	if Mailer == nil {
		return false
	}
	if err := Mailer.Send(to, n.Title, emailBody(n)); err != nil {
		log.Printf("notification email to %s failed: %v", to, err)
		return false
	}
	return true
}

func markEmailSent(ctx context.Context, n *models.Notification) {
	n.IsEmailSent = true
	_, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"notificationid": n.NotificationID},
		bson.M{"$set": bson.M{"isEmailSent": true}},
	)
	if err != nil {
		log.Printf("failed to flag notification %s as emailed: %v", n.NotificationID, err)
	}
}

func emailBody(n *models.Notification) string {
	return fmt.Sprintf("<h2>%s</h2><p>%s</p>", n.Title, n.Message)
}

// ProcessUnsent walks every unread, unsent notification and retries its
// email. One bad notification never aborts the batch. Returns counts
// for the admin response.
func ProcessUnsent(ctx context.Context) (sent, failed int, err error) {
	filter := bson.M{"isRead": false, "isEmailSent": false}
	pending, err := utils.FindAndDecode[models.Notification](ctx, db.NotificationsCollection, filter)
	if err != nil {
		return 0, 0, err
	}

	for i := range pending {
		n := &pending[i]

		var user models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userid": n.UserID}).Decode(&user); err != nil || user.Email == "" {
			failed++
			continue
		}

		if deliverEmail(user.Email, n) {
			markEmailSent(ctx, n)
			sent++
		} else {
			failed++
		}
	}
	return sent, failed, nil
}

// LookupRelated dereferences a notification back-reference. System
// notifications have no target and return nil.
func LookupRelated(ctx context.Context, related models.RelatedTo) (interface{}, error) {
	coll, idField, err := relatedCollection(related.Model)
	if err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, nil
	}

	raw := bson.M{}
	err = coll.FindOne(ctx, bson.M{idField: related.ID}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s %s", apperr.ErrNotFound, related.Model, related.ID)
		}
		return nil, err
	}
	return raw, nil
}

// relatedCollection resolves each variant of the closed RelatedModel set
// to its collection and id field. Anything else is rejected.
func relatedCollection(model models.RelatedModel) (*mongo.Collection, string, error) {
	switch model {
	case models.RelatedBooking:
		return db.BookingsCollection, "bookingid", nil
	case models.RelatedTour:
		return db.ToursCollection, "tourid", nil
	case models.RelatedPayment:
		return db.PaymentsCollection, "paymentid", nil
	case models.RelatedSystem:
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf("%w: unknown related model %q", apperr.ErrInvalidInput, model)
	}
}
