package models

import "time"

// Notification types.
const (
	NotifyBookingConfirmation = "booking_confirmation"
	NotifyBookingUpdate       = "booking_update"
	NotifyPayment             = "payment"
	NotifySystem              = "system"
)

// RelatedModel is the closed set of entities a notification can point
// back to. "system" notifications carry an empty ID.
type RelatedModel string

const (
	RelatedBooking RelatedModel = "booking"
	RelatedTour    RelatedModel = "tour"
	RelatedPayment RelatedModel = "payment"
	RelatedSystem  RelatedModel = "system"
)

type RelatedTo struct {
	Model RelatedModel `bson:"model" json:"model"`
	ID    string       `bson:"id,omitempty" json:"id,omitempty"`
}

// Notification flags are both one-way: false -> true, never back.
type Notification struct {
	NotificationID string    `bson:"notificationid,omitempty" json:"notificationid"`
	UserID         string    `bson:"userid" json:"userid"`
	Type           string    `bson:"type" json:"type"`
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	IsRead         bool      `bson:"isRead" json:"isRead"`
	IsEmailSent    bool      `bson:"isEmailSent" json:"isEmailSent"`
	RelatedTo      RelatedTo `bson:"relatedTo" json:"relatedTo"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
