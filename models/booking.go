package models

import "time"

// Booking status lifecycle: pending -> confirmed -> completed, or
// cancelled from either live state. cancelled and completed are terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// IsTerminalBookingStatus reports whether no further status change is
// allowed.
func IsTerminalBookingStatus(status string) bool {
	return status == BookingCancelled || status == BookingCompleted
}

// Participants requires at least one adult; children never travel
// alone and counts cannot go negative.
type Participants struct {
	Adults   int `bson:"adults" json:"adults" validate:"min=1"`
	Children int `bson:"children" json:"children" validate:"min=0"`
}

func (p Participants) Total() int {
	return p.Adults + p.Children
}

type ContactInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type PaymentInfo struct {
	Method        string `bson:"method" json:"method"`
	Status        string `bson:"status" json:"status"`
	TransactionID string `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

type Booking struct {
	BookingID    string       `bson:"bookingid,omitempty" json:"bookingid"`
	UserID       string       `bson:"userid" json:"userid"`
	TourID       string       `bson:"tourid" json:"tourid"`
	StartDate    string       `bson:"startDate" json:"startDate"`
	Participants Participants `bson:"participants" json:"participants"`
	TotalPrice   Price        `bson:"totalPrice" json:"totalPrice"`
	Status       string       `bson:"status" json:"status"`
	PaymentInfo  PaymentInfo  `bson:"paymentInfo" json:"paymentInfo"`
	ContactInfo  ContactInfo  `bson:"contactInfo" json:"contactInfo"`
	CancelReason string       `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
