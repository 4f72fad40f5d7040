package models

import "time"

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment correlates one charge with one or more bookings. A cart
// checkout produces a single payment covering every booking it created.
type Payment struct {
	PaymentID     string     `bson:"paymentid,omitempty" json:"paymentid"`
	UserID        string     `bson:"userid" json:"userid"`
	BookingIDs    []string   `bson:"bookingids" json:"bookingids"`
	Amount        float64    `bson:"amount" json:"amount"`
	Currency      string     `bson:"currency" json:"currency"`
	Method        string     `bson:"method" json:"method"`
	Status        string     `bson:"status" json:"status"`
	TransactionID string     `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	RefundAmount  float64    `bson:"refundAmount,omitempty" json:"refundAmount,omitempty"`
	RefundReason  string     `bson:"refundReason,omitempty" json:"refundReason,omitempty"`
	RefundDate    *time.Time `bson:"refundDate,omitempty" json:"refundDate,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type InvoiceItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unitPrice" json:"unitPrice"`
	Total       float64 `bson:"total" json:"total"`
}

// Invoice paymentStatus mirrors Payment.Status but is stored and updated
// independently.
type Invoice struct {
	InvoiceID     string        `bson:"invoiceid,omitempty" json:"invoiceid"`
	InvoiceNumber string        `bson:"invoiceNumber" json:"invoiceNumber"`
	BookingID     string        `bson:"bookingid" json:"bookingid"`
	UserID        string        `bson:"userid" json:"userid"`
	Items         []InvoiceItem `bson:"items" json:"items"`
	Subtotal      float64       `bson:"subtotal" json:"subtotal"`
	Discount      float64       `bson:"discount" json:"discount"`
	Tax           float64       `bson:"tax" json:"tax"`
	Total         float64       `bson:"total" json:"total"`
	Currency      string        `bson:"currency" json:"currency"`
	PaymentStatus string        `bson:"paymentStatus" json:"paymentStatus"`
	DueDate       time.Time     `bson:"dueDate" json:"dueDate"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}

type CartItem struct {
	TourID    string  `bson:"tourid" json:"tourid"`
	TourName  string  `bson:"tourName" json:"tourName"`
	StartDate string  `bson:"startDate" json:"startDate"`
	Travelers int     `bson:"travelers" json:"travelers"`
	Price     Price   `bson:"price" json:"price"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

type Cart struct {
	UserID    string     `bson:"userid" json:"userid"`
	Items     []CartItem `bson:"items" json:"items"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Total is the cart subtotal: sum of amount * travelers per line.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price.Amount * float64(it.Travelers)
	}
	return total
}

// Coupon types.
const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

type Coupon struct {
	CouponID    string    `bson:"couponid,omitempty" json:"couponid"`
	Code        string    `bson:"code" json:"code"`
	Type        string    `bson:"type" json:"type"`
	Value       float64   `bson:"value" json:"value"`
	MinPurchase float64   `bson:"minPurchase,omitempty" json:"minPurchase,omitempty"`
	MaxDiscount float64   `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
	ValidFrom   time.Time `bson:"validFrom" json:"validFrom"`
	ValidUntil  time.Time `bson:"validUntil" json:"validUntil"`
	UsageLimit  int       `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	UsageCount  int       `bson:"usageCount" json:"usageCount"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// IsValidAt reports whether the coupon can be redeemed at t. A zero
// UsageLimit means unlimited.
func (c *Coupon) IsValidAt(t time.Time) bool {
	if !c.IsActive {
		return false
	}
	if t.Before(c.ValidFrom) || t.After(c.ValidUntil) {
		return false
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return false
	}
	return true
}
