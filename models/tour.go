package models

import "time"

// Price is an amount in a supported currency.
type Price struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}

// StartDate is one dated departure of a tour with its seat inventory.
// Invariant: 0 <= AvailableSeats <= TotalSeats. The date is held at day
// granularity as "2006-01-02"; all seat matching compares this string.
type StartDate struct {
	Date           string `bson:"date" json:"date"`
	AvailableSeats int    `bson:"availableSeats" json:"availableSeats"`
	TotalSeats     int    `bson:"totalSeats" json:"totalSeats"`
}

type Tour struct {
	TourID         string      `bson:"tourid,omitempty" json:"tourid"`
	Name           string      `bson:"name" json:"name"`
	Destination    string      `bson:"destination" json:"destination"`
	Description    string      `bson:"description,omitempty" json:"description,omitempty"`
	DurationDays   int         `bson:"durationDays" json:"durationDays"`
	Price          Price       `bson:"price" json:"price"`
	StartDates     []StartDate `bson:"startDates" json:"startDates"`
	Photos         []string    `bson:"photos,omitempty" json:"photos,omitempty"`
	RatingsAverage float64     `bson:"ratingsAverage" json:"ratingsAverage"`
	RatingsCount   int         `bson:"ratingsCount" json:"ratingsCount"`
	CreatedBy      string      `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// FindStartDate returns the departure matching dateKey, or nil.
func (t *Tour) FindStartDate(dateKey string) *StartDate {
	for i := range t.StartDates {
		if t.StartDates[i].Date == dateKey {
			return &t.StartDates[i]
		}
	}
	return nil
}
