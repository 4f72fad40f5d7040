package models

import "time"

type User struct {
	UserID    string    `bson:"userid,omitempty" json:"userid"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	LastLogin time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

type Review struct {
	ReviewID  string    `bson:"reviewid,omitempty" json:"reviewid"`
	TourID    string    `bson:"tourid" json:"tourid"`
	UserID    string    `bson:"userid" json:"userid"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
