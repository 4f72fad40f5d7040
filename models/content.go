package models

import "time"

type BlogPost struct {
	PostID    string    `bson:"postid,omitempty" json:"postid"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	Author    string    `bson:"author" json:"author"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Published bool      `bson:"published" json:"published"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type FAQ struct {
	FAQID    string `bson:"faqid,omitempty" json:"faqid"`
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
	Order    int    `bson:"order,omitempty" json:"order,omitempty"`
}
