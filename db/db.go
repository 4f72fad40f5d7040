package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ToursCollection         *mongo.Collection
	BookingsCollection      *mongo.Collection
	PaymentsCollection      *mongo.Collection
	InvoicesCollection      *mongo.Collection
	CartsCollection         *mongo.Collection
	CouponsCollection       *mongo.Collection
	ReviewsCollection       *mongo.Collection
	NotificationsCollection *mongo.Collection
	UserCollection          *mongo.Collection
	BlogPostsCollection     *mongo.Collection
	FAQCollection           *mongo.Collection
	CountersCollection      *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("voyagodb")
	ToursCollection = database.Collection("tours")
	BookingsCollection = database.Collection("bookings")
	PaymentsCollection = database.Collection("payments")
	InvoicesCollection = database.Collection("invoices")
	CartsCollection = database.Collection("carts")
	CouponsCollection = database.Collection("coupons")
	ReviewsCollection = database.Collection("reviews")
	NotificationsCollection = database.Collection("notifications")
	UserCollection = database.Collection("users")
	BlogPostsCollection = database.Collection("blogposts")
	FAQCollection = database.Collection("faqs")
	CountersCollection = database.Collection("counters")
}
