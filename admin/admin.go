package admin

import (
	"context"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type monthlyStat struct {
	Month    string  `bson:"_id" json:"month"`
	Bookings int     `bson:"bookings" json:"bookings"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
}

type statusStat struct {
	Status string `bson:"_id" json:"status"`
	Count  int    `bson:"count" json:"count"`
}

type tourStat struct {
	TourID   string `bson:"_id" json:"tourid"`
	Bookings int    `bson:"bookings" json:"bookings"`
}

// GET /api/admin/stats/bookings: revenue by month, status breakdown and
// the most-booked tours. Cancelled bookings count in the status breakdown
// but not in revenue.
func GetBookingStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	monthly, err := aggregateMonthly(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate monthly stats")
		return
	}

	statuses, err := aggregateStatuses(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate status stats")
		return
	}

	topTours, err := aggregateTopTours(ctx, 10)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate top tours")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"monthly":  monthly,
		"statuses": statuses,
		"topTours": topTours,
	})
}

func aggregateMonthly(ctx context.Context) ([]monthlyStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status": bson.M{"$in": []string{models.BookingConfirmed, models.BookingCompleted}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$createdAt"}},
			"bookings": bson.M{"$sum": 1},
			"revenue":  bson.M{"$sum": "$totalPrice.amount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	return runPipeline[monthlyStat](ctx, pipeline)
}

func aggregateStatuses(ctx context.Context) ([]statusStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	return runPipeline[statusStat](ctx, pipeline)
}

func aggregateTopTours(ctx context.Context, limit int) ([]tourStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status": bson.M{"$ne": models.BookingCancelled},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$tourid",
			"bookings": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"bookings": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
	return runPipeline[tourStat](ctx, pipeline)
}

func runPipeline[T any](ctx context.Context, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := db.BookingsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GET /api/admin/users: paginated user listing.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"password": 0})

	users, err := utils.FindAndDecode[models.User](ctx, db.UserCollection, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"users": users, "skip": skip, "limit": limit})
}
