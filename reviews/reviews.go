package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"
	"voyago/validate"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// POST /api/tours/:id/reviews: one review per user per tour. Only users
// with a completed or confirmed booking on the tour may review it.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	tourID := ps.ByName("id")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := db.ToursCollection.CountDocuments(ctx, bson.M{"tourid": tourID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	booked, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"userid": userID,
		"tourid": tourID,
		"status": bson.M{"$in": []string{models.BookingConfirmed, models.BookingCompleted}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check bookings")
		return
	}
	if booked == 0 {
		utils.RespondWithError(w, http.StatusForbidden, "Only travelers who booked this tour can review it")
		return
	}

	existing, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"userid": userID, "tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing reviews")
		return
	}
	if existing > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this tour")
		return
	}

	review := models.Review{
		ReviewID:  utils.GenerateRandomString(14),
		TourID:    tourID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	if err := recomputeTourRating(ctx, tourID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update tour rating")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// GET /api/tours/:id/reviews
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	reviews, err := utils.FindAndDecode[models.Review](ctx, db.ReviewsCollection,
		bson.M{"tourid": ps.ByName("id")}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// DELETE /api/reviews/:reviewId: author or admin only.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reviewID := ps.ByName("reviewId")

	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": reviewID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Review not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to look up review")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if review.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot delete this review")
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"reviewid": reviewID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	if err := recomputeTourRating(ctx, review.TourID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update tour rating")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// recomputeTourRating refreshes ratingsAverage and ratingsCount from the
// full review set. Zero reviews resets both to zero.
func recomputeTourRating(ctx context.Context, tourID string) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"tourid": tourID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	average, count := 0.0, 0
	if cursor.Next(ctx) {
		var result struct {
			Average float64 `bson:"average"`
			Count   int     `bson:"count"`
		}
		if err := cursor.Decode(&result); err != nil {
			return err
		}
		average, count = result.Average, result.Count
	}

	_, err = db.ToursCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$set": bson.M{"ratingsAverage": average, "ratingsCount": count}},
	)
	return err
}
