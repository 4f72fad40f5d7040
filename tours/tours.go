package tours

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
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

type startDateInput struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	TotalSeats int    `json:"totalSeats" validate:"required,min=1"`
}

type tourRequest struct {
	Name         string           `json:"name" validate:"required,min=3"`
	Destination  string           `json:"destination" validate:"required"`
	Description  string           `json:"description"`
	DurationDays int              `json:"durationDays" validate:"required,min=1"`
	Amount       float64          `json:"amount" validate:"required,min=0"`
	Currency     string           `json:"currency" validate:"required,len=3"`
	StartDates   []startDateInput `json:"startDates" validate:"required,min=1,dive"`
}

// POST /api/tours
func CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req tourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	dates := make([]models.StartDate, 0, len(req.StartDates))
	for _, d := range req.StartDates {
		dates = append(dates, models.StartDate{
			Date:           d.Date,
			AvailableSeats: d.TotalSeats,
			TotalSeats:     d.TotalSeats,
		})
	}

	tour := models.Tour{
		TourID:       utils.GenerateRandomString(14),
		Name:         req.Name,
		Destination:  req.Destination,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        models.Price{Amount: req.Amount, Currency: req.Currency},
		StartDates:   dates,
		Photos:       []string{},
		CreatedBy:    utils.GetUserIDFromRequest(r),
		CreatedAt:    time.Now(),
	}

	if _, err := db.ToursCollection.InsertOne(ctx, tour); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating tour")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, tour)
}

// GET /api/tours
func GetTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := r.URL.Query()
	filter := bson.M{}
	if destination := query.Get("destination"); destination != "" {
		filter["destination"] = bson.M{"$regex": destination, "$options": "i"}
	}
	if minRating := query.Get("minRating"); minRating != "" {
		if rating, err := strconv.ParseFloat(minRating, 64); err == nil {
			filter["ratingsAverage"] = bson.M{"$gte": rating}
		}
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	sort := utils.ParseSort(query.Get("sort"),
		bson.D{{Key: "createdAt", Value: -1}},
		map[string]bson.D{
			"rating":     {{Key: "ratingsAverage", Value: -1}},
			"price":      {{Key: "price.amount", Value: 1}},
			"price_desc": {{Key: "price.amount", Value: -1}},
			"newest":     {{Key: "createdAt", Value: -1}},
		})

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)

	tours, err := utils.FindAndDecode[models.Tour](ctx, db.ToursCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching tours")
		return
	}
	if tours == nil {
		tours = []models.Tour{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"tours": tours,
		"skip":  skip,
		"limit": limit,
	})
}

// GET /api/tours/:id
func GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": ps.ByName("id")}).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching tour")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tour)
}

// GET /api/tours/:id/availability
func GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": ps.ByName("id")},
		options.FindOne().SetProjection(bson.M{"tourid": 1, "startDates": 1})).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching availability")
		return
	}

	if tour.StartDates == nil {
		tour.StartDates = []models.StartDate{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"tourid":     tour.TourID,
		"startDates": tour.StartDates,
	})
}

type updateRequest struct {
	Name         *string  `json:"name,omitempty"`
	Destination  *string  `json:"destination,omitempty"`
	Description  *string  `json:"description,omitempty"`
	DurationDays *int     `json:"durationDays,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
}

// PUT /api/tours/:id: partial update of descriptive fields. Seat
// inventory only moves through the reserve/release path.
func EditTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Destination != nil {
		set["destination"] = *req.Destination
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "durationDays must be at least 1")
			return
		}
		set["durationDays"] = *req.DurationDays
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "amount cannot be negative")
			return
		}
		set["price.amount"] = *req.Amount
	}

	res := db.ToursCollection.FindOneAndUpdate(ctx,
		bson.M{"tourid": ps.ByName("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var tour models.Tour
	if err := res.Decode(&tour); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating tour")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tour)
}

// POST /api/tours/:id/dates: adds a departure. Duplicate dates for the
// same tour are rejected so seat matching stays unambiguous.
func AddStartDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req startDateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := db.ToursCollection.UpdateOne(ctx,
		bson.M{"tourid": ps.ByName("id"), "startDates.date": bson.M{"$ne": req.Date}},
		bson.M{"$push": bson.M{"startDates": models.StartDate{
			Date:           req.Date,
			AvailableSeats: req.TotalSeats,
			TotalSeats:     req.TotalSeats,
		}}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding start date")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Tour not found or date already exists")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"date": req.Date})
}

// DELETE /api/tours/:id
func DeleteTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tourID := ps.ByName("id")

	// Tours with live bookings cannot be removed from under them.
	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"tourid": tourID,
		"status": bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error checking bookings")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Tour has active bookings")
		return
	}

	res, err := db.ToursCollection.DeleteOne(ctx, bson.M{"tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting tour")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
