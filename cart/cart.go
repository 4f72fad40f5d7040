package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"
	"voyago/validate"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type addItemRequest struct {
	TourID    string `json:"tourId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	Travelers int    `json:"travelers" validate:"required,min=1"`
}

// AddToCart upserts one line into the user's cart. The seat check here
// is advisory only; the binding reservation happens at checkout.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var tour models.Tour
	if err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": req.TourID}).Decode(&tour); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	sd := tour.FindStartDate(req.StartDate)
	if sd == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Tour has no departure on that date")
		return
	}
	if sd.AvailableSeats < req.Travelers {
		utils.RespondWithError(w, http.StatusBadRequest, "Not enough seats available")
		return
	}

	item := models.CartItem{
		TourID:    tour.TourID,
		TourName:  tour.Name,
		StartDate: req.StartDate,
		Travelers: req.Travelers,
		Price:     tour.Price,
		AddedAt:   time.Now(),
	}

	// Replace any existing line for the same tour+date, then push.
	_, err := db.CartsCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"tourid": item.TourID, "startDate": item.StartDate}}},
	)
	if err != nil {
		log.Println("AddToCart pull error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	_, err = db.CartsCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$push": bson.M{"items": item},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Println("AddToCart push error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// GetCart returns the user's cart and its computed total.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var cart models.Cart
	if err := db.CartsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&cart); err != nil {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// RemoveFromCart drops every line for one tour.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, err := db.CartsCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"tourid": ps.ByName("tourid")}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		log.Println("RemoveFromCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearCart wipes the whole cart document.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartsCollection.DeleteOne(ctx, bson.M{"userid": userID}); err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
