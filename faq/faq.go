package faq

import (
	"context"
	"encoding/json"
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

type faqRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Order    int    `json:"order" validate:"min=0"`
}

// GET /api/faq
func GetFAQs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	faqs, err := utils.FindAndDecode[models.FAQ](ctx, db.FAQCollection, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch FAQs")
		return
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"faqs": faqs})
}

// POST /api/admin/faq
func CreateFAQ(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req faqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	faq := models.FAQ{
		FAQID:    utils.GenerateRandomString(12),
		Question: req.Question,
		Answer:   req.Answer,
		Order:    req.Order,
	}
	if _, err := db.FAQCollection.InsertOne(ctx, faq); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create FAQ")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, faq)
}

// DELETE /api/admin/faq/:id
func DeleteFAQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.FAQCollection.DeleteOne(ctx, bson.M{"faqid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete FAQ")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "FAQ not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
