package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/pricing"
	"voyago/utils"
	"voyago/validate"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type applyRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"min=0"`
}

// POST /api/coupons/apply
//
// Computes the discount and takes one redemption. The usageCount bump
// carries the usage-limit guard in its filter, so the last redemption
// cannot be taken twice.
func ApplyCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	code := utils.NormalizeCouponCode(req.Code)

	var coupon models.Coupon
	err := db.CouponsCollection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to look up coupon")
		return
	}

	now := time.Now()
	if !coupon.IsValidAt(now) {
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon is expired or no longer active")
		return
	}
	if req.Subtotal < coupon.MinPurchase {
		utils.RespondWithError(w, http.StatusBadRequest, "Order does not meet the coupon minimum")
		return
	}

	discount := pricing.Discount(&coupon, req.Subtotal, now)
	if discount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon is not applicable")
		return
	}

	filter := bson.M{"code": code}
	if coupon.UsageLimit > 0 {
		filter["usageCount"] = bson.M{"$lt": coupon.UsageLimit}
	}
	res, err := db.CouponsCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usageCount": 1}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to redeem coupon")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon usage limit reached")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"code":     code,
		"type":     coupon.Type,
		"discount": discount,
		"subtotal": req.Subtotal,
		"total":    req.Subtotal - discount,
	})
}

type upsertRequest struct {
	Code        string    `json:"code" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=percentage fixed"`
	Value       float64   `json:"value" validate:"required,min=0"`
	MinPurchase float64   `json:"minPurchase" validate:"min=0"`
	MaxDiscount float64   `json:"maxDiscount" validate:"min=0"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidUntil  time.Time `json:"validUntil"`
	UsageLimit  int       `json:"usageLimit" validate:"min=0"`
	IsActive    bool      `json:"isActive"`
}

// POST /api/admin/coupons
func CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		utils.RespondWithError(w, http.StatusBadRequest, "validUntil must be after validFrom")
		return
	}

	coupon := models.Coupon{
		CouponID:    utils.GenerateRandomString(16),
		Code:        utils.NormalizeCouponCode(req.Code),
		Type:        req.Type,
		Value:       req.Value,
		MinPurchase: req.MinPurchase,
		MaxDiscount: req.MaxDiscount,
		ValidFrom:   req.ValidFrom,
		ValidUntil:  req.ValidUntil,
		UsageLimit:  req.UsageLimit,
		IsActive:    req.IsActive,
		CreatedAt:   time.Now(),
	}

	// Codes are unique; a second insert with the same code is rejected.
	count, err := db.CouponsCollection.CountDocuments(ctx, bson.M{"code": coupon.Code})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check coupon code")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Coupon code already exists")
		return
	}

	if _, err := db.CouponsCollection.InsertOne(ctx, coupon); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, coupon)
}

// GET /api/admin/coupons
func ListCoupons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := utils.FindAndDecode[models.Coupon](ctx, db.CouponsCollection, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}
	if items == nil {
		items = []models.Coupon{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"coupons": items})
}

// DELETE /api/admin/coupons/:code: deactivates rather than deletes so
// historical orders keep their reference.
func DeactivateCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	code := utils.NormalizeCouponCode(ps.ByName("code"))
	res, err := db.CouponsCollection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"isActive": false}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to deactivate coupon")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
