package notifications

import (
	"context"
	"log"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/rdx"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/notifications
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	filter := bson.M{"userid": userID}
	if r.URL.Query().Get("unread") == "true" {
		filter["isRead"] = false
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	items, err := utils.FindAndDecode[models.Notification](ctx, db.NotificationsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	if items == nil {
		items = []models.Notification{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// PUT /api/notifications/:id/read: isRead flips one way only.
func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"notificationid": ps.ByName("id"), "userid": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// POST /api/admin/notifications/process: external trigger for the
// unsent-email batch. A short Redis lock keeps overlapping triggers from
// double-sending.
func ProcessUnsentHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	ok, err := rdx.AcquireLock(ctx, "notifications:process", 2*time.Minute)
	switch {
	case err != nil:
		// Without Redis the batch runs unguarded; worst case a few
		// duplicate emails, but the degradation gets logged.
		log.Printf("notifications: process lock acquire failed, running unguarded: %v", err)
	case !ok:
		utils.RespondWithError(w, http.StatusConflict, "Batch already running")
		return
	default:
		defer rdx.ReleaseLock(ctx, "notifications:process")
	}

	sent, failed, err := ProcessUnsent(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Batch failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int{"sent": sent, "failed": failed})
}
