package blog

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

type postRequest struct {
	Title     string   `json:"title" validate:"required,min=3"`
	Body      string   `json:"body" validate:"required"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// POST /api/admin/blog
func CreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := models.BlogPost{
		PostID:    utils.GenerateRandomString(14),
		Title:     req.Title,
		Body:      req.Body,
		Author:    utils.GetUserIDFromRequest(r),
		Tags:      req.Tags,
		Published: req.Published,
		CreatedAt: time.Now(),
	}
	if _, err := db.BlogPostsCollection.InsertOne(ctx, post); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, post)
}

// GET /api/blog
func GetPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"published": true}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter["tags"] = tag
	}

	skip, limit := utils.ParsePagination(r, 10, 50)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	posts, err := utils.FindAndDecode[models.BlogPost](ctx, db.BlogPostsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// GET /api/blog/:id
func GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var post models.BlogPost
	err := db.BlogPostsCollection.FindOne(ctx,
		bson.M{"postid": ps.ByName("id"), "published": true}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, post)
}

// DELETE /api/admin/blog/:id
func DeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.BlogPostsCollection.DeleteOne(ctx, bson.M{"postid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
