package tours

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"voyago/db"
	"voyago/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const tourPhotoDir = "./static/tourpic"

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// POST /api/tours/:id/photos: multipart form field "photos". Each image
// is re-encoded to JPEG with a 300px-wide thumbnail.
func UploadTourPhotos(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	tourID := ps.ByName("id")

	count, err := db.ToursCollection.CountDocuments(ctx, bson.M{"tourid": tourID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No photos provided")
		return
	}

	var saved []string
	for _, header := range files {
		name, err := processPhotoUpload(header, tourID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to process %s", header.Filename))
			return
		}
		saved = append(saved, name)
	}

	_, err = db.ToursCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$push": bson.M{"photos": bson.M{"$each": saved}}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving photos")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"photos": saved})
}

func processPhotoUpload(header *multipart.FileHeader, tourID string) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := utils.GenerateRandomString(16)
	fileName := uniqueID + ".jpg"

	dir := filepath.Join(tourPhotoDir, tourID)
	thumbDir := filepath.Join(dir, "thumb")
	if err := ensureDirExists(dir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := ensureDirExists(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(dir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/tourpic/" + tourID + "/" + fileName, nil
}
