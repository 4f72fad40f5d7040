package invoices

import (
	"context"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/invoices
func GetMyInvoices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	items, err := utils.FindAndDecode[models.Invoice](ctx, db.InvoicesCollection, bson.M{"userid": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch invoices")
		return
	}
	if items == nil {
		items = []models.Invoice{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"invoices": items})
}

// GET /api/invoices/:id
func GetInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	inv, ok := loadOwnedInvoice(ctx, w, r, ps.ByName("id"))
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inv)
}

// loadOwnedInvoice fetches an invoice and enforces ownership (admins may
// read any invoice). Writes the error response itself on failure.
func loadOwnedInvoice(ctx context.Context, w http.ResponseWriter, r *http.Request, invoiceID string) (*models.Invoice, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	var inv models.Invoice
	err := db.InvoicesCollection.FindOne(ctx, bson.M{"invoiceid": invoiceID}).Decode(&inv)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Invoice not found")
		return nil, false
	}

	if inv.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "Not your invoice")
		return nil, false
	}
	return &inv, true
}
