package invoices

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/invoices/:id/pdf
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	inv, ok := loadOwnedInvoice(ctx, w, r, ps.ByName("id"))
	if !ok {
		return
	}

	// QR payload lets support desks pull up the invoice and its booking
	qrPayload := fmt.Sprintf("%s|%s|%s", inv.InvoiceNumber, inv.BookingID, inv.InvoiceID)
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Invoice "+inv.InvoiceNumber)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Booking: %s", inv.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Due: %s", inv.DueDate.Format("02 Jan 2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Payment status: %s", inv.PaymentStatus))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range inv.Items {
		pdf.CellFormat(90, 8, item.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Total), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	for _, row := range [][2]string{
		{"Subtotal", fmt.Sprintf("%.2f %s", inv.Subtotal, inv.Currency)},
		{"Discount", fmt.Sprintf("-%.2f %s", inv.Discount, inv.Currency)},
		{"Tax", fmt.Sprintf("%.2f %s", inv.Tax, inv.Currency)},
		{"Total", fmt.Sprintf("%.2f %s", inv.Total, inv.Currency)},
	} {
		pdf.CellFormat(140, 7, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, row[1], "", 1, "R", false, 0, "")
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+inv.InvoiceNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
