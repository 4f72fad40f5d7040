package invoices

import (
	"context"
	"fmt"
	"time"

	"voyago/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextInvoiceNumber hands out INV-<year>-<seq> numbers from a per-year
// counter document. The $inc upsert is atomic, so concurrent invoices
// never share a sequence value.
func NextInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := db.CountersCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": fmt.Sprintf("invoice-%d", year)},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", err
	}

	return formatInvoiceNumber(year, counter.Seq), nil
}

func formatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%05d", year, seq)
}
