package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voyago/apperr"
	"voyago/db"
	"voyago/models"
	"voyago/mq"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReserveSeats atomically decrements availableSeats for one departure.
// The availability check and the decrement are a single conditional
// update, so two concurrent reservations can never both pass the check:
// the filter only matches while the date still has >= count seats.
//
// Returns the resulting seat update. Callers running inside a
// transaction must hold it and publish via mq.EmitSeatUpdate only
// after commit; the count is not real until then.
func ReserveSeats(ctx context.Context, tourID, dateKey string, count int) (mq.SeatUpdate, error) {
	if count <= 0 {
		return mq.SeatUpdate{}, fmt.Errorf("%w: seat count must be positive", apperr.ErrInvalidInput)
	}

	filter := reserveFilter(tourID, dateKey, count)
	update := bson.M{
		"$inc": bson.M{"startDates.$.availableSeats": -count},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tour models.Tour
	err := db.ToursCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the tour/date does not exist or the seats ran out;
			// both surface as unavailable to the booking flow.
			return mq.SeatUpdate{}, fmt.Errorf("%w: no seats left for %s", apperr.ErrUnavailable, dateKey)
		}
		return mq.SeatUpdate{}, err
	}

	return seatUpdate(&tour, tourID, dateKey), nil
}

// ReleaseSeats returns seats to a departure after a cancellation. The
// increment is clamped to totalSeats with a pipeline update so repeated
// releases cannot push availability past capacity.
//
// As with ReserveSeats, the returned update is published by the caller
// after its transaction commits.
func ReleaseSeats(ctx context.Context, tourID, dateKey string, count int) (mq.SeatUpdate, error) {
	if count <= 0 {
		return mq.SeatUpdate{}, fmt.Errorf("%w: seat count must be positive", apperr.ErrInvalidInput)
	}

	filter := bson.M{
		"tourid":          tourID,
		"startDates.date": dateKey,
	}
	update := releasePipeline(dateKey, count)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tour models.Tour
	err := db.ToursCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mq.SeatUpdate{}, fmt.Errorf("%w: tour date %s", apperr.ErrNotFound, dateKey)
		}
		return mq.SeatUpdate{}, err
	}

	return seatUpdate(&tour, tourID, dateKey), nil
}

func seatUpdate(tour *models.Tour, tourID, dateKey string) mq.SeatUpdate {
	remaining := 0
	if sd := tour.FindStartDate(dateKey); sd != nil {
		remaining = sd.AvailableSeats
	}
	return mq.SeatUpdate{TourID: tourID, Date: dateKey, AvailableSeats: remaining}
}

// reserveFilter matches the tour only while the departure still has
// enough seats. Day-granularity date strings are compared verbatim.
func reserveFilter(tourID, dateKey string, count int) bson.M {
	return bson.M{
		"tourid": tourID,
		"startDates": bson.M{
			"$elemMatch": bson.M{
				"date":           dateKey,
				"availableSeats": bson.M{"$gte": count},
			},
		},
	}
}

// releasePipeline rewrites startDates, bumping the matching entry by
// count but never above its totalSeats.
func releasePipeline(dateKey string, count int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"updatedAt": time.Now(),
			"startDates": bson.M{
				"$map": bson.M{
					"input": "$startDates",
					"as":    "sd",
					"in": bson.M{
						"$cond": bson.A{
							bson.M{"$eq": bson.A{"$$sd.date", dateKey}},
							bson.M{"$mergeObjects": bson.A{
								"$$sd",
								bson.M{"availableSeats": bson.M{
									"$min": bson.A{
										"$$sd.totalSeats",
										bson.M{"$add": bson.A{"$$sd.availableSeats", count}},
									},
								}},
							}},
							"$$sd",
						},
					},
				},
			},
		}}},
	}
}
