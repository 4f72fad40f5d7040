package mq

import (
	"context"
	"encoding/json"
	"log"

	"voyago/rdx"
)

const availabilityChannel = "availability-events"

// SeatUpdate is broadcast whenever a tour date's seat count changes.
type SeatUpdate struct {
	TourID         string `json:"tourId"`
	Date           string `json:"date"`
	AvailableSeats int    `json:"availableSeats"`
}

// EmitSeatUpdate publishes a seat-count change to Redis. Failures are
// logged and dropped; live updates are best-effort.
func EmitSeatUpdate(ctx context.Context, update SeatUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("[mq] failed to marshal seat update: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, availabilityChannel, data).Err(); err != nil {
		log.Printf("[mq] failed to publish seat update: %v", err)
	}
}

// SubscribeSeatUpdates returns a channel of decoded seat updates. The
// subscription lives until ctx is cancelled.
func SubscribeSeatUpdates(ctx context.Context) <-chan SeatUpdate {
	out := make(chan SeatUpdate, 16)
	sub := rdx.Conn.Subscribe(ctx, availabilityChannel)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update SeatUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					log.Printf("[mq] failed to parse seat update: %v", err)
					continue
				}
				select {
				case out <- update:
				default:
					log.Println("[mq] seat update channel full, dropping update")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
