package tours

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"voyago/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// AvailabilityHub fans seat updates out to WebSocket clients grouped by
// tour. Clients that cannot keep up are dropped.
type AvailabilityHub struct {
	rooms      map[string]map[*availabilityClient]bool
	register   chan *availabilityClient
	unregister chan *availabilityClient
	mu         sync.Mutex
}

type availabilityClient struct {
	conn   *websocket.Conn
	send   chan []byte
	tourID string
}

func NewAvailabilityHub() *AvailabilityHub {
	return &AvailabilityHub{
		rooms:      make(map[string]map[*availabilityClient]bool),
		register:   make(chan *availabilityClient),
		unregister: make(chan *availabilityClient),
	}
}

// Run consumes the seat-update feed until ctx is cancelled.
func (h *AvailabilityHub) Run(ctx context.Context) {
	updates := mq.SubscribeSeatUpdates(ctx)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.tourID] == nil {
				h.rooms[c.tourID] = make(map[*availabilityClient]bool)
			}
			h.rooms[c.tourID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.tourID]; conns != nil {
				if conns[c] {
					delete(conns, c)
					close(c.send)
				}
			}
			h.mu.Unlock()

		case update, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for c := range h.rooms[update.TourID] {
				select {
				case c.send <- data:
				default:
					close(c.send)
					delete(h.rooms[update.TourID], c)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			return
		}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// GET /ws/tours/:id/availability
func AvailabilityHandler(hub *AvailabilityHub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &availabilityClient{
			conn:   conn,
			send:   make(chan []byte, 64),
			tourID: ps.ByName("id"),
		}

		hub.register <- client
		go client.writePump()
		go client.readPump(hub)
	}
}

func (c *availabilityClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only watches for the client going away.
func (c *availabilityClient) readPump(hub *AvailabilityHub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
