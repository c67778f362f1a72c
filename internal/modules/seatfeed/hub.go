package seatfeed

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event is pushed to every subscriber of a trip when its seat map changes.
type Event struct {
	Type   string   `json:"type"`
	TripID int64    `json:"trip_id"`
	Seats  []string `json:"seats"`
}

const (
	EventSeatsBooked   = "seats_booked"
	EventSeatsReleased = "seats_released"
)

// subscriber wraps a connection with a write lock. Gorilla websocket allows
// only one concurrent writer per connection, and broadcasts for different
// trips can run on different goroutines.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(ev)
}

// Hub fans seat events out to the websocket subscribers of each trip.
type Hub struct {
	subscribers map[int64]map[*websocket.Conn]*subscriber
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[*websocket.Conn]*subscriber),
	}
}

func (h *Hub) Subscribe(tripID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.subscribers[tripID] == nil {
		h.subscribers[tripID] = make(map[*websocket.Conn]*subscriber)
	}
	h.subscribers[tripID][conn] = &subscriber{conn: conn}
}

func (h *Hub) Unsubscribe(tripID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.subscribers[tripID]; exists {
		if conns[conn] != nil {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.subscribers, tripID)
		}
	}
}

// SeatsBooked notifies the trip's subscribers that seats went off sale.
func (h *Hub) SeatsBooked(tripID int64, seats []string) {
	h.broadcast(tripID, Event{Type: EventSeatsBooked, TripID: tripID, Seats: seats})
}

// SeatsReleased notifies the trip's subscribers that seats are open again.
func (h *Hub) SeatsReleased(tripID int64, seats []string) {
	h.broadcast(tripID, Event{Type: EventSeatsReleased, TripID: tripID, Seats: seats})
}

func (h *Hub) broadcast(tripID int64, ev Event) {
	h.mutex.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers[tripID]))
	for _, sub := range h.subscribers[tripID] {
		subs = append(subs, sub)
	}
	h.mutex.RUnlock()

	for _, sub := range subs {
		if err := sub.send(ev); err != nil {
			h.Unsubscribe(tripID, sub.conn)
		}
	}
}

func (h *Hub) SubscriberCount(tripID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers[tripID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for tripID, conns := range h.subscribers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subscribers, tripID)
	}
}
