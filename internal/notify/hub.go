package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"proofing-app/internal/logging"
)

// Event types pushed to photographer dashboards. They only tell the dashboard
// to re-fetch orders; they carry no order state.
const (
	EventSelectionFinalized = "selection.finalized"
	EventPaymentUpdated     = "payment.updated"
)

type Event struct {
	Type           string    `json:"type"`
	PhotographerID uint      `json:"-"`
	AlbumID        string    `json:"album_id"`
	ClientID       string    `json:"client_id"`
	Status         string    `json:"status,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Hub fans events out to the subscribers of each photographer.
type Hub struct {
	subscribers map[uint]map[*Subscriber]bool
	broadcast   chan Event
	register    chan *Subscriber
	unregister  chan *Subscriber
	done        chan struct{}
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint]map[*Subscriber]bool),
		broadcast:   make(chan Event, 256),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		done:        make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case s := <-h.register:
			h.mu.Lock()
			if h.subscribers[s.photographerID] == nil {
				h.subscribers[s.photographerID] = make(map[*Subscriber]bool)
			}
			h.subscribers[s.photographerID][s] = true
			h.mu.Unlock()

		case s := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(s)
			h.mu.Unlock()

		case e := <-h.broadcast:
			payload, err := json.Marshal(e)
			if err != nil {
				logging.Logger.WithError(err).Warn("notify: failed to marshal event")
				continue
			}

			h.mu.Lock()
			for s := range h.subscribers[e.PhotographerID] {
				select {
				case s.send <- payload:
				default:
					// slow consumer
					h.removeLocked(s)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(s *Subscriber) {
	subs, ok := h.subscribers[s.photographerID]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}
	delete(subs, s)
	close(s.send)
	if len(subs) == 0 {
		delete(h.subscribers, s.photographerID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subscribers {
		for s := range subs {
			h.removeLocked(s)
		}
	}
}

// Publish queues an event without blocking the caller; a full queue drops it.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- e:
	default:
		logging.WithFields(map[string]interface{}{
			"type":     e.Type,
			"album_id": e.AlbumID,
		}).Warn("notify: event queue full, dropping")
	}
}

// Subscribe registers a new subscriber for the photographer.
func (h *Hub) Subscribe(photographerID uint) *Subscriber {
	s := &Subscriber{hub: h, photographerID: photographerID, send: make(chan []byte, 32)}
	select {
	case h.register <- s:
	case <-h.done:
		close(s.send)
	}
	return s
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Subscribers reports how many dashboards a photographer has open.
func (h *Hub) Subscribers(photographerID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[photographerID])
}
