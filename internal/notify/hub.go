// Package notify is the in-process fan-out for live updates: restaurants get
// new-order events, customers get status changes, menu viewers get dish
// availability flips. Delivery is at-most-once with no persistence; whoever
// is not subscribed at publish time never sees the event (clients re-read
// their order list on page load anyway).
package notify

import (
	"sync"

	"github.com/google/uuid"
)

type Kind string

const (
	// Restaurant-private room, receives new-order events.
	KindRestaurant Kind = "restaurant"
	// Customer-private room, receives order status changes.
	KindCustomer Kind = "customer"
	// Menu-viewing room, keyed by restaurant id but distinct from the
	// restaurant-private room; anyone looking at the menu may join.
	KindMenu Kind = "menu"
)

type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

type room struct {
	kind Kind
	key  int64
}

type Session struct {
	id     string
	out    chan Event
	closed bool // guarded by the hub mutex
}

func (s *Session) ID() string { return s.id }

// Events is the session's delivery channel; it is closed when the session is
// dropped.
func (s *Session) Events() <-chan Event { return s.out }

// Hub does no ownership checks: the caller establishing the connection must
// verify the connecting identity against private room keys before
// subscribing. See httpx.EventsHandler.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[room]map[*Session]struct{}
	sessions map[*Session]map[room]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[room]map[*Session]struct{}),
		sessions: make(map[*Session]map[room]struct{}),
	}
}

// NewSession registers a connection with the given delivery buffer. A slow
// consumer whose buffer is full misses events rather than blocking publishers.
func (h *Hub) NewSession(buffer int) *Session {
	if buffer <= 0 {
		buffer = 16
	}
	s := &Session{id: uuid.NewString(), out: make(chan Event, buffer)}
	h.mu.Lock()
	h.sessions[s] = make(map[room]struct{})
	h.mu.Unlock()
	return s
}

// Subscribe joins a room; joining twice is a no-op.
func (h *Hub) Subscribe(s *Session, kind Kind, key int64) {
	rm := room{kind: kind, key: key}
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	if h.rooms[rm] == nil {
		h.rooms[rm] = make(map[*Session]struct{})
	}
	h.rooms[rm][s] = struct{}{}
	h.sessions[s][rm] = struct{}{}
}

// Unsubscribe leaves a room; safe even if the session never joined.
func (h *Hub) Unsubscribe(s *Session, kind Kind, key int64) {
	rm := room{kind: kind, key: key}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(s, rm)
}

func (h *Hub) leave(s *Session, rm room) {
	if members, ok := h.rooms[rm]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, rm)
		}
	}
	if subs, ok := h.sessions[s]; ok {
		delete(subs, rm)
	}
}

// Publish delivers ev to every session currently in the room, best effort.
func (h *Hub) Publish(kind Kind, key int64, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[room{kind: kind, key: key}] {
		select {
		case s.out <- ev:
		default: // full buffer, drop
		}
	}
}

// Drop removes the session from every room and closes its channel. Called
// when the connection terminates; calling twice is safe.
func (h *Hub) Drop(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	for rm := range h.sessions[s] {
		h.leave(s, rm)
	}
	delete(h.sessions, s)
	s.closed = true
	close(s.out)
}
