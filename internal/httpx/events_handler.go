package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratofeito/pratofeito/internal/notify"
)

// EventsHandler serves the long-lived per-session stream as Server-Sent
// Events. The hub itself does no authorization, so THIS is the place where
// identity is checked against private room keys: a connection only joins the
// restaurant- or customer-private room matching its own verified identity
// headers. The menu-viewing room is open to anyone who asks for it via
// ?menu=<restaurantID>; leaving the page closes the stream, which drops every
// room the session held.
type EventsHandler struct {
	Hub *notify.Hub
}

func (h *EventsHandler) Register(r chi.Router) {
	r.Get("/events", h.stream)
}

func (h *EventsHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	cust := customerID(r)
	rest := restaurantID(r)
	menuRoom, _ := strconv.ParseInt(r.URL.Query().Get("menu"), 10, 64)

	if cust == 0 && rest == 0 && menuRoom == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no identity and no menu room"})
		return
	}

	sess := h.Hub.NewSession(32)
	defer h.Hub.Drop(sess)

	// identity == room key, checked above; this is the private-room gate
	if rest > 0 {
		h.Hub.Subscribe(sess, notify.KindRestaurant, rest)
	}
	if cust > 0 {
		h.Hub.Subscribe(sess, notify.KindCustomer, cust)
	}
	if menuRoom > 0 {
		h.Hub.Subscribe(sess, notify.KindMenu, menuRoom)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-sess.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()
		}
	}
}
