package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/schedule"
)

type ScheduleHandler struct {
	Repo *schedule.Repo
	Eval *schedule.Evaluator
}

func (h *ScheduleHandler) Register(r chi.Router) {
	r.Get("/restaurants/{id}/open", h.isOpen)
	r.Get("/restaurants/{id}/schedule", h.getSchedule)
	r.Put("/restaurants/{id}/schedule", h.putSchedule)
}

func (h *ScheduleHandler) isOpen(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad restaurant id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	open, err := h.Eval.IsOpen(ctx, id, time.Now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": open})
}

type windowBody struct {
	Open  *string `json:"open"`
	Close *string `json:"close"`
}

type scheduleBody struct {
	Timezone string                `json:"timezone,omitempty"`
	Windows  map[string]windowBody `json:"windows"`
}

func (h *ScheduleHandler) getSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad restaurant id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.Schedule(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := scheduleBody{Timezone: s.Timezone, Windows: make(map[string]windowBody, len(s.Windows))}
	for day, win := range s.Windows {
		o, c := clockString(win.OpenSecs), clockString(win.CloseSecs)
		out.Windows[dayKey(day)] = windowBody{Open: &o, Close: &c}
	}
	writeJSON(w, http.StatusOK, out)
}

// putSchedule replaces the whole week. Days absent from the body, or with a
// null open/close, end up closed.
func (h *ScheduleHandler) putSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok || restaurantID(r) != id {
		writeErr(w, orders.ErrForbidden)
		return
	}
	var body scheduleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	var windows []schedule.Window
	for name, wb := range body.Windows {
		day, ok := schedule.ParseWeekday(name)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown weekday " + name})
			return
		}
		if wb.Open == nil || wb.Close == nil {
			continue // closed that day
		}
		openSecs, err := schedule.ParseClock(*wb.Open)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		closeSecs, err := schedule.ParseClock(*wb.Close)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		windows = append(windows, schedule.Window{Weekday: day, OpenSecs: openSecs, CloseSecs: closeSecs})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if body.Timezone != "" {
		if err := h.Repo.SetTimezone(ctx, id, body.Timezone); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad timezone"})
			return
		}
	}
	if err := h.Repo.Replace(ctx, id, windows); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func clockString(secs int) string {
	h, m, s := secs/3600, secs/60%60, secs%60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func dayKey(d time.Weekday) string {
	switch d {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	default:
		return "saturday"
	}
}
