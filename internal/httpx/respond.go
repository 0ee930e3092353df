package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pratofeito/pratofeito/internal/menu"
	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/schedule"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the domain error taxonomy onto status codes. Anything
// unrecognized is a store or infrastructure failure and stays opaque.
func writeErr(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, menu.ErrNotFound),
		errors.Is(err, schedule.ErrRestaurantNotFound):
		code = http.StatusNotFound
	case errors.Is(err, orders.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, orders.ErrBadTransition):
		code = http.StatusConflict
	case errors.Is(err, orders.ErrRestaurantClosed),
		errors.Is(err, orders.ErrAlreadyReviewed),
		errors.Is(err, orders.ErrNotDelivered):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, orders.ErrValidation),
		errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrWrongRestaurant),
		errors.Is(err, menu.ErrBadParent):
		code = http.StatusBadRequest
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// Identity comes from gateway-verified headers; this service trusts them the
// way the original trusted its session cookie. Zero means "not present".
func customerID(r *http.Request) int64   { return headerID(r, "X-Customer-ID") }
func restaurantID(r *http.Request) int64 { return headerID(r, "X-Restaurant-ID") }

func headerID(r *http.Request, name string) int64 {
	v := r.Header.Get(name)
	if v == "" {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func urlID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}
