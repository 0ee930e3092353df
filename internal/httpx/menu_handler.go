package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pratofeito/pratofeito/internal/menu"
	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/redisx"
)

type MenuHandler struct {
	Svc   *menu.Service
	Repo  *menu.Repo
	Redis *redis.Client
}

func (h *MenuHandler) Register(r chi.Router) {
	r.Get("/restaurants/{id}/menu", h.getMenu)
	r.Post("/restaurants/{id}/categories", h.addCategory)
	r.Post("/restaurants/{id}/dishes", h.addDish)
	r.Put("/dishes/{id}", h.updateDish)
	r.Put("/dishes/{id}/availability", h.setAvailability)
}

func (h *MenuHandler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad restaurant id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyMenu, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	sections, err := h.Repo.Menu(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	body, _ := json.Marshal(sections)
	_ = h.Redis.Set(ctx, key, body, redisx.TTLMenuCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *MenuHandler) invalidateMenu(ctx context.Context, restaurantID int64) {
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyMenu, restaurantID)).Err()
}

type categoryReq struct {
	Name string `json:"name"`
}

func (h *MenuHandler) addCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok || restaurantID(r) != id {
		writeErr(w, orders.ErrForbidden)
		return
	}
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	catID, err := h.Repo.AddCategory(ctx, id, req.Name)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateMenu(ctx, id)
	writeJSON(w, http.StatusCreated, map[string]int64{"category_id": catID})
}

type dishReq struct {
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents"`
}

func (h *MenuHandler) addDish(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok || restaurantID(r) != id {
		writeErr(w, orders.ErrForbidden)
		return
	}
	var req dishReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.PriceCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and positive price required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dishID, err := h.Repo.AddDish(ctx, id, req.CategoryID, req.Name, req.Description, req.PriceCents)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateMenu(ctx, id)
	writeJSON(w, http.StatusCreated, map[string]int64{"dish_id": dishID})
}

func (h *MenuHandler) updateDish(w http.ResponseWriter, r *http.Request) {
	rest := restaurantID(r)
	id, ok := urlID(r, "id")
	if !ok || rest == 0 {
		writeErr(w, orders.ErrForbidden)
		return
	}
	var req dishReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.PriceCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and positive price required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Repo.GetDish(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if d.RestaurantID != rest {
		writeErr(w, orders.ErrForbidden)
		return
	}

	if err := h.Repo.UpdateDish(ctx, id, req.Name, req.Description, req.PriceCents); err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateMenu(ctx, rest)
	w.WriteHeader(http.StatusNoContent)
}

type availabilityReq struct {
	Available bool `json:"available"`
}

func (h *MenuHandler) setAvailability(w http.ResponseWriter, r *http.Request) {
	rest := restaurantID(r)
	id, ok := urlID(r, "id")
	if !ok || rest == 0 {
		writeErr(w, orders.ErrForbidden)
		return
	}
	var req availabilityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Svc.SetAvailability(ctx, rest, id, req.Available); err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateMenu(ctx, rest)
	w.WriteHeader(http.StatusNoContent)
}
