package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/redisx"
)

type OrdersHandler struct {
	Svc   *orders.Service
	Repo  *orders.Repo
	Redis *redis.Client
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.checkout)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getStatus)
	r.Post("/orders/{id}/items", h.addItem)
	r.Post("/orders/{id}/status", h.updateStatus)
	r.Post("/orders/{id}/review", h.review)
	r.Get("/my/orders", h.myOrders)
	r.Get("/restaurants/{id}/orders", h.restaurantOrders)
	r.Get("/restaurants/{id}/reviews", h.reviews)
}

type orderResp struct {
	OrderID    int64         `json:"order_id"`
	Status     orders.Status `json:"status"`
	TotalCents int           `json:"total_cents"`
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	cust := customerID(r)
	if cust == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "customer identity required"})
		return
	}

	var in orders.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	in.CustomerID = cust

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Checkout(ctx, in)
	if err != nil {
		writeErr(w, err)
		return
	}

	// warm the status cache so the confirmation page reads from Redis
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	_ = h.Redis.Set(ctx, key, `{"status":"PENDING"}`, redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusCreated, orderResp{OrderID: o.ID, Status: o.Status, TotalCents: o.TotalCents})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.GetOrder(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if o.CustomerID != customerID(r) && o.RestaurantID != restaurantID(r) {
		writeErr(w, orders.ErrForbidden)
		return
	}

	items, err := h.Repo.GetItems(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": o, "items": items})
}

// getStatus serves from the Redis cache first; the DB is the fallback and
// refills the cache.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	o, err := h.Repo.GetOrder(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type addItemReq struct {
	DishID int64  `json:"dish_id"`
	Qty    int    `json:"qty"`
	Notes  string `json:"notes"`
}

func (h *OrdersHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad order id"})
		return
	}
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.AddItem(ctx, id, customerID(r), req.DishID, req.Qty, req.Notes); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusReq struct {
	Status orders.Status `json:"status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	rest := restaurantID(r)
	if rest == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "restaurant identity required"})
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad order id"})
		return
	}
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Transition(ctx, id, req.Status, rest)
	if err != nil {
		writeErr(w, err)
		return
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusOK, orderResp{OrderID: o.ID, Status: o.Status, TotalCents: o.TotalCents})
}

type reviewReq struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func (h *OrdersHandler) review(w http.ResponseWriter, r *http.Request) {
	cust := customerID(r)
	if cust == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "customer identity required"})
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad order id"})
		return
	}
	var req reviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Review(ctx, id, cust, req.Rating, req.Feedback); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *OrdersHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	cust := customerID(r)
	if cust == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "customer identity required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListForCustomer(ctx, cust)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) restaurantOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok || restaurantID(r) != id {
		writeErr(w, orders.ErrForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListForRestaurant(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad restaurant id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListReviews(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
