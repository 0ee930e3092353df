package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventDishChanged        = "DishChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually the order id
	Payload       json.RawMessage `json:"payload"`
}

type ItemSnapshot struct {
	DishID     int64  `json:"dish_id"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
	Notes      string `json:"notes,omitempty"`
}

type OrderCreatedPayload struct {
	OrderID      int64          `json:"order_id"`
	CustomerID   int64          `json:"customer_id"`
	RestaurantID int64          `json:"restaurant_id"`
	Items        []ItemSnapshot `json:"items"`
	TotalCents   int            `json:"total_cents"`
}

type OrderStatusChangedPayload struct {
	OrderID      int64  `json:"order_id"`
	CustomerID   int64  `json:"customer_id"`
	RestaurantID int64  `json:"restaurant_id"`
	OldStatus    Status `json:"old_status"`
	NewStatus    Status `json:"new_status"`
}

type DishChangedPayload struct {
	RestaurantID int64 `json:"restaurant_id"`
	DishID       int64 `json:"dish_id"`
	Available    bool  `json:"available"`
}
