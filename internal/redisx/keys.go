package redisx

import "time"

const (
	// Cache of an order's current status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cached menu projection per restaurant: menu:{restaurant_id}
	KeyMenu = "menu:%d"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLMenuCache   = 2 * time.Minute
)
