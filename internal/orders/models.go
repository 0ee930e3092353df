package orders

import "time"

type Order struct {
	ID           int64
	CustomerID   int64
	RestaurantID int64
	AddressID    int64
	PaymentID    int64
	Status       Status
	TotalCents   int
	FeeCents     int
	Reviewed     bool
	CreatedAt    time.Time
}

// Items carry a price snapshot taken when they were added; the live catalog
// price never changes a placed order.
type Item struct {
	ID         int64
	OrderID    int64
	DishID     int64
	Qty        int
	PriceCents int
	Notes      string
}

type Review struct {
	ID           int64
	OrderID      int64
	RestaurantID int64
	CustomerID   int64
	Rating       int
	Feedback     string
	CreatedAt    time.Time
}

// CartItem is a checkout input line: the dish to add and how many.
// Price is resolved from the catalog inside the checkout transaction.
type CartItem struct {
	DishID int64  `json:"dish_id"`
	Qty    int    `json:"qty"`
	Notes  string `json:"notes,omitempty"`
}
