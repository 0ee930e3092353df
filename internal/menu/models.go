package menu

type Category struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
}

type Dish struct {
	ID           int64  `json:"id"`
	CategoryID   int64  `json:"category_id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceCents   int    `json:"price_cents"`
	Available    bool   `json:"available"`
}

// Section is one category of the menu projection with its dishes.
type Section struct {
	Category Category `json:"category"`
	Dishes   []Dish   `json:"dishes"`
}
