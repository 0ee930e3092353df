package orders

import "errors"

var (
	ErrNotFound         = errors.New("order not found")
	ErrValidation       = errors.New("invalid input")
	ErrForbidden        = errors.New("not allowed for this actor")
	ErrRestaurantClosed = errors.New("restaurant is closed")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrWrongRestaurant  = errors.New("dish belongs to a different restaurant")
	ErrBadTransition    = errors.New("status transition not allowed")
	ErrAlreadyReviewed  = errors.New("order already reviewed")
	ErrNotDelivered     = errors.New("order not delivered yet")
)
