package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pratofeito/pratofeito/internal/kafka"
	"github.com/pratofeito/pratofeito/internal/notify"
)

// Hub event names, as seen by connected clients.
const (
	NotifyNewOrder      = "new_order"
	NotifyStatusChanged = "status_changed"
)

type Store interface {
	CreateOrderTx(ctx context.Context, customerID, restaurantID, paymentID, addressID int64, feeCents int, items []CartItem) (int64, int, error)
	AddItem(ctx context.Context, orderID, dishID int64, qty int, notes string) error
	GetOrder(ctx context.Context, orderID int64) (Order, error)
	GetItems(ctx context.Context, orderID int64) ([]Item, error)
	SetStatus(ctx context.Context, orderID int64, from, to Status) (bool, error)
	CreateReview(ctx context.Context, orderID, customerID int64, rating int, feedback string) error
}

type OpenChecker interface {
	IsOpen(ctx context.Context, restaurantID int64, now time.Time) (bool, error)
}

type Bus interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Service is the order lifecycle authority: it gates checkout on the
// restaurant being open, owns the status transition rules, and fans every
// successful mutation out to the hub (synchronously, before returning) and
// to the event stream (async, best effort).
type Service struct {
	Store   Store
	Open    OpenChecker
	Hub     *notify.Hub
	Bus     Bus // optional
	Service string
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CheckoutInput struct {
	CustomerID   int64      `json:"customer_id"`
	RestaurantID int64      `json:"restaurant_id"`
	PaymentID    int64      `json:"payment_id"`
	AddressID    int64      `json:"address_id"`
	FeeCents     int        `json:"fee_cents"`
	Items        []CartItem `json:"items"`
}

// Checkout places an order: all items from one restaurant, only while that
// restaurant is open, everything written in one transaction. The new order
// always starts PENDING.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (Order, error) {
	if in.CustomerID <= 0 || in.RestaurantID <= 0 || in.PaymentID <= 0 || in.AddressID <= 0 {
		return Order{}, fmt.Errorf("%w: missing reference", ErrValidation)
	}
	if in.FeeCents < 0 {
		return Order{}, fmt.Errorf("%w: negative fee", ErrValidation)
	}
	if len(in.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	open, err := s.Open.IsOpen(ctx, in.RestaurantID, s.now())
	if err != nil {
		return Order{}, err
	}
	if !open {
		return Order{}, ErrRestaurantClosed
	}

	orderID, total, err := s.Store.CreateOrderTx(ctx,
		in.CustomerID, in.RestaurantID, in.PaymentID, in.AddressID, in.FeeCents, in.Items)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:           orderID,
		CustomerID:   in.CustomerID,
		RestaurantID: in.RestaurantID,
		AddressID:    in.AddressID,
		PaymentID:    in.PaymentID,
		Status:       StatusPending,
		TotalCents:   total,
		FeeCents:     in.FeeCents,
		CreatedAt:    s.now(),
	}

	payload := OrderCreatedPayload{
		OrderID:      orderID,
		CustomerID:   in.CustomerID,
		RestaurantID: in.RestaurantID,
		TotalCents:   total,
	}
	if items, err := s.Store.GetItems(ctx, orderID); err == nil {
		for _, it := range items {
			payload.Items = append(payload.Items, ItemSnapshot{
				DishID: it.DishID, Qty: it.Qty, PriceCents: it.PriceCents, Notes: it.Notes,
			})
		}
	}

	s.Hub.Publish(notify.KindRestaurant, in.RestaurantID, notify.Event{
		Name:    NotifyNewOrder,
		Payload: payload,
	})
	s.emit(EventOrderCreated, TopicOrderCreated, orderID, payload)
	return o, nil
}

// AddItem appends a line item to a pending order on behalf of its owner.
func (s *Service) AddItem(ctx context.Context, orderID, customerID, dishID int64, qty int, notes string) error {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.CustomerID != customerID {
		return ErrForbidden
	}
	return s.Store.AddItem(ctx, orderID, dishID, qty, notes)
}

// Transition moves an order along the status graph. Only the owning
// restaurant may call it; the store write is a compare-and-set against the
// status just read, so two racing transitions cannot both win.
func (s *Service) Transition(ctx context.Context, orderID int64, to Status, restaurantID int64) (Order, error) {
	if !to.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.RestaurantID != restaurantID {
		return Order{}, ErrForbidden
	}
	if !CanTransition(o.Status, to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, o.Status, to)
	}

	won, err := s.Store.SetStatus(ctx, orderID, o.Status, to)
	if err != nil {
		return Order{}, err
	}
	if !won {
		return Order{}, fmt.Errorf("%w: order moved concurrently", ErrBadTransition)
	}

	payload := OrderStatusChangedPayload{
		OrderID:      orderID,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		OldStatus:    o.Status,
		NewStatus:    to,
	}
	s.Hub.Publish(notify.KindCustomer, o.CustomerID, notify.Event{
		Name:    NotifyStatusChanged,
		Payload: payload,
	})
	s.emit(EventOrderStatusChanged, TopicStatusChanged, orderID, payload)

	o.Status = to
	return o, nil
}

// Review records the customer's one-time rating of a delivered order. The
// once-only and delivered-only rules are enforced by the store in the same
// transaction that writes the review.
func (s *Service) Review(ctx context.Context, orderID, customerID int64, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be 1-5", ErrValidation)
	}
	return s.Store.CreateReview(ctx, orderID, customerID, rating, feedback)
}

func (s *Service) emit(eventType, topic string, orderID int64, payload any) {
	if s.Bus == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.Service,
		CorrelationID: fmt.Sprintf("%d", orderID),
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Bus.Publish(topic, PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
