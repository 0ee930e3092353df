package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pratofeito/pratofeito/internal/kafka"
	"github.com/pratofeito/pratofeito/internal/notify"
	"github.com/pratofeito/pratofeito/internal/orders"
)

// Hub event name for menu-viewing rooms.
const NotifyMenuUpdated = "menu_updated"

type Store interface {
	GetDish(ctx context.Context, dishID int64) (Dish, error)
	SetAvailability(ctx context.Context, dishID int64, available bool) (bool, error)
}

// Service wraps availability toggles so that everyone currently viewing the
// restaurant's menu hears about them.
type Service struct {
	Store   Store
	Hub     *notify.Hub
	Bus     orders.Bus // optional
	Service string
}

// SetAvailability toggles a dish for the owning restaurant and notifies the
// menu-viewing room. A no-op flip (already in that state) notifies nobody.
func (s *Service) SetAvailability(ctx context.Context, restaurantID, dishID int64, available bool) error {
	d, err := s.Store.GetDish(ctx, dishID)
	if err != nil {
		return err
	}
	if d.RestaurantID != restaurantID {
		return orders.ErrForbidden
	}

	changed, err := s.Store.SetAvailability(ctx, dishID, available)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	payload := orders.DishChangedPayload{
		RestaurantID: restaurantID,
		DishID:       dishID,
		Available:    available,
	}
	s.Hub.Publish(notify.KindMenu, restaurantID, notify.Event{
		Name:    NotifyMenuUpdated,
		Payload: payload,
	})

	if s.Bus != nil {
		ev := orders.Envelope{
			EventID:       uuid.NewString(),
			EventType:     orders.EventDishChanged,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      s.Service,
			CorrelationID: fmt.Sprintf("%d", dishID),
			Payload:       kafkax.MustMarshal(payload),
		}
		s.Bus.Publish(orders.TopicDishChanged, orders.PartitionKey(restaurantID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventDishChanged)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
	return nil
}
