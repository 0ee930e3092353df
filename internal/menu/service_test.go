package menu

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratofeito/pratofeito/internal/notify"
	"github.com/pratofeito/pratofeito/internal/orders"
)

type stubStore struct {
	dish    Dish
	dishErr error
	changed bool
	set     []bool
}

func (s *stubStore) GetDish(ctx context.Context, dishID int64) (Dish, error) {
	return s.dish, s.dishErr
}

func (s *stubStore) SetAvailability(ctx context.Context, dishID int64, available bool) (bool, error) {
	s.set = append(s.set, available)
	return s.changed, nil
}

type stubBus struct{ topics []string }

func (b *stubBus) Publish(topic string, key, value []byte, headers ...kafkago.Header) {
	b.topics = append(b.topics, topic)
}

func TestSetAvailabilityNotifiesMenuRoom(t *testing.T) {
	hub := notify.NewHub()
	bus := &stubBus{}
	svc := &Service{
		Store: &stubStore{dish: Dish{ID: 3, RestaurantID: 7, Available: true}, changed: true},
		Hub:   hub,
		Bus:   bus,
	}

	viewer := hub.NewSession(4)
	hub.Subscribe(viewer, notify.KindMenu, 7)
	private := hub.NewSession(4)
	hub.Subscribe(private, notify.KindRestaurant, 7)

	require.NoError(t, svc.SetAvailability(context.Background(), 7, 3, false))

	select {
	case ev := <-viewer.Events():
		assert.Equal(t, NotifyMenuUpdated, ev.Name)
		payload, ok := ev.Payload.(orders.DishChangedPayload)
		require.True(t, ok)
		assert.Equal(t, int64(3), payload.DishID)
		assert.False(t, payload.Available)
	default:
		t.Fatal("menu room heard nothing")
	}

	select {
	case <-private.Events():
		t.Fatal("restaurant-private room must not hear menu events")
	default:
	}

	assert.Equal(t, []string{orders.TopicDishChanged}, bus.topics)
}

func TestSetAvailabilityNoOpStaysQuiet(t *testing.T) {
	hub := notify.NewHub()
	bus := &stubBus{}
	svc := &Service{
		Store: &stubStore{dish: Dish{ID: 3, RestaurantID: 7, Available: false}, changed: false},
		Hub:   hub,
		Bus:   bus,
	}

	viewer := hub.NewSession(4)
	hub.Subscribe(viewer, notify.KindMenu, 7)

	require.NoError(t, svc.SetAvailability(context.Background(), 7, 3, false))

	select {
	case <-viewer.Events():
		t.Fatal("unchanged availability must not notify")
	default:
	}
	assert.Empty(t, bus.topics)
}

func TestSetAvailabilityForeignDish(t *testing.T) {
	svc := &Service{
		Store: &stubStore{dish: Dish{ID: 3, RestaurantID: 8}},
		Hub:   notify.NewHub(),
	}
	err := svc.SetAvailability(context.Background(), 7, 3, false)
	assert.ErrorIs(t, err, orders.ErrForbidden)
}
