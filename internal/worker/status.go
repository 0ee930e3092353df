// Package worker keeps the Redis order-status cache in sync with the
// lifecycle event stream, so status reads stay off the database.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pratofeito/pratofeito/internal/kafka"
	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent is the consumer handler for both order topics. Events are
// deduped on event id; replays after a rebalance only rewrite the same cache
// entry.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	fresh, err := redisx.SetOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.cacheStatus(ctx, p.OrderID, orders.StatusPending)
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.cacheStatus(ctx, p.OrderID, p.NewStatus)
	default:
		slog.Debug("ignoring event", "type", env.EventType)
		return nil
	}
}

func (s *Service) cacheStatus(ctx context.Context, orderID int64, status orders.Status) error {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": status})
	return s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
