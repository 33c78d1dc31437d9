package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkax "github.com/ariefcatur/haritham-market/internal/kafka"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type Recorder interface {
	Record(ctx context.Context, e Entry) (bool, error)
}

type Service struct {
	Repo        Recorder
	Redis       redis.Cmdable // optional fast-path dedup
	ServiceName string
	Log         *slog.Logger
}

// HandleStatusChanged is the consumer handler for order.status.changed.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and let it be committed
		s.Log.Error("undecodable envelope", "offset", m.Offset, "err", err)
		return nil
	}
	if env.EventType != market.EventOrderStatusChanged {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if s.Redis != nil {
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[market.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		s.Log.Error("undecodable payload", "event_id", env.EventID, "err", err)
		return nil
	}

	inserted, err := s.Repo.Record(ctx, Entry{
		EventID:    env.EventID,
		OrderID:    p.OrderID,
		From:       p.From,
		To:         p.To,
		Role:       p.Role,
		ActorID:    p.ActorID,
		TraceID:    env.TraceID,
		OccurredAt: env.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("record %s: %w", env.EventID, err)
	}
	if s.Redis != nil {
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}
	if inserted {
		s.Log.Info("status change recorded", "order_id", p.OrderID, "from", p.From, "to", p.To, "role", p.Role)
	}
	return nil
}
