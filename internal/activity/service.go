package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-artisan-market/internal/kafka"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/metrics"
	"github.com/ariefcatur/go-artisan-market/internal/redisx"
)

// Deduper remembers processed event ids across consumer restarts and rebalances.
type Deduper interface {
	// Claim reports whether the caller is the first to see id.
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string)
}

type RedisDeduper struct {
	RDB     redis.Cmdable
	Service string
}

func (d RedisDeduper) key(id string) string { return fmt.Sprintf(redisx.KeyDedup, d.Service, id) }

func (d RedisDeduper) Claim(ctx context.Context, id string) (bool, error) {
	return redisx.Claim(ctx, d.RDB, d.key(id), redisx.TTLDedup)
}

func (d RedisDeduper) Release(ctx context.Context, id string) {
	_ = d.RDB.Del(ctx, d.key(id)).Err()
}

// Service consumes ProductViewed events and stores them as interactions.
type Service struct {
	Store InteractionWriter
	Dedup Deduper
}

// HandleProductViewed is installed as the consumer handler. Returning nil commits the offset.
func (s *Service) HandleProductViewed(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		// poison message: log and commit so the partition keeps moving
		logging.Warn().Err(err).Int64("offset", m.Offset).Msg("undecodable activity event")
		metrics.ActivityEvents.WithLabelValues("unknown", "error").Inc()
		return nil
	}
	if env.EventType != market.EventProductViewed {
		return nil
	}

	if s.Dedup != nil {
		first, err := s.Dedup.Claim(ctx, env.EventID)
		if err != nil {
			// fall through: the event_id unique index still dedups
			logging.Warn().Err(err).Str("event_id", env.EventID).Msg("dedup claim failed")
		} else if !first {
			metrics.ActivityEvents.WithLabelValues(env.EventType, "duplicate").Inc()
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[market.ProductViewedPayload](env.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("event_id", env.EventID).Msg("bad ProductViewed payload")
		metrics.ActivityEvents.WithLabelValues(env.EventType, "error").Inc()
		return nil
	}

	err = s.Store.RecordInteraction(ctx, market.Interaction{
		BuyerID:   p.BuyerID,
		ProductID: p.ProductID,
		Kind:      market.InteractionView,
		EventID:   env.EventID,
		At:        p.ViewedAt,
	})
	switch {
	case errors.Is(err, market.ErrNotFound):
		// product or buyer deleted since the view
		metrics.ActivityEvents.WithLabelValues(env.EventType, "dropped").Inc()
		return nil
	case err != nil:
		if s.Dedup != nil {
			s.Dedup.Release(ctx, env.EventID)
		}
		metrics.ActivityEvents.WithLabelValues(env.EventType, "error").Inc()
		return err
	}
	metrics.ActivityEvents.WithLabelValues(env.EventType, "recorded").Inc()
	return nil
}
