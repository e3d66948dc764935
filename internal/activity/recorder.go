package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
	kafkax "github.com/ariefcatur/go-artisan-market/internal/kafka"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

// Recorder notes that a buyer opened a product page.
type Recorder interface {
	RecordView(ctx context.Context, buyerID, productID int64) error
}

type InteractionWriter interface {
	RecordInteraction(ctx context.Context, in market.Interaction) error
}

// DirectRecorder inserts the interaction inside the request.
type DirectRecorder struct {
	Store InteractionWriter
}

func (d DirectRecorder) RecordView(ctx context.Context, buyerID, productID int64) error {
	return d.Store.RecordInteraction(ctx, market.Interaction{
		BuyerID: buyerID, ProductID: productID, Kind: market.InteractionView,
	})
}

// StreamRecorder publishes a ProductViewed event; cmd/activity writes it.
type StreamRecorder struct {
	Publisher kafkax.Publisher
	Producer  string
	Clock     clock.Clock
}

func (s StreamRecorder) RecordView(ctx context.Context, buyerID, productID int64) error {
	now := s.now()
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventProductViewed,
		EventVersion:  1,
		OccurredAt:    now,
		Producer:      s.Producer,
		CorrelationID: logging.RequestIDFromContext(ctx),
		Payload: kafkax.MustMarshal(market.ProductViewedPayload{
			BuyerID: buyerID, ProductID: productID, ViewedAt: now,
		}),
	}
	s.Publisher.Publish(market.TopicProductViewed, market.BuyerKey(buyerID), kafkax.MustMarshal(ev), eventHeaders(market.EventProductViewed)...)
	return nil
}

func (s StreamRecorder) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func eventHeaders(eventType string) []kafkago.Header {
	return []kafkago.Header{
		{Key: "x-event-type", Value: []byte(eventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}
