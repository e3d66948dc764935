package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
	kafkax "github.com/ariefcatur/go-artisan-market/internal/kafka"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

// CatalogEvents publishes product lifecycle events for downstream consumers.
type CatalogEvents struct {
	Publisher kafkax.Publisher
	Producer  string
	Clock     clock.Clock
}

func (c CatalogEvents) ProductCreated(requestID string, p market.Product) {
	c.publish(market.TopicProductCreated, market.EventProductCreated, requestID, market.ProductKey(p.ID),
		market.ProductCreatedPayload{ProductID: p.ID, ArtisanID: p.ArtisanID, Category: p.Category, Price: p.Price, Language: p.Language})
}

func (c CatalogEvents) ProductDeleted(requestID string, productID, adminID int64) {
	c.publish(market.TopicProductDeleted, market.EventProductDeleted, requestID, market.ProductKey(productID),
		market.ProductDeletedPayload{ProductID: productID, DeletedBy: adminID})
}

func (c CatalogEvents) publish(topic, eventType, requestID string, key []byte, payload any) {
	if c.Publisher == nil {
		return
	}
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    now,
		Producer:      c.Producer,
		CorrelationID: requestID,
		Payload:       kafkax.MustMarshal(payload),
	}
	c.Publisher.Publish(topic, key, kafkax.MustMarshal(ev), eventHeaders(eventType)...)
}
