package market

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const (
	EventProductViewed  = "ProductViewed"
	EventProductCreated = "ProductCreated"
	EventProductDeleted = "ProductDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the Event* constants
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "market-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // request id of the originating call
	Payload       json.RawMessage `json:"payload"`
}

type ProductViewedPayload struct {
	BuyerID   int64     `json:"buyer_id"`
	ProductID int64     `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

type ProductCreatedPayload struct {
	ProductID int64           `json:"product_id"`
	ArtisanID int64           `json:"artisan_id"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Language  string          `json:"language"`
}

type ProductDeletedPayload struct {
	ProductID int64 `json:"product_id"`
	DeletedBy int64 `json:"deleted_by"`
}
