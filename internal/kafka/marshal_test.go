package kafka

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

type viewed struct {
	BuyerID   int64 `json:"buyer_id"`
	ProductID int64 `json:"product_id"`
}

func TestEnvelopeRoundTrip(t *testing.T) {
	b := MustMarshal(envelope{EventType: "ProductViewed", Payload: MustMarshal(viewed{BuyerID: 1, ProductID: 2})})

	var env envelope
	require.NoError(t, UnmarshalEnvelope(b, &env))
	assert.Equal(t, "ProductViewed", env.EventType)

	v, err := UnwrapPayload[viewed](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, viewed{BuyerID: 1, ProductID: 2}, v)

	_, err = UnwrapPayload[viewed](json.RawMessage(`[`))
	assert.Error(t, err)
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(make(chan int)) })
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NotPanics(t, func() { p.Publish("t", nil, []byte("x")) })
}
