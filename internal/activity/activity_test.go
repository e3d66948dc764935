package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
	kafkax "github.com/ariefcatur/go-artisan-market/internal/kafka"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

type captured struct {
	topic   string
	key     []byte
	value   []byte
	headers []kafkago.Header
}

type capturePublisher struct {
	mu   sync.Mutex
	msgs []captured
}

func (c *capturePublisher) Publish(topic string, key, value []byte, headers ...kafkago.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, captured{topic, key, value, headers})
}

type memoryInteractions struct {
	rows []market.Interaction
	err  error
}

func (m *memoryInteractions) RecordInteraction(_ context.Context, in market.Interaction) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, in)
	return nil
}

type memoryDedup struct {
	seen     map[string]bool
	released []string
}

func (d *memoryDedup) Claim(_ context.Context, id string) (bool, error) {
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func (d *memoryDedup) Release(_ context.Context, id string) {
	delete(d.seen, id)
	d.released = append(d.released, id)
}

var viewedAt = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func viewMessage(t *testing.T) kafkago.Message {
	t.Helper()
	pub := &capturePublisher{}
	rec := StreamRecorder{Publisher: pub, Producer: "market-api", Clock: clock.NewFixedClock(viewedAt)}
	require.NoError(t, rec.RecordView(context.Background(), 7, 42))
	require.Len(t, pub.msgs, 1)
	return kafkago.Message{Topic: pub.msgs[0].topic, Key: pub.msgs[0].key, Value: pub.msgs[0].value}
}

func TestStreamRecorderPublishesEnvelope(t *testing.T) {
	pub := &capturePublisher{}
	rec := StreamRecorder{Publisher: pub, Producer: "market-api", Clock: clock.NewFixedClock(viewedAt)}
	require.NoError(t, rec.RecordView(context.Background(), 7, 42))

	require.Len(t, pub.msgs, 1)
	m := pub.msgs[0]
	assert.Equal(t, market.TopicProductViewed, m.topic)
	assert.Equal(t, []byte("7"), m.key)
	assert.Equal(t, "x-event-type", m.headers[0].Key)

	var env market.Envelope
	require.NoError(t, json.Unmarshal(m.value, &env))
	assert.Equal(t, market.EventProductViewed, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.NotEmpty(t, env.EventID)

	p, err := kafkax.UnwrapPayload[market.ProductViewedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, market.ProductViewedPayload{BuyerID: 7, ProductID: 42, ViewedAt: viewedAt}, p)
}

func TestDirectRecorder(t *testing.T) {
	store := &memoryInteractions{}
	require.NoError(t, DirectRecorder{Store: store}.RecordView(context.Background(), 3, 9))
	assert.Equal(t, []market.Interaction{{BuyerID: 3, ProductID: 9, Kind: market.InteractionView}}, store.rows)
}

func TestHandleProductViewedDedups(t *testing.T) {
	store := &memoryInteractions{}
	svc := &Service{Store: store, Dedup: &memoryDedup{seen: map[string]bool{}}}
	m := viewMessage(t)

	require.NoError(t, svc.HandleProductViewed(context.Background(), m))
	require.NoError(t, svc.HandleProductViewed(context.Background(), m))

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, int64(7), row.BuyerID)
	assert.Equal(t, int64(42), row.ProductID)
	assert.Equal(t, viewedAt, row.At)
	assert.NotEmpty(t, row.EventID)
}

func TestHandleProductViewedStoreErrorReleasesClaim(t *testing.T) {
	store := &memoryInteractions{err: errors.New("db down")}
	dedup := &memoryDedup{seen: map[string]bool{}}
	svc := &Service{Store: store, Dedup: dedup}
	m := viewMessage(t)

	require.Error(t, svc.HandleProductViewed(context.Background(), m))
	require.Len(t, dedup.released, 1)

	store.err = nil
	require.NoError(t, svc.HandleProductViewed(context.Background(), m))
	assert.Len(t, store.rows, 1)
}

func TestHandleProductViewedSkipsOthers(t *testing.T) {
	store := &memoryInteractions{}
	svc := &Service{Store: store}

	assert.NoError(t, svc.HandleProductViewed(context.Background(), kafkago.Message{Value: []byte("not json")}))
	other := kafkax.MustMarshal(market.Envelope{EventType: market.EventProductDeleted, Payload: []byte(`{}`)})
	assert.NoError(t, svc.HandleProductViewed(context.Background(), kafkago.Message{Value: other}))

	store.err = market.ErrNotFound
	assert.NoError(t, svc.HandleProductViewed(context.Background(), viewMessage(t)))
	assert.Empty(t, store.rows)
}

func TestCatalogEvents(t *testing.T) {
	pub := &capturePublisher{}
	ev := CatalogEvents{Publisher: pub, Producer: "market-api"}
	ev.ProductDeleted("req-1", 5, 1)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, market.TopicProductDeleted, pub.msgs[0].topic)
	var env market.Envelope
	require.NoError(t, json.Unmarshal(pub.msgs[0].value, &env))
	assert.Equal(t, "req-1", env.CorrelationID)
	assert.JSONEq(t, `{"product_id":5,"deleted_by":1}`, string(env.Payload))

	CatalogEvents{}.ProductDeleted("x", 1, 1) // no publisher: no panic
}
