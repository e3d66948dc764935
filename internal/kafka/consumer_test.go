package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader hands out a fixed batch, then blocks until the consumer stops.
type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.pending) > 0 {
		m := f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeReader) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

func TestConsumerRetriesBeforeCommittingLaterOffsets(t *testing.T) {
	r := &fakeReader{pending: []kafka.Message{
		{Topic: "t", Partition: 0, Offset: 10},
		{Topic: "t", Partition: 0, Offset: 11},
		{Topic: "t", Partition: 0, Offset: 12},
	}}
	c := &Consumer{r: r, workers: 4, backoff: time.Millisecond}

	var (
		mu    sync.Mutex
		seen  []int64
		fails = 2
	)
	handler := func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, m.Offset)
		if m.Offset == 10 && fails > 0 {
			fails--
			return errors.New("store unavailable")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, handler) }()

	require.Eventually(t, func() bool { return len(r.commits()) == 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{10, 11, 12}, r.commits())
	mu.Lock()
	assert.Equal(t, []int64{10, 10, 10, 11, 12}, seen)
	mu.Unlock()
	assert.True(t, r.closed)
}

func TestConsumerLeavesFailingMessageUncommittedOnShutdown(t *testing.T) {
	r := &fakeReader{pending: []kafka.Message{
		{Topic: "t", Partition: 1, Offset: 5},
		{Topic: "t", Partition: 1, Offset: 6},
		{Topic: "t", Partition: 2, Offset: 40},
	}}
	c := &Consumer{r: r, workers: 2, backoff: time.Millisecond}

	handler := func(_ context.Context, m kafka.Message) error {
		if m.Partition == 1 {
			return errors.New("always failing")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, handler) }()

	require.Eventually(t, func() bool { return len(r.commits()) == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{40}, r.commits(), "partition 1 never moves past the failing offset")
}
