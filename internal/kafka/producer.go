package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-artisan-market/internal/logging"
)

// Publisher is what request handlers depend on. Publish must not block on the network.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafka.Header)
}

// NopPublisher drops every message; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, []byte, []byte, ...kafka.Header) {}

type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex // guards closed and the inbox close
	closed bool
}

// NewProducer writes to whichever topic each message names.
func NewProducer(brokers []string, buf int) *Producer {
	if buf <= 0 {
		buf = 256
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					logging.Error().Err(err).Int("messages", len(msgs)).Msg("kafka write failed")
				}
			},
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start drains the inbox until Close, then flushes the writer.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		wctx := context.WithoutCancel(ctx)
		for m := range p.inbox {
			if err := p.w.WriteMessages(wctx, m); err != nil {
				logging.Error().Err(err).Str("topic", m.Topic).Msg("kafka enqueue failed")
			}
		}
		if err := p.w.Close(); err != nil {
			logging.Warn().Err(err).Msg("kafka writer close")
		}
	}()
}

// Publish after Close drops the message with a warning; handlers still running past
// the shutdown grace period may call it.
func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		logging.Warn().Str("topic", topic).Msg("producer closed, message dropped")
		return
	}
	p.inbox <- kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close stops accepting messages; the Start goroutine flushes what is left and exits.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
}

// WaitClosed blocks until the writer has been flushed and closed.
func (p *Producer) WaitClosed() { <-p.closeCh }
