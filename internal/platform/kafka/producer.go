package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"catwatch/pkg/platform/circuit"
)

// Producer publishes records without waiting for delivery. Delivery results
// feed a circuit breaker so an unhealthy broker is reported once on the
// transition instead of on every record.
type Producer struct {
	client  *kgo.Client
	logger  *slog.Logger
	breaker *circuit.Breaker
}

type ProducerOption func(p *Producer)

func WithProducerLogger(logger *slog.Logger) ProducerOption {
	return func(p *Producer) {
		p.logger = logger
	}
}

func NewProducer(client *kgo.Client, opts ...ProducerOption) *Producer {
	p := &Producer{
		client:  client,
		logger:  slog.Default(),
		breaker: circuit.New("kafka-producer"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish enqueues a record. It never blocks on the broker and never fails
// the caller; delivery errors are logged.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	p.client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			_, change := p.breaker.RecordFailure()
			if change.Opened {
				p.logger.Warn("kafka producer circuit opened", "topic", r.Topic, "error", err)
			}
			p.logger.Debug("kafka produce failed", "topic", r.Topic, "error", err)
			return
		}
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.Info("kafka producer circuit closed", "topic", r.Topic)
		}
	})
}

// Healthy reports whether recent deliveries have succeeded.
func (p *Producer) Healthy() bool {
	return !p.breaker.IsOpen()
}
