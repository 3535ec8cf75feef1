package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "catwatch/pkg/domain"
)

// DefaultChannel is the Redis pub/sub channel for refresh signals.
const DefaultChannel = "catwatch:notifications:refresh"

// RedisFeed fans refresh signals out through Redis pub/sub. It is used when
// Redis is configured and Kafka is not.
type RedisFeed struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
	clock   func() time.Time
}

type RedisFeedOption func(f *RedisFeed)

func WithRedisLogger(logger *slog.Logger) RedisFeedOption {
	return func(f *RedisFeed) {
		f.logger = logger
	}
}

func NewRedisFeed(client *redis.Client, channel string, opts ...RedisFeedOption) *RedisFeed {
	if channel == "" {
		channel = DefaultChannel
	}
	f := &RedisFeed{
		client:  client,
		channel: channel,
		logger:  slog.New(slog.DiscardHandler),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Refresh publishes a signal for ownerID. Publish failures are logged only.
func (f *RedisFeed) Refresh(ctx context.Context, ownerID id.OwnerID) {
	payload, err := encodeRefresh(ownerID, f.clock())
	if err != nil {
		return
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		f.logger.WarnContext(ctx, "refresh publish failed",
			"owner_id", ownerID.String(),
			"channel", f.channel,
			"error", err,
		)
	}
}

// Relay forwards every signal on the channel to local until ctx is done.
func (f *RedisFeed) Relay(ctx context.Context, local Refresher) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			ownerID, err := decodeRefresh([]byte(msg.Payload))
			if err != nil {
				f.logger.WarnContext(ctx, "refresh relay dropped message",
					"channel", f.channel,
					"error", err,
				)
				continue
			}
			local.Refresh(ctx, ownerID)
		}
	}
}
