package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catwatch/internal/platform/kafka"
	id "catwatch/pkg/domain"
)

// DefaultTopic carries refresh signals between instances.
const DefaultTopic = "catwatch.notifications.refresh"

// Publisher is the producer side of the Kafka feed.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte)
}

type refreshEvent struct {
	OwnerID     string    `json:"owner_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// KafkaFeed publishes refresh signals so other instances can wake their
// local subscribers. Publishing is fire-and-forget.
type KafkaFeed struct {
	publisher Publisher
	topic     string
	clock     func() time.Time
}

func NewKafkaFeed(publisher Publisher, topic string) *KafkaFeed {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaFeed{publisher: publisher, topic: topic, clock: time.Now}
}

func (f *KafkaFeed) Refresh(ctx context.Context, ownerID id.OwnerID) {
	payload, err := encodeRefresh(ownerID, f.clock())
	if err != nil {
		return
	}
	f.publisher.Publish(ctx, f.topic, []byte(ownerID.String()), payload)
}

// RefreshHandler turns consumed refresh events into local signals.
type RefreshHandler struct {
	local Refresher
}

func NewRefreshHandler(local Refresher) *RefreshHandler {
	return &RefreshHandler{local: local}
}

func (h *RefreshHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	ownerID, err := decodeRefresh(msg.Value)
	if err != nil {
		return err
	}
	h.local.Refresh(ctx, ownerID)
	return nil
}

func encodeRefresh(ownerID id.OwnerID, at time.Time) ([]byte, error) {
	return json.Marshal(refreshEvent{OwnerID: ownerID.String(), RequestedAt: at})
}

func decodeRefresh(payload []byte) (id.OwnerID, error) {
	var event refreshEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return id.OwnerID{}, fmt.Errorf("decode refresh event: %w", err)
	}
	ownerID, err := id.ParseOwnerID(event.OwnerID)
	if err != nil {
		return id.OwnerID{}, fmt.Errorf("decode refresh event owner: %w", err)
	}
	return ownerID, nil
}
