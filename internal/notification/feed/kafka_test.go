package feed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catwatch/internal/platform/kafka"
	id "catwatch/pkg/domain"
)

type publishedRecord struct {
	topic      string
	key, value []byte
}

type recordingPublisher struct {
	records []publishedRecord
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, key, value []byte) {
	p.records = append(p.records, publishedRecord{topic: topic, key: key, value: value})
}

func TestKafkaFeed_RoundTripThroughHandler(t *testing.T) {
	ctx := context.Background()
	owner := id.OwnerID(uuid.New())
	publisher := &recordingPublisher{}

	NewKafkaFeed(publisher, "").Refresh(ctx, owner)

	require.Len(t, publisher.records, 1)
	record := publisher.records[0]
	assert.Equal(t, DefaultTopic, record.topic)
	assert.Equal(t, owner.String(), string(record.key))

	local := NewBroadcaster()
	ch, cancel := local.Subscribe(owner)
	defer cancel()

	err := NewRefreshHandler(local).Handle(ctx, &kafka.Message{Topic: record.topic, Key: record.key, Value: record.value})
	require.NoError(t, err)
	assert.Len(t, ch, 1)
}

func TestRefreshHandler_RejectsMalformedEvents(t *testing.T) {
	handler := NewRefreshHandler(NewBroadcaster())

	err := handler.Handle(context.Background(), &kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)

	payload, _ := json.Marshal(refreshEvent{OwnerID: "not-a-uuid"})
	err = handler.Handle(context.Background(), &kafka.Message{Value: payload})
	assert.Error(t, err)
}
