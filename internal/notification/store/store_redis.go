package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"catwatch/internal/notification/models"
	id "catwatch/pkg/domain"
	"catwatch/pkg/platform/sentinel"
)

const (
	notificationKeyPrefix = "catwatch:notification:"
	ownerIndexKeyPrefix   = "catwatch:notifications:owner:"
)

// RedisStore keeps each notification as a JSON string with a TTL and indexes
// them per owner in a sorted set scored by creation time. Index entries whose
// value has expired are pruned lazily on read.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed notification store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func notificationKey(notificationID id.NotificationID) string {
	return notificationKeyPrefix + notificationID.String()
}

func ownerIndexKey(ownerID id.OwnerID) string {
	return ownerIndexKeyPrefix + ownerID.String()
}

func (s *RedisStore) Save(ctx context.Context, n *models.DeletionNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	index := ownerIndexKey(n.OwnerID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, notificationKey(n.ID), payload, s.ttl)
		pipe.ZAdd(ctx, index, redis.Z{
			Score:  float64(n.CreatedAt.UnixNano()),
			Member: n.ID.String(),
		})
		pipe.Expire(ctx, index, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) (*models.DeletionNotification, error) {
	payload, err := s.client.Get(ctx, notificationKey(notificationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n, err := decode(payload)
	if err != nil {
		return nil, err
	}
	if n.OwnerID != ownerID {
		return nil, sentinel.ErrNotFound
	}
	return n, nil
}

// ListByOwner returns the owner's live notifications, newest first.
func (s *RedisStore) ListByOwner(ctx context.Context, ownerID id.OwnerID) ([]*models.DeletionNotification, error) {
	index := ownerIndexKey(ownerID)
	members, err := s.client.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notification index: %w", err)
	}
	out := make([]*models.DeletionNotification, 0, len(members))
	if len(members) == 0 {
		return out, nil
	}

	keys := make([]string, len(members))
	for i, member := range members {
		keys[i] = notificationKeyPrefix + member
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, members[i])
			continue
		}
		n, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, index, expired...).Err(); err != nil {
			return nil, fmt.Errorf("prune notification index: %w", err)
		}
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) error {
	if _, err := s.Get(ctx, ownerID, notificationID); err != nil {
		return err
	}
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, notificationKey(notificationID))
		pipe.ZRem(ctx, ownerIndexKey(ownerID), notificationID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if deleted.Val() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func decode(payload []byte) (*models.DeletionNotification, error) {
	var n models.DeletionNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	return &n, nil
}
