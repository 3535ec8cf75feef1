package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"catwatch/internal/notification/models"
	id "catwatch/pkg/domain"
	"catwatch/pkg/platform/sentinel"
)

// DefaultTTL is how long a deletion notification stays undoable.
const DefaultTTL = 7 * 24 * time.Hour

// InMemoryStore keeps notifications in an expiring in-process cache.
type InMemoryStore struct {
	items *cache.Cache
	ttl   time.Duration
}

// NewInMemoryStore constructs a store whose entries expire after ttl.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemoryStore{
		items: cache.New(ttl, time.Hour),
		ttl:   ttl,
	}
}

func memoryKey(ownerID id.OwnerID, notificationID id.NotificationID) string {
	return ownerID.String() + ":" + notificationID.String()
}

func (s *InMemoryStore) Save(_ context.Context, n *models.DeletionNotification) error {
	cp := *n
	s.items.Set(memoryKey(n.OwnerID, n.ID), &cp, cache.DefaultExpiration)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, ownerID id.OwnerID, notificationID id.NotificationID) (*models.DeletionNotification, error) {
	v, ok := s.items.Get(memoryKey(ownerID, notificationID))
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *v.(*models.DeletionNotification)
	return &cp, nil
}

// ListByOwner returns the owner's live notifications, newest first.
func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.OwnerID) ([]*models.DeletionNotification, error) {
	prefix := ownerID.String() + ":"
	out := make([]*models.DeletionNotification, 0)
	for key, item := range s.items.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		cp := *item.Object.(*models.DeletionNotification)
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.DeletionNotification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, ownerID id.OwnerID, notificationID id.NotificationID) error {
	key := memoryKey(ownerID, notificationID)
	if _, ok := s.items.Get(key); !ok {
		return sentinel.ErrNotFound
	}
	s.items.Delete(key)
	return nil
}
