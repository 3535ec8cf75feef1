package handler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"catwatch/internal/sighting/lifecycle"
	"catwatch/internal/sighting/metrics"
	id "catwatch/pkg/domain"
	"catwatch/pkg/requestcontext"
)

// DefaultSessionIdleTTL is how long an unused controller is kept.
const DefaultSessionIdleTTL = 30 * time.Minute

// ControllerFactory builds an unstarted controller for ownerID.
type ControllerFactory func(ownerID id.OwnerID) *lifecycle.Controller

// Registry keeps one lifecycle.Controller per owner. Controllers idle for
// longer than the TTL are evicted and closed.
type Registry struct {
	mu      sync.Mutex
	items   *cache.Cache
	ttl     time.Duration
	factory ControllerFactory
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type RegistryOption func(r *Registry)

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithRegistryMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

func NewRegistry(factory ControllerFactory, ttl time.Duration, opts ...RegistryOption) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionIdleTTL
	}
	r := &Registry{
		items:   cache.New(ttl, ttl/2),
		ttl:     ttl,
		factory: factory,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.items.OnEvicted(r.evicted)
	return r
}

// Get returns the owner's controller, creating and starting it on first use.
// A failed initial load is reported through the controller's state, not here.
// Every call extends the idle TTL.
func (r *Registry) Get(ctx context.Context, ownerID id.OwnerID) *lifecycle.Controller {
	key := ownerID.String()

	r.mu.Lock()
	if v, ok := r.items.Get(key); ok {
		c := v.(*lifecycle.Controller)
		r.items.SetDefault(key, c)
		r.mu.Unlock()
		return c
	}
	c := r.factory(ownerID)
	r.items.SetDefault(key, c)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.SessionOpened()
	}
	r.logger.InfoContext(ctx, "sighting session opened",
		"owner_id", key,
		"request_id", requestcontext.RequestID(ctx),
	)
	_ = c.Start(ctx)
	return c
}

// Reload refreshes the owner's list if a session exists.
func (r *Registry) Reload(ctx context.Context, ownerID id.OwnerID) {
	v, ok := r.items.Get(ownerID.String())
	if !ok {
		return
	}
	_ = v.(*lifecycle.Controller).Load(ctx)
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	return r.items.ItemCount()
}

// Evict closes and forgets the owner's session.
func (r *Registry) Evict(ownerID id.OwnerID) {
	r.items.Delete(ownerID.String())
}

// Close closes every live session.
func (r *Registry) Close() {
	for key := range r.items.Items() {
		r.items.Delete(key)
	}
}

func (r *Registry) evicted(key string, v any) {
	c, ok := v.(*lifecycle.Controller)
	if !ok {
		return
	}
	c.Close()
	if r.metrics != nil {
		r.metrics.SessionClosed()
	}
	r.logger.Info("sighting session closed", "owner_id", key)
}
