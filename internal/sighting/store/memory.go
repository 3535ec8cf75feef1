package store

import (
	"context"
	"sync"
	"time"

	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/query"
	id "catwatch/pkg/domain"
	"catwatch/pkg/platform/sentinel"
)

// Memory is an in-process sighting store. Every value crossing its boundary
// is copied, so callers never share records with it.
type Memory struct {
	mu        sync.RWMutex
	sightings map[id.SightingID]*models.Sighting
	clock     func() time.Time
}

type MemoryOption func(m *Memory)

// WithClock sets the clock used to stamp CreatedAt on Create.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.clock = clock
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		sightings: make(map[id.SightingID]*models.Sighting),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create assigns a fresh ID and CreatedAt and stores the sighting. The
// assigned values are written back into s.
func (m *Memory) Create(_ context.Context, s *models.Sighting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(s, m.clock())
	m.sightings[s.ID] = s.Clone()
	return nil
}

func (m *Memory) FindByID(_ context.Context, sightingID id.SightingID) (*models.Sighting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sightings[sightingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.Clone(), nil
}

func (m *Memory) List(_ context.Context, ownerID id.OwnerID, params query.Params) ([]*models.Sighting, error) {
	m.mu.RLock()
	owned := make([]*models.Sighting, 0, len(m.sightings))
	for _, s := range m.sightings {
		if s.OwnerID == ownerID {
			owned = append(owned, s.Clone())
		}
	}
	m.mu.RUnlock()
	return params.Apply(owned), nil
}

func (m *Memory) Update(_ context.Context, sightingID id.SightingID, patch models.Patch) (*models.Sighting, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sightings[sightingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	updated := patch.ApplyTo(s)
	m.sightings[sightingID] = updated
	return updated.Clone(), nil
}

func (m *Memory) Delete(_ context.Context, sightingID id.SightingID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sightings[sightingID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.sightings, sightingID)
	return nil
}

// RestoreFromSnapshot re-inserts a deleted sighting with its original ID and
// CreatedAt. It fails with sentinel.ErrConflict if the ID is in use.
func (m *Memory) RestoreFromSnapshot(_ context.Context, snapshot *models.Sighting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sightings[snapshot.ID]; ok {
		return sentinel.ErrConflict
	}
	m.sightings[snapshot.ID] = snapshot.Clone()
	return nil
}

func stamp(s *models.Sighting, now time.Time) {
	s.ID = id.NewSightingID()
	s.CreatedAt = now.Truncate(time.Microsecond)
}
