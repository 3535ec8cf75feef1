// Package criteria holds the active filter/sort/search selection and emits a
// change event on every mutation.
package criteria

import (
	"sync"

	"catwatch/internal/sighting/models"
)

// DateFilter selects a creation-time window.
type DateFilter string

const (
	DateAll         DateFilter = "all"
	DateToday       DateFilter = "today"
	DateYesterday   DateFilter = "yesterday"
	DateLast7Days   DateFilter = "last_7_days"
	DateLast30Days  DateFilter = "last_30_days"
	DateLast365Days DateFilter = "last_365_days"
)

// IsValid reports whether f is one of the known windows.
func (f DateFilter) IsValid() bool {
	switch f {
	case DateAll, DateToday, DateYesterday, DateLast7Days, DateLast30Days, DateLast365Days:
		return true
	}
	return false
}

// UrgencyFilter is either UrgencyAll or one of models.UrgencyLevel.
type UrgencyFilter string

const UrgencyAll UrgencyFilter = "all"

// ForLevel converts an urgency level into a filter value.
func ForLevel(l models.UrgencyLevel) UrgencyFilter { return UrgencyFilter(l) }

func (f UrgencyFilter) IsValid() bool {
	return f == UrgencyAll || models.UrgencyLevel(f).IsValid()
}

// SortBy selects the result ordering.
type SortBy string

const (
	SortNewest     SortBy = "newest"
	SortOldest     SortBy = "oldest"
	SortByLocation SortBy = "by_location"
)

func (s SortBy) IsValid() bool {
	return s == SortNewest || s == SortOldest || s == SortByLocation
}

// Criteria is one value per axis. It is a plain value; copies never alias.
type Criteria struct {
	DateFilter    DateFilter    `json:"date_filter"`
	UrgencyFilter UrgencyFilter `json:"urgency_filter"`
	SortBy        SortBy        `json:"sort_by"`
	SearchQuery   string        `json:"search_query"`
}

// Default returns all/all/newest with no search.
func Default() Criteria {
	return Criteria{
		DateFilter:    DateAll,
		UrgencyFilter: UrgencyAll,
		SortBy:        SortNewest,
	}
}

// Model owns the current Criteria. Every setter replaces exactly one axis and
// then notifies subscribers with the new value. Listeners run synchronously on
// the caller's goroutine, outside the model's lock.
type Model struct {
	mu        sync.Mutex
	current   Criteria
	listeners map[int]func(Criteria)
	nextID    int
}

// NewModel returns a model holding Default().
func NewModel() *Model {
	return &Model{current: Default(), listeners: make(map[int]func(Criteria))}
}

// Current returns a snapshot of the selection.
func (m *Model) Current() Criteria {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn for change events and returns its cancel func.
func (m *Model) Subscribe(fn func(Criteria)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.nextID
	m.nextID++
	m.listeners[key] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, key)
	}
}

func (m *Model) SetDateFilter(f DateFilter) {
	m.mutate(func(c *Criteria) { c.DateFilter = f })
}

func (m *Model) SetUrgencyFilter(f UrgencyFilter) {
	m.mutate(func(c *Criteria) { c.UrgencyFilter = f })
}

func (m *Model) SetSortBy(s SortBy) {
	m.mutate(func(c *Criteria) { c.SortBy = s })
}

func (m *Model) SetSearchQuery(q string) {
	m.mutate(func(c *Criteria) { c.SearchQuery = q })
}

func (m *Model) mutate(fn func(c *Criteria)) {
	m.mu.Lock()
	fn(&m.current)
	next := m.current
	listeners := make([]func(Criteria), 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}
