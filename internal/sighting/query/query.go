// Package query translates a criteria selection into store query parameters.
// Everything here is pure: no I/O, no clock reads.
package query

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
	"time"

	"catwatch/internal/sighting/criteria"
	"catwatch/internal/sighting/models"
)

// Order is the canonical result ordering.
type Order string

const (
	OrderNewest     Order = "newest"
	OrderOldest     Order = "oldest"
	OrderByLocation Order = "by_location"
)

// TimeRange bounds CreatedAt. From is always inclusive. To is inclusive unless
// EndExclusive is set.
type TimeRange struct {
	From         time.Time
	To           time.Time
	EndExclusive bool
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if t.Before(r.From) {
		return false
	}
	if r.EndExclusive {
		return t.Before(r.To)
	}
	return !t.After(r.To)
}

// Params is the store-facing query. Nil fields mean "no predicate".
type Params struct {
	Range   *TimeRange
	Urgency *models.UrgencyLevel
	// Search is trimmed; matching is a case-insensitive substring on CatName
	// or Description.
	Search string
	Order  Order
}

// Translate maps criteria onto query parameters relative to now. Day
// boundaries follow now's location. Unknown enum values degrade to the
// defaults instead of failing.
func Translate(c criteria.Criteria, now time.Time) Params {
	return Params{
		Range:   dateRange(c.DateFilter, now),
		Urgency: urgency(c.UrgencyFilter),
		Search:  strings.TrimSpace(c.SearchQuery),
		Order:   order(c.SortBy),
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dateRange(f criteria.DateFilter, now time.Time) *TimeRange {
	switch f {
	case criteria.DateToday:
		return &TimeRange{From: midnight(now), To: now}
	case criteria.DateYesterday:
		today := midnight(now)
		y, m, d := today.Date()
		return &TimeRange{
			From:         time.Date(y, m, d-1, 0, 0, 0, 0, today.Location()),
			To:           today,
			EndExclusive: true,
		}
	case criteria.DateLast7Days:
		return &TimeRange{From: now.AddDate(0, 0, -7), To: now}
	case criteria.DateLast30Days:
		return &TimeRange{From: now.AddDate(0, 0, -30), To: now}
	case criteria.DateLast365Days:
		return &TimeRange{From: now.AddDate(0, 0, -365), To: now}
	default:
		return nil
	}
}

func urgency(f criteria.UrgencyFilter) *models.UrgencyLevel {
	level := models.UrgencyLevel(f)
	if !level.IsValid() {
		return nil
	}
	return &level
}

func order(s criteria.SortBy) Order {
	switch s {
	case criteria.SortOldest:
		return OrderOldest
	case criteria.SortByLocation:
		return OrderByLocation
	default:
		return OrderNewest
	}
}

// Matches evaluates the filter predicates against s.
func (p Params) Matches(s *models.Sighting) bool {
	if p.Range != nil {
		if !s.HasCreatedAt() || !p.Range.Contains(s.CreatedAt) {
			return false
		}
	}
	if p.Urgency != nil && s.UrgencyLevel != *p.Urgency {
		return false
	}
	if p.Search != "" {
		needle := strings.ToLower(p.Search)
		if !strings.Contains(strings.ToLower(s.CatName), needle) &&
			!strings.Contains(strings.ToLower(s.Description), needle) {
			return false
		}
	}
	return true
}

// Compare orders a before b according to p.Order. Ties fall through to
// CreatedAt descending and finally ID, so the order is total.
func (p Params) Compare(a, b *models.Sighting) int {
	var c int
	switch p.Order {
	case OrderOldest:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case OrderByLocation:
		c = cmp.Or(
			cmp.Compare(a.Latitude, b.Latitude),
			cmp.Compare(a.Longitude, b.Longitude),
			b.CreatedAt.Compare(a.CreatedAt),
		)
	default:
		c = b.CreatedAt.Compare(a.CreatedAt)
	}
	if c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// Apply filters and sorts list without modifying it.
func (p Params) Apply(list []*models.Sighting) []*models.Sighting {
	out := make([]*models.Sighting, 0, len(list))
	for _, s := range list {
		if p.Matches(s) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, p.Compare)
	return out
}
