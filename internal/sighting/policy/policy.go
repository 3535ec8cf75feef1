// Package policy decides whether a sighting may still be edited.
package policy

import (
	"time"

	"catwatch/internal/sighting/models"
)

// EditWindow is how long after creation a sighting stays editable.
const EditWindow = 24 * time.Hour

// IsEditable reports whether s was created less than EditWindow before now.
// A sighting without CreatedAt is never editable. The result must not be
// cached: it flips to false as time passes.
func IsEditable(s *models.Sighting, now time.Time) bool {
	if !s.HasCreatedAt() {
		return false
	}
	return now.Sub(s.CreatedAt) < EditWindow
}

// EditableUntil returns the instant the window closes, or the zero time when
// CreatedAt is absent.
func EditableUntil(s *models.Sighting) time.Time {
	if !s.HasCreatedAt() {
		return time.Time{}
	}
	return s.CreatedAt.Add(EditWindow)
}
