package lifecycle

import (
	"catwatch/internal/sighting/criteria"
	"catwatch/internal/sighting/models"
	id "catwatch/pkg/domain"
)

// Status is the list-loading state of a controller.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusLoaded     Status = "loaded"
	StatusLoadFailed Status = "load_failed"
)

// EditForm is the draft of an edit in progress. Optional text fields use the
// empty string for "unset".
type EditForm struct {
	CatName      string  `json:"cat_name"`
	Description  string  `json:"description"`
	CoatPattern  string  `json:"coat_pattern"`
	PrimaryColor string  `json:"primary_color"`
	UrgencyLevel string  `json:"urgency_level"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PhotoRef     string  `json:"photo_ref"`
}

// FormFrom populates a draft from the stored sighting.
func FormFrom(s *models.Sighting) EditForm {
	return EditForm{
		CatName:      s.CatName,
		Description:  s.Description,
		CoatPattern:  string(s.CoatPattern),
		PrimaryColor: string(s.PrimaryColor),
		UrgencyLevel: string(s.UrgencyLevel),
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		PhotoRef:     s.PhotoRef,
	}
}

// Patch converts the draft into the store's editable field set.
func (f EditForm) Patch() models.Patch {
	return models.Patch{
		CatName:      f.CatName,
		Description:  f.Description,
		CoatPattern:  models.CoatPattern(f.CoatPattern),
		PrimaryColor: models.Color(f.PrimaryColor),
		UrgencyLevel: models.UrgencyLevel(f.UrgencyLevel),
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
		PhotoRef:     f.PhotoRef,
	}
}

// Edit is the edit-mode part of a State snapshot.
type Edit struct {
	SightingID id.SightingID `json:"sighting_id"`
	Form       EditForm      `json:"form"`
	Submitting bool          `json:"submitting"`
	Err        error         `json:"-"`
}

// State is a read-only snapshot of a controller. Sightings and Selected are
// copies; mutating them does not affect the controller.
type State struct {
	Criteria        criteria.Criteria
	Status          Status
	Refreshing      bool
	Sightings       []*models.Sighting
	LoadErr         error
	Selected        *models.Sighting
	Edit            *Edit
	Deleting        map[id.SightingID]bool
	Editable        map[id.SightingID]bool
	NotificationErr error
}

// IsDeleting reports whether a delete of sightingID is in flight.
func (s State) IsDeleting(sightingID id.SightingID) bool {
	return s.Deleting[sightingID]
}

// IsEditable reports the edit eligibility computed when the snapshot was taken.
func (s State) IsEditable(sightingID id.SightingID) bool {
	return s.Editable[sightingID]
}
