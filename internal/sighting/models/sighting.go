package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/geo/s2"

	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
)

// UrgencyLevel describes how much help the reported cat appears to need.
type UrgencyLevel string

const (
	UrgencyJustChilling   UrgencyLevel = "just_chilling"
	UrgencyNeedsFood      UrgencyLevel = "needs_food"
	UrgencyAppearsInjured UrgencyLevel = "appears_injured"
)

var urgencyLabels = map[UrgencyLevel]string{
	UrgencyJustChilling:   "Just chilling",
	UrgencyNeedsFood:      "Needs food",
	UrgencyAppearsInjured: "Appears injured",
}

// IsValid reports whether u is one of the known urgency levels.
func (u UrgencyLevel) IsValid() bool {
	_, ok := urgencyLabels[u]
	return ok
}

// Label is the human-readable form used in share text.
func (u UrgencyLevel) Label() string {
	if l, ok := urgencyLabels[u]; ok {
		return l
	}
	return string(u)
}

// CoatPattern is optional; the empty value means unset.
type CoatPattern string

const (
	CoatSolid         CoatPattern = "solid"
	CoatTabby         CoatPattern = "tabby"
	CoatTuxedo        CoatPattern = "tuxedo"
	CoatCalico        CoatPattern = "calico"
	CoatTortoiseshell CoatPattern = "tortoiseshell"
	CoatColorpoint    CoatPattern = "colorpoint"
	CoatBicolor       CoatPattern = "bicolor"
)

var validCoatPatterns = map[CoatPattern]bool{
	"": true, CoatSolid: true, CoatTabby: true, CoatTuxedo: true, CoatCalico: true,
	CoatTortoiseshell: true, CoatColorpoint: true, CoatBicolor: true,
}

// IsValid accepts the known patterns and the empty (unset) value.
func (c CoatPattern) IsValid() bool { return validCoatPatterns[c] }

// Color is optional; the empty value means unset.
type Color string

const (
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
	ColorGray   Color = "gray"
	ColorOrange Color = "orange"
	ColorBrown  Color = "brown"
	ColorCream  Color = "cream"
	ColorMixed  Color = "mixed"
)

var validColors = map[Color]bool{
	"": true, ColorBlack: true, ColorWhite: true, ColorGray: true, ColorOrange: true,
	ColorBrown: true, ColorCream: true, ColorMixed: true,
}

// IsValid accepts the known colors and the empty (unset) value.
func (c Color) IsValid() bool { return validColors[c] }

// Sighting is a single reported cat observation. ID and CreatedAt are assigned
// by the store; CreatedAt never changes afterwards. A zero CreatedAt means the
// store did not report one.
type Sighting struct {
	ID           id.SightingID `json:"id"`
	OwnerID      id.OwnerID    `json:"owner_id"`
	CatName      string        `json:"cat_name"`
	Description  string        `json:"description,omitempty"`
	CoatPattern  CoatPattern   `json:"coat_pattern,omitempty"`
	PrimaryColor Color         `json:"primary_color,omitempty"`
	UrgencyLevel UrgencyLevel  `json:"urgency_level"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	PhotoRef     string        `json:"photo_ref,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Clone returns an independent copy. Sighting holds no reference fields, so
// a value copy is a full snapshot.
func (s *Sighting) Clone() *Sighting {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// HasCreatedAt reports whether the store assigned a creation time.
func (s *Sighting) HasCreatedAt() bool {
	return s != nil && !s.CreatedAt.IsZero()
}

// Validate enforces the fields a store requires on submission.
func (s *Sighting) Validate() error {
	if strings.TrimSpace(s.CatName) == "" {
		return dErrors.New(dErrors.CodeValidation, "cat_name is required")
	}
	if !s.UrgencyLevel.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "urgency_level must be one of just_chilling, needs_food, appears_injured")
	}
	if !s.CoatPattern.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown coat_pattern: "+string(s.CoatPattern))
	}
	if !s.PrimaryColor.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown primary_color: "+string(s.PrimaryColor))
	}
	return ValidateCoordinates(s.Latitude, s.Longitude)
}

// ValidateCoordinates rejects positions outside [-90,90] x [-180,180].
func ValidateCoordinates(lat, lng float64) error {
	if !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid coordinates %.6f,%.6f", lat, lng))
	}
	return nil
}

// ShareText renders a short human-readable summary for sharing.
func (s *Sighting) ShareText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cat sighting: %s (%s)", s.CatName, s.UrgencyLevel.Label())
	if s.Description != "" {
		fmt.Fprintf(&b, "\n%s", s.Description)
	}
	fmt.Fprintf(&b, "\nLocation: %.5f, %.5f", s.Latitude, s.Longitude)
	if s.HasCreatedAt() {
		fmt.Fprintf(&b, "\nSeen: %s", s.CreatedAt.Format("Jan 2, 2006 15:04"))
	}
	return b.String()
}
