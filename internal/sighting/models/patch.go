package models

// Patch carries the editable subset of a Sighting. ID, OwnerID and CreatedAt
// are deliberately absent.
type Patch struct {
	CatName      string       `json:"cat_name"`
	Description  string       `json:"description"`
	CoatPattern  CoatPattern  `json:"coat_pattern"`
	PrimaryColor Color        `json:"primary_color"`
	UrgencyLevel UrgencyLevel `json:"urgency_level"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	PhotoRef     string       `json:"photo_ref"`
}

// Validate checks the patch as a complete set of editable fields.
func (p Patch) Validate() error {
	return p.ApplyTo(&Sighting{}).Validate()
}

// ApplyTo returns a copy of s with the patch fields replaced.
func (p Patch) ApplyTo(s *Sighting) *Sighting {
	out := s.Clone()
	out.CatName = p.CatName
	out.Description = p.Description
	out.CoatPattern = p.CoatPattern
	out.PrimaryColor = p.PrimaryColor
	out.UrgencyLevel = p.UrgencyLevel
	out.Latitude = p.Latitude
	out.Longitude = p.Longitude
	out.PhotoRef = p.PhotoRef
	return out
}
