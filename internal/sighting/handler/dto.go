package handler

import (
	"time"

	"catwatch/internal/sighting/criteria"
	"catwatch/internal/sighting/lifecycle"
	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/policy"
	id "catwatch/pkg/domain"
)

type createRequest struct {
	CatName      string  `json:"cat_name"`
	Description  string  `json:"description"`
	CoatPattern  string  `json:"coat_pattern"`
	PrimaryColor string  `json:"primary_color"`
	UrgencyLevel string  `json:"urgency_level"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PhotoRef     string  `json:"photo_ref"`
}

func (r createRequest) toModel(ownerID id.OwnerID) *models.Sighting {
	return &models.Sighting{
		OwnerID:      ownerID,
		CatName:      r.CatName,
		Description:  r.Description,
		CoatPattern:  models.CoatPattern(r.CoatPattern),
		PrimaryColor: models.Color(r.PrimaryColor),
		UrgencyLevel: models.UrgencyLevel(r.UrgencyLevel),
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		PhotoRef:     r.PhotoRef,
	}
}

// criteriaRequest changes only the axes that are present.
type criteriaRequest struct {
	DateFilter    *criteria.DateFilter    `json:"date_filter"`
	UrgencyFilter *criteria.UrgencyFilter `json:"urgency_filter"`
	SortBy        *criteria.SortBy        `json:"sort_by"`
	SearchQuery   *string                 `json:"search_query"`
}

// formRequest changes only the draft fields that are present.
type formRequest struct {
	CatName      *string  `json:"cat_name"`
	Description  *string  `json:"description"`
	CoatPattern  *string  `json:"coat_pattern"`
	PrimaryColor *string  `json:"primary_color"`
	UrgencyLevel *string  `json:"urgency_level"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PhotoRef     *string  `json:"photo_ref"`
}

func (r formRequest) apply(f *lifecycle.EditForm) {
	setIf(&f.CatName, r.CatName)
	setIf(&f.Description, r.Description)
	setIf(&f.CoatPattern, r.CoatPattern)
	setIf(&f.PrimaryColor, r.PrimaryColor)
	setIf(&f.UrgencyLevel, r.UrgencyLevel)
	setIf(&f.Latitude, r.Latitude)
	setIf(&f.Longitude, r.Longitude)
	setIf(&f.PhotoRef, r.PhotoRef)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type sightingView struct {
	models.Sighting
	Editable      bool       `json:"editable"`
	Deleting      bool       `json:"deleting"`
	EditableUntil *time.Time `json:"editable_until,omitempty"`
}

type errorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type editView struct {
	SightingID id.SightingID      `json:"sighting_id"`
	Form       lifecycle.EditForm `json:"form"`
	Submitting bool               `json:"submitting"`
	Error      *errorView         `json:"error,omitempty"`
}

type stateResponse struct {
	Criteria          criteria.Criteria `json:"criteria"`
	Status            lifecycle.Status  `json:"status"`
	Refreshing        bool              `json:"refreshing"`
	LoadError         *errorView        `json:"load_error,omitempty"`
	Sightings         []sightingView    `json:"sightings"`
	Selected          *sightingView     `json:"selected,omitempty"`
	Edit              *editView         `json:"edit,omitempty"`
	NotificationError *errorView        `json:"notification_error,omitempty"`
}

type deleteResponse struct {
	Deleted           models.Sighting `json:"deleted"`
	NotificationID    string          `json:"notification_id,omitempty"`
	NotificationError *errorView      `json:"notification_error,omitempty"`
}

func toSightingView(st lifecycle.State, s *models.Sighting) sightingView {
	v := sightingView{
		Sighting: *s,
		Editable: st.IsEditable(s.ID),
		Deleting: st.IsDeleting(s.ID),
	}
	if s.HasCreatedAt() {
		until := policy.EditableUntil(s)
		v.EditableUntil = &until
	}
	return v
}

func toStateResponse(st lifecycle.State) stateResponse {
	resp := stateResponse{
		Criteria:          st.Criteria,
		Status:            st.Status,
		Refreshing:        st.Refreshing,
		LoadError:         toErrorView(st.LoadErr),
		Sightings:         make([]sightingView, 0, len(st.Sightings)),
		NotificationError: toErrorView(st.NotificationErr),
	}
	for _, s := range st.Sightings {
		resp.Sightings = append(resp.Sightings, toSightingView(st, s))
	}
	if st.Selected != nil {
		v := toSightingView(st, st.Selected)
		resp.Selected = &v
	}
	if st.Edit != nil {
		resp.Edit = &editView{
			SightingID: st.Edit.SightingID,
			Form:       st.Edit.Form,
			Submitting: st.Edit.Submitting,
			Error:      toErrorView(st.Edit.Err),
		}
	}
	return resp
}

var failureMessages = map[lifecycle.Kind]string{
	lifecycle.KindQuery:          "could not load sightings",
	lifecycle.KindUpdate:         "could not save the edit",
	lifecycle.KindDelete:         "could not delete the sighting",
	lifecycle.KindNotification:   "sighting deleted, but undo is unavailable",
	lifecycle.KindIneligibleEdit: "edit window has closed",
}

func toErrorView(err error) *errorView {
	if err == nil {
		return nil
	}
	for kind, msg := range failureMessages {
		if lifecycle.IsKind(err, kind) {
			return &errorView{Kind: string(kind), Message: msg}
		}
	}
	return &errorView{Kind: "unknown", Message: "unexpected error"}
}
