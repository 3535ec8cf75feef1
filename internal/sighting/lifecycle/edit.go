package lifecycle

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"catwatch/internal/sighting/metrics"
	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/policy"
	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
	"catwatch/pkg/requestcontext"
)

// Select opens the detail view of a loaded sighting.
func (c *Controller) Select(sightingID id.SightingID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	s := c.findLocked(sightingID)
	if s == nil {
		return dErrors.New(dErrors.CodeNotFound, "sighting not found")
	}
	c.selected = s.Clone()
	return nil
}

// ClearSelection closes the detail view. An edit in progress is kept.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// BeginEdit enters edit mode for a sighting inside its edit window. Outside
// the window it returns a KindIneligibleEdit failure and changes nothing.
func (c *Controller) BeginEdit(sightingID id.SightingID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	s := c.findLocked(sightingID)
	if s == nil {
		return dErrors.New(dErrors.CodeNotFound, "sighting not found")
	}
	if c.busy[sightingID] != opNone {
		return dErrors.New(dErrors.CodeConflict, "sighting has an operation in progress")
	}
	if c.edit != nil && c.edit.submitting {
		return dErrors.New(dErrors.CodeConflict, "an edit is being submitted")
	}
	if !isEditable(s, c.clock()) {
		c.incrementEdit(metrics.EditIneligible)
		return newFailure(KindIneligibleEdit, sightingID, ErrEditWindowClosed)
	}
	c.edit = &editSession{original: s.Clone(), form: FormFrom(s)}
	return nil
}

// UpdateForm applies fn to the draft. fn must not retain the pointer.
func (c *Controller) UpdateForm(fn func(*EditForm)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.edit == nil {
		return dErrors.New(dErrors.CodeBadRequest, "no edit in progress")
	}
	if c.edit.submitting {
		return dErrors.New(dErrors.CodeConflict, "edit is being submitted")
	}
	form := c.edit.form
	fn(&form)
	c.edit.form = form
	return nil
}

// CancelEdit leaves edit mode and discards the draft. A submit already in
// flight still completes at the store but no longer touches the view.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = nil
}

// SubmitEdit sends the draft to the store, which owns field validation. On
// success the controller leaves edit mode and reloads; the reload outcome is
// reported through State, not the return value. If the controller is closed
// while the store call runs, the store result is returned and the view is
// left alone. On failure edit mode and the draft are kept and the
// failure is returned and recorded on the edit.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "sighting.lifecycle.submit_edit")
	defer span.End()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	session := c.edit
	if session == nil {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeBadRequest, "no edit in progress")
	}
	sightingID := session.original.ID
	span.SetAttributes(attribute.String("sighting_id", sightingID.String()))
	if session.submitting || c.busy[sightingID] != opNone {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeConflict, "sighting has an operation in progress")
	}
	// The window may have closed while the form was open.
	if !isEditable(session.original, c.clock()) {
		failure := newFailure(KindIneligibleEdit, sightingID, ErrEditWindowClosed)
		session.err = failure
		c.mu.Unlock()
		c.incrementEdit(metrics.EditIneligible)
		return failure
	}
	patch := session.form.Patch()
	session.submitting = true
	session.err = nil
	c.busy[sightingID] = opSubmit
	c.mu.Unlock()

	updated, err := c.sightings.Update(ctx, sightingID, patch)

	c.mu.Lock()
	delete(c.busy, sightingID)
	session.submitting = false
	// A closed controller has no view left to update, but the store outcome
	// is still the caller's answer.
	if c.closed {
		c.mu.Unlock()
		if err != nil {
			c.incrementEdit(metrics.EditFailed)
			return newFailure(KindUpdate, sightingID, err)
		}
		c.incrementEdit(metrics.EditSubmitted)
		return nil
	}
	if err != nil {
		failure := newFailure(KindUpdate, sightingID, err)
		if c.edit == session {
			session.err = failure
		}
		c.mu.Unlock()
		c.incrementEdit(metrics.EditFailed)
		spanError(span, err, "update failed")
		c.logger.WarnContext(ctx, "sighting update failed",
			"owner_id", c.ownerID.String(),
			"sighting_id", sightingID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return failure
	}
	if c.edit == session {
		c.edit = nil
	}
	if updated != nil && c.selected != nil && c.selected.ID == sightingID {
		c.selected = updated.Clone()
	}
	c.mu.Unlock()
	c.incrementEdit(metrics.EditSubmitted)
	c.logger.InfoContext(ctx, "sighting updated",
		"owner_id", c.ownerID.String(),
		"sighting_id", sightingID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	_ = c.Load(ctx)
	return nil
}

func isEditable(s *models.Sighting, now time.Time) bool {
	return policy.IsEditable(s, now)
}

func (c *Controller) incrementEdit(outcome string) {
	if c.metrics != nil {
		c.metrics.IncrementEdit(outcome)
	}
}

func spanError(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}
