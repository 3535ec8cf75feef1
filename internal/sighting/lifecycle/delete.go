package lifecycle

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	notificationmodels "catwatch/internal/notification/models"
	"catwatch/internal/sighting/metrics"
	"catwatch/internal/sighting/models"
	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
	"catwatch/pkg/requestcontext"
)

// DeleteResult describes a completed delete. NotificationErr is set when the
// record was deleted but the undo notification could not be recorded.
type DeleteResult struct {
	Snapshot        *models.Sighting
	Notification    *notificationmodels.DeletionNotification
	NotificationErr error
}

// Delete removes a loaded sighting.
//
// The store delete is authoritative: if it fails nothing else happens and a
// KindDelete failure is returned. Once it succeeds the delete is reported as
// successful even if recording the undo notification fails; that failure is
// logged, kept in State().NotificationErr and returned in the result. The
// detail and edit views of the record are closed and the list reloads.
func (c *Controller) Delete(ctx context.Context, sightingID id.SightingID) (*DeleteResult, error) {
	ctx, span := c.tracer.Start(ctx, "sighting.lifecycle.delete")
	defer span.End()
	span.SetAttributes(attribute.String("sighting_id", sightingID.String()))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	s := c.findLocked(sightingID)
	if s == nil {
		c.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeNotFound, "sighting not found")
	}
	if c.busy[sightingID] != opNone {
		c.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeConflict, "sighting has an operation in progress")
	}
	snapshot := s.Clone()
	c.busy[sightingID] = opDelete
	c.mu.Unlock()

	if err := c.sightings.Delete(ctx, sightingID); err != nil {
		c.mu.Lock()
		delete(c.busy, sightingID)
		c.mu.Unlock()
		c.incrementDelete(metrics.DeleteStoreFailed)
		spanError(span, err, "delete failed")
		c.logger.WarnContext(ctx, "sighting delete failed",
			"owner_id", c.ownerID.String(),
			"sighting_id", sightingID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, newFailure(KindDelete, sightingID, err)
	}

	// The row is gone; the undo record must not be lost to a caller
	// cancelling after the fact.
	notifyCtx := context.WithoutCancel(ctx)
	result := &DeleteResult{Snapshot: snapshot}
	notification, err := c.notifications.CreateDeletionNotification(notifyCtx, c.ownerID, snapshot)
	if err != nil {
		result.NotificationErr = newFailure(KindNotification, sightingID, err)
		c.incrementDelete(metrics.DeleteNotificationFailed)
		c.logger.ErrorContext(ctx, "deletion notification failed",
			"owner_id", c.ownerID.String(),
			"sighting_id", sightingID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		result.Notification = notification
		c.notifications.Refresh(notifyCtx, c.ownerID)
		c.incrementDelete(metrics.DeleteOK)
	}
	c.logger.InfoContext(ctx, "sighting deleted",
		"owner_id", c.ownerID.String(),
		"sighting_id", sightingID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	c.mu.Lock()
	delete(c.busy, sightingID)
	closed := c.closed
	if !closed {
		c.notificationErr = result.NotificationErr
		c.removeLocked(sightingID)
	}
	c.mu.Unlock()

	if !closed {
		_ = c.Load(ctx)
	}
	return result, nil
}

// removeLocked drops a deleted record from the list and closes any view of it.
func (c *Controller) removeLocked(sightingID id.SightingID) {
	for i, s := range c.list {
		if s.ID == sightingID {
			c.list = append(c.list[:i:i], c.list[i+1:]...)
			break
		}
	}
	if c.selected != nil && c.selected.ID == sightingID {
		c.selected = nil
	}
	if c.edit != nil && c.edit.original.ID == sightingID {
		c.edit = nil
	}
}

func (c *Controller) incrementDelete(outcome string) {
	if c.metrics != nil {
		c.metrics.IncrementDelete(outcome)
	}
}
