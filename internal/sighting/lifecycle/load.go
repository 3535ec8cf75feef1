package lifecycle

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"catwatch/internal/sighting/metrics"
	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/query"
	id "catwatch/pkg/domain"
	"catwatch/pkg/requestcontext"
)

// Load clears the list, queries the store with the current criteria and
// moves to Loaded or LoadFailed. A Load started while another is in flight
// cancels it; the older result is discarded and its caller gets
// ErrSuperseded.
func (c *Controller) Load(ctx context.Context) error {
	return c.load(ctx, false)
}

// Refresh reloads like Load but keeps the displayed list while the query is
// in flight. A failed refresh still discards the list.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Controller) load(ctx context.Context, keepList bool) error {
	ctx, span := c.tracer.Start(ctx, "sighting.lifecycle.load",
		trace.WithAttributes(
			attribute.String("owner_id", c.ownerID.String()),
			attribute.Bool("refresh", keepList),
		))
	defer span.End()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.generation++
	gen := c.generation
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	c.cancelLoad = cancel
	prev := loadState{status: c.status, refreshing: c.refreshing, list: c.list, err: c.loadErr}
	if keepList && c.status == StatusLoaded {
		c.refreshing = true
	} else {
		c.status = StatusLoading
		c.refreshing = false
		c.list = nil
	}
	c.loadErr = nil
	params := query.Translate(c.criteria.Current(), c.clock())
	c.mu.Unlock()
	defer func() {
		stop()
		cancel()
	}()

	start := time.Now()
	list, err := c.sightings.List(loadCtx, c.ownerID, params)
	c.observeLoadDuration(start)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if gen != c.generation {
		c.incrementLoad(metrics.OutcomeSuperseded)
		span.SetAttributes(attribute.Bool("superseded", true))
		return ErrSuperseded
	}
	c.cancelLoad = nil
	c.refreshing = false

	// An abandoned caller says nothing about the store; the session keeps
	// what it showed before.
	if err != nil && ctx.Err() != nil {
		c.status, c.refreshing, c.list, c.loadErr = prev.status, prev.refreshing, prev.list, prev.err
		c.incrementLoad(metrics.OutcomeAbandoned)
		span.SetAttributes(attribute.Bool("abandoned", true))
		return ctx.Err()
	}

	if err != nil {
		failure := newFailure(KindQuery, id.SightingID{}, err)
		c.status = StatusLoadFailed
		c.list = nil
		c.loadErr = failure
		c.incrementLoad(metrics.OutcomeFailed)
		spanError(span, err, "list failed")
		c.logger.WarnContext(ctx, "sighting list load failed",
			"owner_id", c.ownerID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return failure
	}

	c.status = StatusLoaded
	c.list = cloneAll(list)
	if c.list == nil {
		c.list = []*models.Sighting{}
	}
	c.reconcileSelectionLocked()
	c.incrementLoad(metrics.OutcomeOK)
	span.SetAttributes(attribute.Int("sightings", len(c.list)))
	return nil
}

type loadState struct {
	status     Status
	refreshing bool
	list       []*models.Sighting
	err        error
}

// reconcileSelectionLocked replaces the selected record with its reloaded
// version when it is still present. A selection filtered out of the new list
// keeps its last known value.
func (c *Controller) reconcileSelectionLocked() {
	if c.selected == nil {
		return
	}
	for _, s := range c.list {
		if s.ID == c.selected.ID {
			c.selected = s.Clone()
			return
		}
	}
}

func (c *Controller) incrementLoad(outcome string) {
	if c.metrics != nil {
		c.metrics.IncrementLoad(outcome)
	}
}

func (c *Controller) observeLoadDuration(start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveLoadDuration(start)
	}
}
