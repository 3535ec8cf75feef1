package lifecycle

//go:generate mockgen -source=controller.go -destination=mocks/mocks.go -package=mocks SightingStore,NotificationStore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	notificationmodels "catwatch/internal/notification/models"
	"catwatch/internal/sighting/criteria"
	"catwatch/internal/sighting/metrics"
	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/query"
	id "catwatch/pkg/domain"
)

// DefaultDebounce is how long the controller waits after the last criteria
// change before reloading.
const DefaultDebounce = 300 * time.Millisecond

// SightingStore is the subset of the sighting store the controller drives.
type SightingStore interface {
	List(ctx context.Context, ownerID id.OwnerID, params query.Params) ([]*models.Sighting, error)
	Update(ctx context.Context, sightingID id.SightingID, patch models.Patch) (*models.Sighting, error)
	Delete(ctx context.Context, sightingID id.SightingID) error
}

// NotificationStore records deletions for undo. Refresh asks any live feed
// to re-read; it never fails from the caller's point of view.
type NotificationStore interface {
	CreateDeletionNotification(ctx context.Context, ownerID id.OwnerID, snapshot *models.Sighting) (*notificationmodels.DeletionNotification, error)
	Refresh(ctx context.Context, ownerID id.OwnerID)
}

type operation int

const (
	opNone operation = iota
	opSubmit
	opDelete
)

type editSession struct {
	original   *models.Sighting
	form       EditForm
	submitting bool
	err        error
}

// Controller owns the list/detail/edit state of one owner's sightings view
// and drives the stores in response to presenter commands.
type Controller struct {
	ownerID       id.OwnerID
	sightings     SightingStore
	notifications NotificationStore
	criteria      *criteria.Model
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	clock         func() time.Time
	debounce      time.Duration

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup

	mu              sync.Mutex
	closed          bool
	status          Status
	refreshing      bool
	list            []*models.Sighting
	loadErr         error
	generation      uint64
	cancelLoad      context.CancelFunc
	selected        *models.Sighting
	edit            *editSession
	busy            map[id.SightingID]operation
	notificationErr error
	changeSeq       uint64
	timer           *time.Timer
}

type Option func(c *Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithDebounce sets the criteria coalescing window. Zero reloads on the next
// timer tick after every change.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithCriteria shares an existing criteria model with the controller.
func WithCriteria(m *criteria.Model) Option {
	return func(c *Controller) {
		c.criteria = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		c.tracer = t
	}
}

// New constructs a Controller in the Idle state. It subscribes to criteria
// changes immediately but performs no I/O until Start or Load.
func New(ownerID id.OwnerID, sightings SightingStore, notifications NotificationStore, opts ...Option) *Controller {
	c := &Controller{
		ownerID:       ownerID,
		sightings:     sightings,
		notifications: notifications,
		clock:         time.Now,
		debounce:      DefaultDebounce,
		status:        StatusIdle,
		busy:          make(map[id.SightingID]operation),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.criteria == nil {
		c.criteria = criteria.NewModel()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("catwatch/internal/sighting/lifecycle")
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.unsubscribe = c.criteria.Subscribe(c.criteriaChanged)
	return c
}

// OwnerID returns the owner whose sightings this controller manages.
func (c *Controller) OwnerID() id.OwnerID { return c.ownerID }

// Criteria exposes the criteria model. Mutations schedule a debounced reload.
func (c *Controller) Criteria() *criteria.Model { return c.criteria }

func (c *Controller) SetDateFilter(f criteria.DateFilter)       { c.criteria.SetDateFilter(f) }
func (c *Controller) SetUrgencyFilter(f criteria.UrgencyFilter) { c.criteria.SetUrgencyFilter(f) }
func (c *Controller) SetSortBy(s criteria.SortBy)               { c.criteria.SetSortBy(s) }
func (c *Controller) SetSearchQuery(q string)                   { c.criteria.SetSearchQuery(q) }

// Start performs the initial load.
func (c *Controller) Start(ctx context.Context) error {
	return c.Load(ctx)
}

// Close cancels in-flight work and stops reacting to criteria changes. Store
// results that arrive afterwards are discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.mu.Unlock()

	c.unsubscribe()
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) criteriaChanged(criteria.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.changeSeq++
	seq := c.changeSeq
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.reloadAfterChange(seq) })
}

// reloadAfterChange runs when a debounce timer fires. Only the timer armed by
// the most recent change loads; an older one that fired late is a no-op.
func (c *Controller) reloadAfterChange(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.changeSeq {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	if err := c.Load(c.ctx); err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, ErrClosed) {
		c.logger.Debug("reload after criteria change failed",
			"owner_id", c.ownerID.String(),
			"error", err,
		)
	}
}

// State returns a snapshot for the presenter. Edit eligibility is evaluated
// against the clock at the time of the call.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	st := State{
		Criteria:        c.criteria.Current(),
		Status:          c.status,
		Refreshing:      c.refreshing,
		Sightings:       cloneAll(c.list),
		LoadErr:         c.loadErr,
		Deleting:        make(map[id.SightingID]bool),
		Editable:        make(map[id.SightingID]bool, len(c.list)),
		NotificationErr: c.notificationErr,
	}
	for _, s := range c.list {
		st.Editable[s.ID] = isEditable(s, now)
	}
	if c.selected != nil {
		st.Selected = c.selected.Clone()
		st.Editable[c.selected.ID] = isEditable(c.selected, now)
	}
	if c.edit != nil {
		st.Edit = &Edit{
			SightingID: c.edit.original.ID,
			Form:       c.edit.form,
			Submitting: c.edit.submitting,
			Err:        c.edit.err,
		}
	}
	for sightingID, op := range c.busy {
		if op == opDelete {
			st.Deleting[sightingID] = true
		}
	}
	return st
}

// findLocked looks the sighting up in the loaded list, falling back to the
// selected record. Callers hold c.mu.
func (c *Controller) findLocked(sightingID id.SightingID) *models.Sighting {
	for _, s := range c.list {
		if s.ID == sightingID {
			return s
		}
	}
	if c.selected != nil && c.selected.ID == sightingID {
		return c.selected
	}
	return nil
}

func cloneAll(list []*models.Sighting) []*models.Sighting {
	if list == nil {
		return nil
	}
	out := make([]*models.Sighting, 0, len(list))
	for _, s := range list {
		out = append(out, s.Clone())
	}
	return out
}
