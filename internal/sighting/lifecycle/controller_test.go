package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	notificationmodels "catwatch/internal/notification/models"
	"catwatch/internal/sighting/criteria"
	"catwatch/internal/sighting/lifecycle/mocks"
	"catwatch/internal/sighting/metrics"
	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/query"
	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
	"catwatch/pkg/platform/sentinel"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type ControllerSuite struct {
	suite.Suite
	mockSightings     *mocks.MockSightingStore
	mockNotifications *mocks.MockNotificationStore
	clock             *fakeClock
	ownerID           id.OwnerID
	controller        *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest()    { s.setup() }
func (s *ControllerSuite) SetupSubTest() { s.setup() }

func (s *ControllerSuite) TearDownSubTest() { s.controller.Close() }
func (s *ControllerSuite) TearDownTest()    { s.controller.Close() }

func (s *ControllerSuite) setup() {
	ctrl := gomock.NewController(s.T())
	s.mockSightings = mocks.NewMockSightingStore(ctrl)
	s.mockNotifications = mocks.NewMockNotificationStore(ctrl)
	s.clock = &fakeClock{now: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)}
	s.ownerID = id.OwnerID(uuid.New())
	s.controller = New(s.ownerID, s.mockSightings, s.mockNotifications,
		WithClock(s.clock.Now),
		WithDebounce(20*time.Millisecond),
		WithMetrics(metrics.NewWithRegistry(prometheus.NewRegistry())),
	)
}

func (s *ControllerSuite) sighting(name string, age time.Duration) *models.Sighting {
	return &models.Sighting{
		ID:           id.NewSightingID(),
		OwnerID:      s.ownerID,
		CatName:      name,
		UrgencyLevel: models.UrgencyNeedsFood,
		Latitude:     40.71,
		Longitude:    -74.0,
		CreatedAt:    s.clock.Now().Add(-age),
	}
}

// loaded primes the controller with list via one successful Load.
func (s *ControllerSuite) loaded(list ...*models.Sighting) {
	s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).Return(list, nil)
	s.Require().NoError(s.controller.Load(context.Background()))
}

func (s *ControllerSuite) expectReload(list ...*models.Sighting) {
	s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).Return(list, nil)
}

func ids(list []*models.Sighting) []id.SightingID {
	out := make([]id.SightingID, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func (s *ControllerSuite) TestNew() {
	st := s.controller.State()
	s.Equal(StatusIdle, st.Status)
	s.Nil(st.Sightings)
	s.Nil(st.Edit)
	s.Equal(criteria.Default(), st.Criteria)
}

func (s *ControllerSuite) TestLoad() {
	ctx := context.Background()

	s.Run("success moves to loaded with editable flags", func() {
		fresh := s.sighting("Fresh", time.Hour)
		stale := s.sighting("Stale", 30*time.Hour)
		s.mockSightings.EXPECT().
			List(gomock.Any(), s.ownerID, query.Translate(criteria.Default(), s.clock.Now())).
			Return([]*models.Sighting{fresh, stale}, nil)

		s.Require().NoError(s.controller.Start(ctx))

		st := s.controller.State()
		s.Equal(StatusLoaded, st.Status)
		s.Equal([]id.SightingID{fresh.ID, stale.ID}, ids(st.Sightings))
		s.True(st.IsEditable(fresh.ID))
		s.False(st.IsEditable(stale.ID))
		s.NoError(st.LoadErr)
	})

	s.Run("empty result is loaded, not failed", func() {
		s.loaded()
		st := s.controller.State()
		s.Equal(StatusLoaded, st.Status)
		s.NotNil(st.Sightings)
		s.Empty(st.Sightings)
	})

	s.Run("failure discards the list and reports a query failure", func() {
		s.loaded(s.sighting("Shown", time.Hour))
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).Return(nil, sentinel.ErrUnavailable)

		err := s.controller.Load(ctx)
		s.True(IsKind(err, KindQuery))
		s.ErrorIs(err, sentinel.ErrUnavailable)

		st := s.controller.State()
		s.Equal(StatusLoadFailed, st.Status)
		s.Nil(st.Sightings)
		s.True(IsKind(st.LoadErr, KindQuery))
	})

	s.Run("cancelled caller restores the previous list", func() {
		shown := s.sighting("Shown", time.Hour)
		s.loaded(shown)
		entered := make(chan struct{})
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ id.OwnerID, _ query.Params) ([]*models.Sighting, error) {
				close(entered)
				<-ctx.Done()
				return nil, ctx.Err()
			})

		reqCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- s.controller.Load(reqCtx) }()
		<-entered
		s.Equal(StatusLoading, s.controller.State().Status)
		cancel()

		s.ErrorIs(<-done, context.Canceled)
		st := s.controller.State()
		s.Equal(StatusLoaded, st.Status)
		s.NoError(st.LoadErr)
		s.Equal([]id.SightingID{shown.ID}, ids(st.Sightings))
	})

	s.Run("store failure under a live context is still committed", func() {
		s.loaded(s.sighting("Shown", time.Hour))
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).Return(nil, context.DeadlineExceeded)

		s.True(IsKind(s.controller.Load(ctx), KindQuery))
		s.Equal(StatusLoadFailed, s.controller.State().Status)
	})

	s.Run("snapshot is a copy", func() {
		s.loaded(s.sighting("Original", time.Hour))
		st := s.controller.State()
		st.Sightings[0].CatName = "mutated"
		s.Equal("Original", s.controller.State().Sightings[0].CatName)
	})
}

func (s *ControllerSuite) TestRefresh() {
	ctx := context.Background()

	s.Run("keeps the displayed list while in flight", func() {
		first := s.sighting("First", time.Hour)
		second := s.sighting("Second", 2*time.Hour)
		s.loaded(first)

		entered := make(chan struct{})
		release := make(chan struct{})
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
			DoAndReturn(func(context.Context, id.OwnerID, query.Params) ([]*models.Sighting, error) {
				close(entered)
				<-release
				return []*models.Sighting{first, second}, nil
			})

		done := make(chan error, 1)
		go func() { done <- s.controller.Refresh(ctx) }()
		<-entered

		st := s.controller.State()
		s.True(st.Refreshing)
		s.Equal(StatusLoaded, st.Status)
		s.Equal([]id.SightingID{first.ID}, ids(st.Sightings))

		close(release)
		s.Require().NoError(<-done)
		st = s.controller.State()
		s.False(st.Refreshing)
		s.Equal([]id.SightingID{first.ID, second.ID}, ids(st.Sightings))
	})

	s.Run("failure still discards the list", func() {
		s.loaded(s.sighting("First", time.Hour))
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).Return(nil, errors.New("boom"))

		s.True(IsKind(s.controller.Refresh(ctx), KindQuery))
		st := s.controller.State()
		s.Equal(StatusLoadFailed, st.Status)
		s.False(st.Refreshing)
		s.Nil(st.Sightings)
	})

	s.Run("caller giving up keeps the displayed list", func() {
		shown := s.sighting("Shown", time.Hour)
		s.loaded(shown)
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ id.OwnerID, _ query.Params) ([]*models.Sighting, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		reqCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		err := s.controller.Refresh(reqCtx)
		s.ErrorIs(err, context.DeadlineExceeded)
		s.False(IsKind(err, KindQuery))

		st := s.controller.State()
		s.Equal(StatusLoaded, st.Status)
		s.False(st.Refreshing)
		s.NoError(st.LoadErr)
		s.Equal([]id.SightingID{shown.ID}, ids(st.Sightings))
	})
}

// TestSupersededLoad verifies that when two loads race, the final state
// reflects the later one even if the earlier response arrives last.
func (s *ControllerSuite) TestSupersededLoad() {
	ctx := context.Background()
	stale := s.sighting("Stale", time.Hour)
	fresh := s.sighting("Fresh", time.Hour)

	entered := make(chan struct{})
	release := make(chan struct{})
	var cancelled bool
	gomock.InOrder(
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ id.OwnerID, _ query.Params) ([]*models.Sighting, error) {
				close(entered)
				<-release
				cancelled = ctx.Err() != nil
				return []*models.Sighting{stale}, nil
			}),
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
			Return([]*models.Sighting{fresh}, nil),
	)

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.controller.Load(ctx) }()
	<-entered

	s.Require().NoError(s.controller.Load(ctx))
	close(release)
	s.ErrorIs(<-firstDone, ErrSuperseded)
	s.True(cancelled, "superseded load context should be cancelled")

	st := s.controller.State()
	s.Equal(StatusLoaded, st.Status)
	s.Equal([]id.SightingID{fresh.ID}, ids(st.Sightings))
}

func (s *ControllerSuite) TestCriteriaChanges() {
	s.Run("a burst of changes reloads once with the latest criteria", func() {
		match := s.sighting("Tabby", time.Hour)
		s.mockSightings.EXPECT().
			List(gomock.Any(), s.ownerID, gomock.Cond(func(p query.Params) bool {
				return p.Search == "tabby" &&
					p.Urgency != nil && *p.Urgency == models.UrgencyNeedsFood &&
					p.Order == query.OrderOldest
			})).
			Return([]*models.Sighting{match}, nil).
			Times(1)

		s.controller.SetUrgencyFilter(criteria.ForLevel(models.UrgencyNeedsFood))
		s.controller.SetSortBy(criteria.SortOldest)
		s.controller.SetSearchQuery("tab")
		s.controller.SetSearchQuery("tabby")

		s.Eventually(func() bool {
			return s.controller.State().Status == StatusLoaded
		}, time.Second, 5*time.Millisecond)
		st := s.controller.State()
		s.Equal("tabby", st.Criteria.SearchQuery)
		s.Equal([]id.SightingID{match.ID}, ids(st.Sightings))
	})

	s.Run("a change during an in-flight load schedules one reload", func() {
		entered := make(chan struct{})
		release := make(chan struct{})
		latest := s.sighting("Latest", time.Hour)
		gomock.InOrder(
			s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
				DoAndReturn(func(context.Context, id.OwnerID, query.Params) ([]*models.Sighting, error) {
					close(entered)
					<-release
					return nil, nil
				}),
			s.mockSightings.EXPECT().
				List(gomock.Any(), s.ownerID, gomock.Cond(func(p query.Params) bool {
					return p.Range != nil
				})).
				Return([]*models.Sighting{latest}, nil).
				Times(1),
		)

		firstDone := make(chan error, 1)
		go func() { firstDone <- s.controller.Load(context.Background()) }()
		<-entered
		s.controller.SetDateFilter(criteria.DateToday)

		s.Eventually(func() bool {
			st := s.controller.State()
			return st.Status == StatusLoaded && len(st.Sightings) == 1
		}, time.Second, 5*time.Millisecond)
		close(release)
		s.ErrorIs(<-firstDone, ErrSuperseded)
		s.Equal([]id.SightingID{latest.ID}, ids(s.controller.State().Sightings))
	})

	s.Run("changes after close do nothing", func() {
		s.controller.Close()
		s.controller.SetSearchQuery("ignored")
		time.Sleep(50 * time.Millisecond)
	})
}

func (s *ControllerSuite) TestSelection() {
	target := s.sighting("Target", time.Hour)
	s.loaded(target)

	s.Require().NoError(s.controller.Select(target.ID))
	s.Equal(target.ID, s.controller.State().Selected.ID)

	s.controller.ClearSelection()
	s.Nil(s.controller.State().Selected)

	err := s.controller.Select(id.NewSightingID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ControllerSuite) TestBeginEdit() {
	s.Run("eligible sighting populates the form", func() {
		target := s.sighting("Mittens", 2*time.Hour)
		target.CoatPattern = models.CoatTabby
		s.loaded(target)

		s.Require().NoError(s.controller.BeginEdit(target.ID))
		st := s.controller.State()
		s.Require().NotNil(st.Edit)
		s.Equal(target.ID, st.Edit.SightingID)
		s.Equal("Mittens", st.Edit.Form.CatName)
		s.Equal("tabby", st.Edit.Form.CoatPattern)
		s.Equal("", st.Edit.Form.PrimaryColor)
	})

	s.Run("sighting older than the window is rejected", func() {
		old := s.sighting("Old", 30*time.Hour)
		s.loaded(old)

		err := s.controller.BeginEdit(old.ID)
		s.True(IsKind(err, KindIneligibleEdit))
		s.ErrorIs(err, ErrEditWindowClosed)
		s.Nil(s.controller.State().Edit)
	})

	s.Run("sighting without created at is rejected", func() {
		undated := s.sighting("Undated", 0)
		undated.CreatedAt = time.Time{}
		s.loaded(undated)

		s.True(IsKind(s.controller.BeginEdit(undated.ID), KindIneligibleEdit))
	})

	s.Run("unknown sighting returns not found", func() {
		s.loaded()
		err := s.controller.BeginEdit(id.NewSightingID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ControllerSuite) TestUpdateAndCancelForm() {
	s.Run("update without edit is a bad request", func() {
		err := s.controller.UpdateForm(func(f *EditForm) { f.CatName = "x" })
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("update changes the draft and cancel discards it", func() {
		target := s.sighting("Mittens", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.Require().NoError(s.controller.UpdateForm(func(f *EditForm) { f.Description = "limping" }))
		s.Equal("limping", s.controller.State().Edit.Form.Description)

		s.controller.CancelEdit()
		s.Nil(s.controller.State().Edit)
	})
}

func (s *ControllerSuite) TestSubmitEdit() {
	ctx := context.Background()

	s.Run("success leaves edit mode and reloads", func() {
		target := s.sighting("Mittens", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.Select(target.ID))
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.Require().NoError(s.controller.UpdateForm(func(f *EditForm) {
			f.CatName = "Sir Mittens"
			f.UrgencyLevel = string(models.UrgencyAppearsInjured)
		}))

		updated := models.Patch{
			CatName:      "Sir Mittens",
			UrgencyLevel: models.UrgencyAppearsInjured,
			Latitude:     target.Latitude,
			Longitude:    target.Longitude,
		}.ApplyTo(target)
		s.mockSightings.EXPECT().
			Update(gomock.Any(), target.ID, gomock.Cond(func(p models.Patch) bool {
				return p.CatName == "Sir Mittens" && p.UrgencyLevel == models.UrgencyAppearsInjured
			})).
			Return(updated, nil)
		s.expectReload(updated)

		s.Require().NoError(s.controller.SubmitEdit(ctx))
		st := s.controller.State()
		s.Nil(st.Edit)
		s.Equal("Sir Mittens", st.Selected.CatName)
		s.Equal("Sir Mittens", st.Sightings[0].CatName)
	})

	s.Run("failure keeps edit mode and the draft", func() {
		target := s.sighting("Mittens", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.Require().NoError(s.controller.UpdateForm(func(f *EditForm) { f.Description = "my careful notes" }))
		s.mockSightings.EXPECT().Update(gomock.Any(), target.ID, gomock.Any()).Return(nil, sentinel.ErrUnavailable)

		err := s.controller.SubmitEdit(ctx)
		s.True(IsKind(err, KindUpdate))

		st := s.controller.State()
		s.Require().NotNil(st.Edit)
		s.Equal("my careful notes", st.Edit.Form.Description)
		s.False(st.Edit.Submitting)
		s.True(IsKind(st.Edit.Err, KindUpdate))
	})

	s.Run("window closing while the form is open rejects the submit", func() {
		target := s.sighting("Mittens", 23*time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.Require().NoError(s.controller.UpdateForm(func(f *EditForm) { f.CatName = "kept" }))
		s.clock.Advance(2 * time.Hour)

		err := s.controller.SubmitEdit(ctx)
		s.True(IsKind(err, KindIneligibleEdit))
		st := s.controller.State()
		s.Require().NotNil(st.Edit)
		s.Equal("kept", st.Edit.Form.CatName)
	})

	s.Run("store validation failure keeps the draft", func() {
		target := s.sighting("Mittens", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.Require().NoError(s.controller.UpdateForm(func(f *EditForm) { f.CatName = "  " }))
		s.mockSightings.EXPECT().Update(gomock.Any(), target.ID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "cat_name is required"))

		err := s.controller.SubmitEdit(ctx)
		s.True(IsKind(err, KindUpdate))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Require().NotNil(s.controller.State().Edit)
	})

	s.Run("close during a committed update still reports success", func() {
		target := s.sighting("Mittens", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.Require().NoError(s.controller.UpdateForm(func(f *EditForm) { f.CatName = "Sir Mittens" }))
		s.mockSightings.EXPECT().Update(gomock.Any(), target.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.SightingID, p models.Patch) (*models.Sighting, error) {
				s.controller.Close()
				return p.ApplyTo(target), nil
			})

		s.NoError(s.controller.SubmitEdit(ctx))
		s.ErrorIs(s.controller.Load(ctx), ErrClosed)
	})

	s.Run("close during a failed update reports the store failure", func() {
		target := s.sighting("Mittens", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.mockSightings.EXPECT().Update(gomock.Any(), target.ID, gomock.Any()).
			DoAndReturn(func(context.Context, id.SightingID, models.Patch) (*models.Sighting, error) {
				s.controller.Close()
				return nil, sentinel.ErrUnavailable
			})

		err := s.controller.SubmitEdit(ctx)
		s.True(IsKind(err, KindUpdate))
		s.ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("without edit is a bad request", func() {
		s.True(dErrors.HasCode(s.controller.SubmitEdit(ctx), dErrors.CodeBadRequest))
	})
}

func (s *ControllerSuite) TestDelete() {
	ctx := context.Background()

	s.Run("success records a notification and reloads without the record", func() {
		target := s.sighting("Gone", time.Hour)
		other := s.sighting("Stays", time.Hour)
		s.loaded(target, other)
		s.Require().NoError(s.controller.Select(target.ID))

		notification := notificationmodels.NewDeletionNotification(s.ownerID, target, s.clock.Now())
		s.mockSightings.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
		s.mockNotifications.EXPECT().
			CreateDeletionNotification(gomock.Any(), s.ownerID, target).
			Return(notification, nil)
		s.mockNotifications.EXPECT().Refresh(gomock.Any(), s.ownerID)
		s.expectReload(other)

		result, err := s.controller.Delete(ctx, target.ID)
		s.Require().NoError(err)
		s.Equal(target, result.Snapshot)
		s.Equal(notification, result.Notification)
		s.NoError(result.NotificationErr)

		st := s.controller.State()
		s.Nil(st.Selected)
		s.Equal([]id.SightingID{other.ID}, ids(st.Sightings))
		s.NoError(st.NotificationErr)
	})

	s.Run("store failure aborts without a notification", func() {
		target := s.sighting("Stays", time.Hour)
		s.loaded(target)
		s.mockSightings.EXPECT().Delete(gomock.Any(), target.ID).Return(sentinel.ErrUnavailable)

		result, err := s.controller.Delete(ctx, target.ID)
		s.Nil(result)
		s.True(IsKind(err, KindDelete))

		st := s.controller.State()
		s.Equal([]id.SightingID{target.ID}, ids(st.Sightings))
		s.False(st.IsDeleting(target.ID))
	})

	s.Run("notification failure still reports the delete as successful", func() {
		target := s.sighting("Gone", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))
		s.mockSightings.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
		s.mockNotifications.EXPECT().
			CreateDeletionNotification(gomock.Any(), s.ownerID, gomock.Any()).
			Return(nil, errors.New("feed down"))
		s.expectReload()

		result, err := s.controller.Delete(ctx, target.ID)
		s.Require().NoError(err)
		s.True(IsKind(result.NotificationErr, KindNotification))
		s.Nil(result.Notification)

		st := s.controller.State()
		s.Empty(st.Sightings)
		s.Nil(st.Edit)
		s.True(IsKind(st.NotificationErr, KindNotification))
	})

	s.Run("submit on a record being deleted conflicts", func() {
		target := s.sighting("Busy", time.Hour)
		s.loaded(target)
		s.Require().NoError(s.controller.BeginEdit(target.ID))

		entered := make(chan struct{})
		release := make(chan struct{})
		s.mockSightings.EXPECT().Delete(gomock.Any(), target.ID).
			DoAndReturn(func(context.Context, id.SightingID) error {
				close(entered)
				<-release
				return errors.New("rejected")
			})

		done := make(chan error, 1)
		go func() {
			_, err := s.controller.Delete(ctx, target.ID)
			done <- err
		}()
		<-entered

		s.True(s.controller.State().IsDeleting(target.ID))
		s.True(dErrors.HasCode(s.controller.SubmitEdit(ctx), dErrors.CodeConflict))
		_, err := s.controller.Delete(ctx, target.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		close(release)
		s.True(IsKind(<-done, KindDelete))
		s.False(s.controller.State().IsDeleting(target.ID))
	})

	s.Run("unknown sighting returns not found", func() {
		s.loaded()
		_, err := s.controller.Delete(ctx, id.NewSightingID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ControllerSuite) TestClose() {
	ctx := context.Background()

	s.Run("in-flight load result is discarded", func() {
		entered := make(chan struct{})
		s.mockSightings.EXPECT().List(gomock.Any(), s.ownerID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ id.OwnerID, _ query.Params) ([]*models.Sighting, error) {
				close(entered)
				<-ctx.Done()
				return []*models.Sighting{s.sighting("Late", time.Hour)}, nil
			})

		done := make(chan error, 1)
		go func() { done <- s.controller.Load(ctx) }()
		<-entered
		s.controller.Close()

		s.ErrorIs(<-done, ErrClosed)
		st := s.controller.State()
		s.Equal(StatusLoading, st.Status)
		s.Nil(st.Sightings)
	})

	s.Run("commands after close fail", func() {
		s.controller.Close()
		s.ErrorIs(s.controller.Load(ctx), ErrClosed)
		s.ErrorIs(s.controller.Select(id.NewSightingID()), ErrClosed)
		s.ErrorIs(s.controller.BeginEdit(id.NewSightingID()), ErrClosed)
		_, err := s.controller.Delete(ctx, id.NewSightingID())
		s.ErrorIs(err, ErrClosed)
	})
}
