package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	notificationmodels "catwatch/internal/notification/models"
	"catwatch/internal/sighting/lifecycle"
	"catwatch/internal/sighting/metrics"
	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/store"
	id "catwatch/pkg/domain"
	"catwatch/pkg/testutil"
)

type fakeNotifications struct {
	mu  sync.Mutex
	err error
}

func (f *fakeNotifications) CreateDeletionNotification(_ context.Context, ownerID id.OwnerID, snapshot *models.Sighting) (*notificationmodels.DeletionNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return notificationmodels.NewDeletionNotification(ownerID, snapshot, time.Now()), nil
}

func (f *fakeNotifications) Refresh(context.Context, id.OwnerID) {}

type SightingHandlerSuite struct {
	suite.Suite
	now           time.Time
	ownerID       id.OwnerID
	store         *store.Memory
	notifications *fakeNotifications
	metrics       *metrics.Metrics
	registry      *Registry
	router        chi.Router
}

func TestSightingHandlerSuite(t *testing.T) {
	suite.Run(t, new(SightingHandlerSuite))
}

func (s *SightingHandlerSuite) SetupTest()    { s.setup() }
func (s *SightingHandlerSuite) SetupSubTest() { s.setup() }

func (s *SightingHandlerSuite) TearDownTest()    { s.registry.Close() }
func (s *SightingHandlerSuite) TearDownSubTest() { s.registry.Close() }

func (s *SightingHandlerSuite) setup() {
	s.now = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	s.ownerID = id.OwnerID(uuid.New())
	clock := func() time.Time { return s.now }
	s.store = store.NewMemory(store.WithClock(clock))
	s.notifications = &fakeNotifications{}
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())

	factory := func(ownerID id.OwnerID) *lifecycle.Controller {
		return lifecycle.New(ownerID, s.store, s.notifications,
			lifecycle.WithClock(clock),
			lifecycle.WithDebounce(time.Millisecond),
			lifecycle.WithMetrics(s.metrics),
		)
	}
	s.registry = NewRegistry(factory, time.Hour, WithRegistryMetrics(s.metrics))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.store, s.registry, logger).Register(s.router)
}

func (s *SightingHandlerSuite) seed(name string, urgency models.UrgencyLevel, age time.Duration) *models.Sighting {
	sighting := &models.Sighting{
		ID:           id.NewSightingID(),
		OwnerID:      s.ownerID,
		CatName:      name,
		UrgencyLevel: urgency,
		Latitude:     40.71,
		Longitude:    -74.0,
		CreatedAt:    s.now.Add(-age),
	}
	s.Require().NoError(s.store.RestoreFromSnapshot(context.Background(), sighting))
	return sighting
}

func (s *SightingHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithOwner(req, s.ownerID.String()))
}

func (s *SightingHandlerSuite) state() *stateResponse {
	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/sightings/session"))
	testutil.AssertStatusOK(s.T(), rr)
	return testutil.UnmarshalResponse[stateResponse](s.T(), rr)
}

func names(st *stateResponse) []string {
	out := make([]string, 0, len(st.Sightings))
	for _, v := range st.Sightings {
		out = append(out, v.CatName)
	}
	return out
}

func (s *SightingHandlerSuite) TestCreate() {
	s.Run("stores a valid sighting", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/sightings", map[string]any{
			"cat_name":      "Biscuit",
			"urgency_level": "needs_food",
			"latitude":      40.7,
			"longitude":     -73.9,
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		created := testutil.UnmarshalResponse[models.Sighting](s.T(), rr)
		s.False(created.ID.IsNil())
		s.Equal(s.ownerID, created.OwnerID)
		s.True(created.CreatedAt.Equal(s.now))
	})

	s.Run("a live session sees the new sighting", func() {
		s.Empty(s.state().Sightings)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/sightings", map[string]any{
			"cat_name":      "Biscuit",
			"urgency_level": "just_chilling",
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal([]string{"Biscuit"}, names(s.state()))
	})

	s.Run("rejects invalid input", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/sightings", map[string]any{
			"cat_name":      "Biscuit",
			"urgency_level": "needs_food",
			"latitude":      123.0,
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("rejects unknown fields", func() {
		rr := s.do(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/sightings", `{"cat_name":"x","id":"mine"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *SightingHandlerSuite) TestSessionState() {
	fresh := s.seed("Fresh", models.UrgencyNeedsFood, time.Hour)
	stale := s.seed("Stale", models.UrgencyNeedsFood, 30*time.Hour)

	st := s.state()
	s.Equal(lifecycle.StatusLoaded, st.Status)
	s.Equal([]string{"Fresh", "Stale"}, names(st))
	s.Equal(fresh.ID, st.Sightings[0].ID)
	s.True(st.Sightings[0].Editable)
	s.Require().NotNil(st.Sightings[0].EditableUntil)
	s.True(st.Sightings[0].EditableUntil.Equal(fresh.CreatedAt.Add(24 * time.Hour)))
	s.Equal(stale.ID, st.Sightings[1].ID)
	s.False(st.Sightings[1].Editable)
	s.Equal(1.0, prom.ToFloat64(s.metrics.ActiveSessions))
}

func (s *SightingHandlerSuite) TestCriteria() {
	s.Run("filters after the debounce", func() {
		s.seed("Orange Tabby", models.UrgencyNeedsFood, 2*time.Hour)
		s.seed("Pip", models.UrgencyJustChilling, time.Hour)
		s.Len(s.state().Sightings, 2)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/sightings/session/criteria", map[string]any{
			"urgency_filter": "needs_food",
			"search_query":   "tabby",
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusAccepted)

		s.Eventually(func() bool {
			st := s.state()
			return st.Status == lifecycle.StatusLoaded && len(st.Sightings) == 1 && st.Sightings[0].CatName == "Orange Tabby"
		}, time.Second, 5*time.Millisecond)
		st := s.state()
		s.Equal("tabby", st.Criteria.SearchQuery)
		s.Equal("all", string(st.Criteria.DateFilter))
	})

	s.Run("rejects unknown axis values before changing anything", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/sightings/session/criteria", map[string]any{
			"search_query": "tabby",
			"sort_by":      "alphabetical",
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
		s.Empty(s.state().Criteria.SearchQuery)
	})
}

func (s *SightingHandlerSuite) TestEditFlow() {
	s.Run("select, edit and submit", func() {
		target := s.seed("Mittens", models.UrgencyNeedsFood, time.Hour)
		base := "/sightings/session"
		s.state()

		testutil.AssertStatusOK(s.T(), s.do(testutil.NewRequest(s.T(), http.MethodPost, base+"/select/"+target.ID.String())))
		testutil.AssertStatusOK(s.T(), s.do(testutil.NewRequest(s.T(), http.MethodPost, base+"/edit/"+target.ID.String())))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, base+"/edit", map[string]any{"cat_name": "Sir Mittens"}))
		testutil.AssertStatusOK(s.T(), rr)
		st := testutil.UnmarshalResponse[stateResponse](s.T(), rr)
		s.Require().NotNil(st.Edit)
		s.Equal("Sir Mittens", st.Edit.Form.CatName)
		s.Equal("needs_food", st.Edit.Form.UrgencyLevel)

		rr = s.do(testutil.NewRequest(s.T(), http.MethodPost, base+"/edit/submit"))
		testutil.AssertStatusOK(s.T(), rr)
		st = testutil.UnmarshalResponse[stateResponse](s.T(), rr)
		s.Nil(st.Edit)
		s.Equal("Sir Mittens", st.Selected.CatName)

		stored, err := s.store.FindByID(context.Background(), target.ID)
		s.Require().NoError(err)
		s.Equal("Sir Mittens", stored.CatName)
		s.True(stored.CreatedAt.Equal(target.CreatedAt))
	})

	s.Run("stale sighting is forbidden", func() {
		old := s.seed("Old Tom", models.UrgencyNeedsFood, 30*time.Hour)
		s.state()

		rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/sightings/session/edit/"+old.ID.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
		s.Nil(s.state().Edit)
	})

	s.Run("invalid draft keeps edit mode", func() {
		target := s.seed("Mittens", models.UrgencyNeedsFood, time.Hour)
		s.state()
		testutil.AssertStatusOK(s.T(), s.do(testutil.NewRequest(s.T(), http.MethodPost, "/sightings/session/edit/"+target.ID.String())))
		testutil.AssertStatusOK(s.T(), s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/sightings/session/edit", map[string]any{"latitude": 95.0})))

		rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/sightings/session/edit/submit"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
		st := s.state()
		s.Require().NotNil(st.Edit)
		s.Require().NotNil(st.Edit.Error)
		s.Equal("update", st.Edit.Error.Kind)
	})

	s.Run("cancel leaves edit mode", func() {
		target := s.seed("Mittens", models.UrgencyNeedsFood, time.Hour)
		s.state()
		testutil.AssertStatusOK(s.T(), s.do(testutil.NewRequest(s.T(), http.MethodPost, "/sightings/session/edit/"+target.ID.String())))

		rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/sightings/session/edit"))
		testutil.AssertStatusOK(s.T(), rr)
		s.Nil(testutil.UnmarshalResponse[stateResponse](s.T(), rr).Edit)
	})

	s.Run("unknown sighting is not found", func() {
		s.state()
		rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/sightings/session/select/"+id.NewSightingID().String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *SightingHandlerSuite) TestDelete() {
	s.Run("removes the record and returns the notification", func() {
		target := s.seed("Gone", models.UrgencyNeedsFood, time.Hour)
		s.seed("Stays", models.UrgencyNeedsFood, time.Hour)
		s.state()

		rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/sightings/"+target.ID.String()))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[deleteResponse](s.T(), rr)
		s.Equal(target.ID, resp.Deleted.ID)
		s.NotEmpty(resp.NotificationID)
		s.Nil(resp.NotificationError)
		s.Equal([]string{"Stays"}, names(s.state()))
	})

	s.Run("notification failure is still a successful delete", func() {
		target := s.seed("Gone", models.UrgencyNeedsFood, time.Hour)
		s.notifications.err = errors.New("feed unavailable")
		s.state()

		rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/sightings/"+target.ID.String()))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[deleteResponse](s.T(), rr)
		s.Empty(resp.NotificationID)
		s.Require().NotNil(resp.NotificationError)
		s.Equal("notification", resp.NotificationError.Kind)

		st := s.state()
		s.Empty(st.Sightings)
		s.Require().NotNil(st.NotificationError)
	})

	s.Run("malformed id", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/sightings/nope"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *SightingHandlerSuite) TestShare() {
	s.Run("renders share text for the owner", func() {
		target := s.seed("Biscuit", models.UrgencyAppearsInjured, time.Hour)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/sightings/"+target.ID.String()+"/share"))
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), "Cat sighting: Biscuit (Appears injured)")
	})

	s.Run("hides other owners' sightings", func() {
		other := &models.Sighting{ID: id.NewSightingID(), OwnerID: id.OwnerID(uuid.New()), CatName: "Theirs", UrgencyLevel: models.UrgencyNeedsFood}
		s.Require().NoError(s.store.RestoreFromSnapshot(context.Background(), other))

		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/sightings/"+other.ID.String()+"/share"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *SightingHandlerSuite) TestRegistry() {
	s.Run("evict closes the controller", func() {
		c := s.registry.Get(context.Background(), s.ownerID)
		s.Equal(1, s.registry.Len())

		s.registry.Evict(s.ownerID)
		s.Equal(0, s.registry.Len())
		s.ErrorIs(c.Select(id.NewSightingID()), lifecycle.ErrClosed)
		s.Equal(0.0, prom.ToFloat64(s.metrics.ActiveSessions))
	})

	s.Run("reuses the controller per owner", func() {
		a := s.registry.Get(context.Background(), s.ownerID)
		b := s.registry.Get(context.Background(), s.ownerID)
		s.Same(a, b)
	})

	s.Run("reload without a session is a no-op", func() {
		s.registry.Reload(context.Background(), id.OwnerID(uuid.New()))
		s.Equal(0, s.registry.Len())
	})
}
