package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,SessionReloader

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"catwatch/internal/notification/models"
	sightingmodels "catwatch/internal/sighting/models"
	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
	"catwatch/pkg/platform/httputil"
	"catwatch/pkg/requestcontext"
)

const (
	defaultWait = 25 * time.Second
	maxWait     = 60 * time.Second
)

// Service is the notification feed.
type Service interface {
	List(ctx context.Context, ownerID id.OwnerID) ([]*models.DeletionNotification, error)
	Undo(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) (*sightingmodels.Sighting, error)
	Dismiss(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) error
}

// SessionReloader reloads the owner's sighting list after an undo.
type SessionReloader interface {
	Reload(ctx context.Context, ownerID id.OwnerID)
}

// Subscriber delivers feed refresh signals for long polling.
type Subscriber interface {
	Subscribe(ownerID id.OwnerID) (<-chan struct{}, func())
}

// Handler serves the notification feed endpoints.
type Handler struct {
	logger   *slog.Logger
	service  Service
	sessions SessionReloader
	feed     Subscriber
}

// New creates a notification Handler. sessions and feed may be nil.
func New(service Service, sessions SessionReloader, feed Subscriber, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		sessions: sessions,
		feed:     feed,
	}
}

// Register adds the notification routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Get("/notifications/changes", h.handleChanges)
	r.Post("/notifications/{id}/undo", h.handleUndo)
	r.Delete("/notifications/{id}", h.handleDismiss)
}

type notificationResponse struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Sighting  sightingmodels.Sighting `json:"sighting"`
	CreatedAt time.Time               `json:"created_at"`
}

type listResponse struct {
	Notifications []notificationResponse `json:"notifications"`
}

type changesResponse struct {
	Changed       bool                   `json:"changed"`
	Notifications []notificationResponse `json:"notifications"`
}

func toResponses(list []*models.DeletionNotification) []notificationResponse {
	out := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, notificationResponse{
			ID:        n.ID.String(),
			Message:   n.Message(),
			Sighting:  n.Snapshot,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)

	list, err := h.service.List(ctx, ownerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Notifications: toResponses(list)})
}

// handleChanges long-polls until the feed signals a change or the wait
// elapses, then returns the current list.
func (h *Handler) handleChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)

	wait := defaultWait
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "wait must be a non-negative duration"))
			return
		}
		wait = min(d, maxWait)
	}

	changed := false
	if h.feed != nil && wait > 0 {
		signals, cancel := h.feed.Subscribe(ownerID)
		timer := time.NewTimer(wait)
		select {
		case <-signals:
			changed = true
		case <-timer.C:
		case <-ctx.Done():
		}
		timer.Stop()
		cancel()
	}
	if ctx.Err() != nil {
		return
	}

	list, err := h.service.List(ctx, ownerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, changesResponse{Changed: changed, Notifications: toResponses(list)})
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)
	requestID := requestcontext.RequestID(ctx)

	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid notification id"))
		return
	}

	restored, err := h.service.Undo(ctx, ownerID, notificationID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to undo deletion",
				"request_id", requestID,
				"notification_id", notificationID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	if h.sessions != nil {
		h.sessions.Reload(ctx, ownerID)
	}
	httputil.WriteJSON(w, http.StatusOK, restored)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)

	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid notification id"))
		return
	}
	if err := h.service.Dismiss(ctx, ownerID, notificationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
