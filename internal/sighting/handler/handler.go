package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"catwatch/internal/sighting/lifecycle"
	"catwatch/internal/sighting/models"
	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
	"catwatch/pkg/platform/httputil"
	"catwatch/pkg/platform/sentinel"
	"catwatch/pkg/requestcontext"
)

// Store is the part of the sighting store the handler uses directly.
type Store interface {
	Create(ctx context.Context, s *models.Sighting) error
	FindByID(ctx context.Context, sightingID id.SightingID) (*models.Sighting, error)
}

// Handler serves sighting creation and the per-owner lifecycle session.
type Handler struct {
	logger   *slog.Logger
	store    Store
	sessions *Registry
}

func New(store Store, sessions *Registry, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		store:    store,
		sessions: sessions,
	}
}

// Register adds the sighting routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sightings", h.handleCreate)
	r.Get("/sightings/{id}/share", h.handleShare)
	r.Delete("/sightings/{id}", h.handleDelete)

	r.Route("/sightings/session", func(r chi.Router) {
		r.Get("/", h.handleState)
		r.Put("/criteria", h.handleCriteria)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/select/{id}", h.handleSelect)
		r.Delete("/select", h.handleClearSelection)
		r.Post("/edit/submit", h.handleSubmitEdit)
		r.Post("/edit/{id}", h.handleBeginEdit)
		r.Put("/edit", h.handleUpdateForm)
		r.Delete("/edit", h.handleCancelEdit)
	})
}

func (h *Handler) session(r *http.Request) *lifecycle.Controller {
	ctx := r.Context()
	return h.sessions.Get(ctx, requestcontext.OwnerID(ctx))
}

func (h *Handler) writeState(w http.ResponseWriter, status int, c *lifecycle.Controller) {
	httputil.WriteJSON(w, status, toStateResponse(c.State()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)

	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	s := req.toModel(ownerID)
	if err := s.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.store.Create(ctx, s); err != nil {
		h.logger.ErrorContext(ctx, "failed to create sighting",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create sighting"))
		return
	}
	h.logger.InfoContext(ctx, "sighting reported",
		"owner_id", ownerID.String(),
		"sighting_id", s.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	h.sessions.Reload(ctx, ownerID)
	httputil.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sightingID, err := id.ParseSightingID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid sighting id"))
		return
	}
	s, err := h.store.FindByID(ctx, sightingID)
	if err != nil || s.OwnerID != requestcontext.OwnerID(ctx) {
		if err == nil || errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "sighting not found"))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sighting"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.ShareText()))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, http.StatusOK, h.session(r))
}

func (h *Handler) handleCriteria(w http.ResponseWriter, r *http.Request) {
	var req criteriaRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.DateFilter != nil && !req.DateFilter.IsValid() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown date_filter"))
		return
	}
	if req.UrgencyFilter != nil && !req.UrgencyFilter.IsValid() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown urgency_filter"))
		return
	}
	if req.SortBy != nil && !req.SortBy.IsValid() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown sort_by"))
		return
	}

	c := h.session(r)
	if req.DateFilter != nil {
		c.SetDateFilter(*req.DateFilter)
	}
	if req.UrgencyFilter != nil {
		c.SetUrgencyFilter(*req.UrgencyFilter)
	}
	if req.SortBy != nil {
		c.SetSortBy(*req.SortBy)
	}
	if req.SearchQuery != nil {
		c.SetSearchQuery(*req.SearchQuery)
	}
	// The reload is debounced; the client polls the session for the result.
	h.writeState(w, http.StatusAccepted, c)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c := h.session(r)
	if err := c.Refresh(r.Context()); err != nil && !errors.Is(err, lifecycle.ErrSuperseded) {
		if errors.Is(err, lifecycle.ErrClosed) {
			h.writeError(w, r, err)
			return
		}
		h.logger.WarnContext(r.Context(), "sighting refresh failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	sightingID, ok := h.sightingID(w, r)
	if !ok {
		return
	}
	c := h.session(r)
	if err := c.Select(sightingID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	c := h.session(r)
	c.ClearSelection()
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	sightingID, ok := h.sightingID(w, r)
	if !ok {
		return
	}
	c := h.session(r)
	if err := c.BeginEdit(sightingID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	c := h.session(r)
	if err := c.UpdateForm(req.apply); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleSubmitEdit(w http.ResponseWriter, r *http.Request) {
	c := h.session(r)
	if err := c.SubmitEdit(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	c := h.session(r)
	c.CancelEdit()
	h.writeState(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sightingID, ok := h.sightingID(w, r)
	if !ok {
		return
	}
	c := h.session(r)
	result, err := c.Delete(r.Context(), sightingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := deleteResponse{
		Deleted:           *result.Snapshot,
		NotificationError: toErrorView(result.NotificationErr),
	}
	if result.Notification != nil {
		resp.NotificationID = result.Notification.ID.String()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) sightingID(w http.ResponseWriter, r *http.Request) (id.SightingID, bool) {
	sightingID, err := id.ParseSightingID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid sighting id"))
		return id.SightingID{}, false
	}
	return sightingID, true
}

// writeError maps controller errors onto domain codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := toDomainError(err)
	if dErrors.CodeOf(mapped) == dErrors.CodeInternal {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, "sighting operation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, mapped)
}

func toDomainError(err error) error {
	var de *dErrors.Error
	switch {
	case errors.Is(err, lifecycle.ErrClosed):
		return dErrors.New(dErrors.CodeConflict, "session was closed, retry the request")
	case lifecycle.IsKind(err, lifecycle.KindIneligibleEdit):
		return dErrors.Wrap(err, dErrors.CodeForbidden, "edit window has closed")
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return dErrors.Wrap(err, dErrors.CodeValidation, dErrors.MessageOf(err))
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "sighting not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "sighting was changed concurrently")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "store did not respond in time")
	case errors.As(err, &de) && !isFailure(err):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "sighting operation failed")
	}
}

func isFailure(err error) bool {
	var f *lifecycle.Failure
	return errors.As(err, &f)
}
