package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,SightingRestorer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"catwatch/internal/notification/feed"
	"catwatch/internal/notification/models"
	sightingmodels "catwatch/internal/sighting/models"
	id "catwatch/pkg/domain"
	dErrors "catwatch/pkg/domain-errors"
	"catwatch/pkg/platform/sentinel"
	"catwatch/pkg/requestcontext"
)

type Store interface {
	Save(ctx context.Context, n *models.DeletionNotification) error
	Get(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) (*models.DeletionNotification, error)
	ListByOwner(ctx context.Context, ownerID id.OwnerID) ([]*models.DeletionNotification, error)
	Delete(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) error
}

// SightingRestorer re-inserts a deleted sighting from its snapshot.
type SightingRestorer interface {
	RestoreFromSnapshot(ctx context.Context, snapshot *sightingmodels.Sighting) error
}

// Service records deletion notifications and implements undo.
type Service struct {
	store     Store
	sightings SightingRestorer
	feed      feed.Refresher
	logger    *slog.Logger
	clock     func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFeed sets where refresh signals go. Without it Refresh is a no-op.
func WithFeed(r feed.Refresher) Option {
	return func(s *Service) {
		s.feed = r
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func New(store Store, sightings SightingRestorer, opts ...Option) *Service {
	s := &Service{
		store:     store,
		sightings: sightings,
		logger:    slog.New(slog.DiscardHandler),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDeletionNotification stores an undo record holding a copy of snapshot.
func (s *Service) CreateDeletionNotification(ctx context.Context, ownerID id.OwnerID, snapshot *sightingmodels.Sighting) (*models.DeletionNotification, error) {
	if snapshot == nil || snapshot.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "snapshot is required")
	}
	n := models.NewDeletionNotification(ownerID, snapshot, s.clock())
	if err := s.store.Save(ctx, n); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record deletion notification")
	}
	return n, nil
}

// Refresh signals the owner's notification feed to re-read.
func (s *Service) Refresh(ctx context.Context, ownerID id.OwnerID) {
	if s.feed != nil {
		s.feed.Refresh(ctx, ownerID)
	}
}

// List returns the owner's undoable deletions, newest first.
func (s *Service) List(ctx context.Context, ownerID id.OwnerID) ([]*models.DeletionNotification, error) {
	list, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return list, nil
}

// Undo restores the deleted sighting and then removes the notification. If
// the sighting already exists the notification is kept and a conflict is
// returned.
func (s *Service) Undo(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) (*sightingmodels.Sighting, error) {
	n, err := s.find(ctx, ownerID, notificationID)
	if err != nil {
		return nil, err
	}
	if err := s.sightings.RestoreFromSnapshot(ctx, &n.Snapshot); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "sighting already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore sighting")
	}
	if err := s.store.Delete(ctx, ownerID, notificationID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to remove notification after undo",
			"owner_id", ownerID.String(),
			"notification_id", notificationID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	s.logger.InfoContext(ctx, "sighting deletion undone",
		"owner_id", ownerID.String(),
		"sighting_id", n.Snapshot.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.Refresh(ctx, ownerID)
	restored := n.Snapshot
	return &restored, nil
}

// Dismiss removes a notification without restoring anything.
func (s *Service) Dismiss(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) error {
	if err := s.store.Delete(ctx, ownerID, notificationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to dismiss notification")
	}
	s.Refresh(ctx, ownerID)
	return nil
}

func (s *Service) find(ctx context.Context, ownerID id.OwnerID, notificationID id.NotificationID) (*models.DeletionNotification, error) {
	n, err := s.store.Get(ctx, ownerID, notificationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load notification")
	}
	return n, nil
}
