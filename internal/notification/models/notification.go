package models

import (
	"time"

	sightingmodels "catwatch/internal/sighting/models"
	id "catwatch/pkg/domain"
)

// DeletionNotification records a deleted sighting so its owner can undo the
// delete. Snapshot is a full copy taken before deletion; it is never modified.
type DeletionNotification struct {
	ID        id.NotificationID       `json:"id"`
	OwnerID   id.OwnerID              `json:"owner_id"`
	Snapshot  sightingmodels.Sighting `json:"snapshot"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewDeletionNotification copies snapshot so later mutation of the caller's
// value cannot leak into the notification.
func NewDeletionNotification(ownerID id.OwnerID, snapshot *sightingmodels.Sighting, now time.Time) *DeletionNotification {
	return &DeletionNotification{
		ID:        id.NewNotificationID(),
		OwnerID:   ownerID,
		Snapshot:  *snapshot.Clone(),
		CreatedAt: now,
	}
}

// Message is the feed text shown next to the undo action.
func (n *DeletionNotification) Message() string {
	return "Deleted sighting \"" + n.Snapshot.CatName + "\""
}
