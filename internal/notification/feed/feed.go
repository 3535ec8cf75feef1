// Package feed signals notification-feed refreshes to whoever is displaying
// an owner's notifications.
package feed

import (
	"context"

	id "catwatch/pkg/domain"
)

// Refresher asks the feed for ownerID to re-read. It never fails.
type Refresher interface {
	Refresh(ctx context.Context, ownerID id.OwnerID)
}

// Multi fans a refresh out to several refreshers in order.
type Multi []Refresher

func (m Multi) Refresh(ctx context.Context, ownerID id.OwnerID) {
	for _, r := range m {
		if r != nil {
			r.Refresh(ctx, ownerID)
		}
	}
}
