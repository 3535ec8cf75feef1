package feed

import (
	"context"
	"sync"

	id "catwatch/pkg/domain"
)

// Broadcaster delivers refresh signals to in-process subscribers. Signals are
// coalesced: a subscriber that has not drained the previous signal receives
// no second one.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[id.OwnerID]map[chan struct{}]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[id.OwnerID]map[chan struct{}]struct{})}
}

// Subscribe registers interest in an owner's feed. The returned cancel func
// must be called to release the subscription; it closes the channel.
func (b *Broadcaster) Subscribe(ownerID id.OwnerID) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[chan struct{}]struct{})
	}
	b.subs[ownerID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[ownerID], ch)
			if len(b.subs[ownerID]) == 0 {
				delete(b.subs, ownerID)
			}
			close(ch)
		})
	}
}

// Refresh signals every subscriber of ownerID without blocking.
func (b *Broadcaster) Refresh(_ context.Context, ownerID id.OwnerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[ownerID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for ownerID.
func (b *Broadcaster) Subscribers(ownerID id.OwnerID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[ownerID])
}
