package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval matches the refresh cadence views historically
// used as a liveness backstop against missed change signals.
const DefaultPollInterval = 3 * time.Second

// ChangeEvent tells a subscriber that a slot may have changed. It
// carries no payload; subscribers re-read the store, and must treat
// what they read as eventually consistent with the announcing write.
type ChangeEvent struct {
	Key string
	At  time.Time
}

// Notifier fans slot changes out to subscribers in-process. Delivery
// is best effort: a subscriber that is not draining its channel has
// events coalesced into the poll backstop rather than blocking a
// writer.
type Notifier struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	log  *zap.Logger
}

// Subscription is one view's feed of change events. Cancel it when the
// view goes away.
type Subscription struct {
	C chan ChangeEvent

	n    *Notifier
	keys map[string]struct{} // empty means all keys
	once sync.Once
}

func NewNotifier(log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{subs: make(map[*Subscription]struct{}), log: log}
}

// Subscribe registers interest in the given keys (all keys when none
// are given). An initial event per key is delivered immediately so the
// subscriber performs its first load without waiting for a write.
func (n *Notifier) Subscribe(keys ...string) *Subscription {
	sub := &Subscription{
		C:    make(chan ChangeEvent, 8+len(keys)),
		n:    n,
		keys: make(map[string]struct{}, len(keys)),
	}
	for _, k := range keys {
		sub.keys[k] = struct{}{}
	}

	n.mu.Lock()
	n.subs[sub] = struct{}{}
	n.mu.Unlock()

	now := time.Now()
	if len(keys) == 0 {
		sub.C <- ChangeEvent{At: now}
	} else {
		for _, k := range keys {
			sub.C <- ChangeEvent{Key: k, At: now}
		}
	}
	return sub
}

// Announce signals that key changed. Called by the stores after each
// successful write.
func (n *Notifier) Announce(key string) {
	ev := ChangeEvent{Key: key, At: time.Now()}
	n.mu.Lock()
	defer n.mu.Unlock()
	for sub := range n.subs {
		if !sub.matches(key) {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			n.log.Debug("subscriber lagging, dropping change event",
				zap.String("key", key))
		}
	}
}

// Poll re-announces every subscribed key on a fixed interval until ctx
// is done. It is the liveness backstop for events lost to slow
// subscribers or writes performed without a notifier attached.
func (n *Notifier) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case at := <-ticker.C:
			n.mu.Lock()
			for sub := range n.subs {
				for k := range sub.keys {
					select {
					case sub.C <- ChangeEvent{Key: k, At: at}:
					default:
					}
				}
				if len(sub.keys) == 0 {
					select {
					case sub.C <- ChangeEvent{At: at}:
					default:
					}
				}
			}
			n.mu.Unlock()
		}
	}
}

func (s *Subscription) matches(key string) bool {
	if len(s.keys) == 0 {
		return true
	}
	_, ok := s.keys[key]
	return ok
}

// Cancel removes the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.n.mu.Lock()
		delete(s.n.subs, s)
		s.n.mu.Unlock()
		close(s.C)
	})
}
