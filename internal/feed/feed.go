// Package feed carries owner-scoped "something changed" signals.  A signal
// has no payload: subscribers react by re-reading the data they care about,
// so lost or merged signals never leave a reader with stale state once the
// next one arrives.
package feed

import (
	"context"
	"errors"
)

// ErrClosed is returned when publishing to or subscribing on a closed feed.
var ErrClosed = errors.New("feed closed")

// Subscription receives signals for one owner.  C is buffered with capacity
// one; bursts of signals collapse into a single pending receive.
type Subscription interface {
	C() <-chan struct{}
	Close() error
}

// Feed publishes and subscribes to per-owner change signals.  Subscribe
// returns only once the subscription is live, so a signal published after
// it returns is guaranteed to be observed.
type Feed interface {
	Publish(ctx context.Context, owner string) error
	Subscribe(ctx context.Context, owner string) (Subscription, error)
}

// notify performs a non-blocking send; a full buffer already means "changed".
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
