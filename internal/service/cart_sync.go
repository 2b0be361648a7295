package service

import (
	"context"
	"sync"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/feed"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/model"
)

// CartSync keeps one owner's cart view current.  On every feed signal it
// re-reads the full cart; bursts of signals collapse into one read, and a
// snapshot older than the one already delivered is dropped.
type CartSync struct {
	svc   *CartService
	owner string
	sub   feed.Subscription
	log   *logger.Logger

	updates chan model.CartSnapshot

	mu     sync.Mutex
	latest model.CartSnapshot

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Watch subscribes to owner's changes, then takes the initial snapshot.
// Subscribing first means no change committed after Watch returns can be
// missed.  The returned CartSync lives until Close or until ctx ends.
func (s *CartService) Watch(ctx context.Context, owner string) (*CartSync, error) {
	if s.feed == nil {
		return nil, apperr.Transient("cart updates are unavailable", nil)
	}
	sub, err := s.feed.Subscribe(ctx, owner)
	if err != nil {
		return nil, apperr.Transient("could not subscribe to cart updates", err)
	}
	snap, err := s.Snapshot(ctx, owner)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	cs := &CartSync{
		svc:     s,
		owner:   owner,
		sub:     sub,
		log:     s.log.With("owner", owner),
		updates: make(chan model.CartSnapshot, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	cs.apply(snap)
	go cs.run(loopCtx)
	return cs, nil
}

// Updates delivers snapshots, latest wins.  It is closed when the sync
// stops.
func (c *CartSync) Updates() <-chan model.CartSnapshot { return c.updates }

// Latest returns the newest snapshot applied so far.
func (c *CartSync) Latest() model.CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Close stops the loop, waits for it to exit and releases the subscription.
// It is safe to call more than once.
func (c *CartSync) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.done
		c.closeErr = c.sub.Close()
	})
	return c.closeErr
}

func (c *CartSync) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.updates)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-c.sub.C():
			if !ok {
				return
			}
			snap, err := c.svc.Snapshot(ctx, c.owner)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Warn("cart refetch failed", "error", err)
				continue
			}
			c.apply(snap)
		}
	}
}

// apply records snap if it is newer than the current one and offers it on
// the updates channel, replacing any undelivered older snapshot.
func (c *CartSync) apply(snap model.CartSnapshot) bool {
	c.mu.Lock()
	if c.latest.Version >= snap.Version {
		c.mu.Unlock()
		return false
	}
	c.latest = snap
	c.mu.Unlock()

	select {
	case c.updates <- snap:
	default:
		select {
		case <-c.updates:
		default:
		}
		c.updates <- snap
	}
	return true
}
