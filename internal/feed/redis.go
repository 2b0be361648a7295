package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix is prepended to the owner id to form the pub/sub
// channel name.
const DefaultChannelPrefix = "cart:changed:"

// Redis is a Feed backed by Redis pub/sub so that every API instance sees
// mutations made through any other instance.
type Redis struct {
	client *redis.Client
	prefix string
	log    *slog.Logger
}

func NewRedis(client *redis.Client, prefix string, log *slog.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &Redis{client: client, prefix: prefix, log: log}
}

// Channel returns the pub/sub channel for owner.
func (r *Redis) Channel(owner string) string { return r.prefix + owner }

func (r *Redis) Publish(ctx context.Context, owner string) error {
	if err := r.client.Publish(ctx, r.Channel(owner), "changed").Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.Channel(owner), err)
	}
	return nil
}

// Subscribe blocks until Redis confirms the subscription.
func (r *Redis) Subscribe(ctx context.Context, owner string) (Subscription, error) {
	ps := r.client.Subscribe(ctx, r.Channel(owner))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.Channel(owner), err)
	}
	s := &redisSub{ps: ps, ch: make(chan struct{}, 1), done: make(chan struct{})}
	go s.pump(ps.Channel(), r.log.With("channel", r.Channel(owner)))
	return s, nil
}

type redisSub struct {
	ps   *redis.PubSub
	ch   chan struct{}
	done chan struct{}
	once sync.Once
	err  error
}

func (s *redisSub) C() <-chan struct{} { return s.ch }

func (s *redisSub) pump(msgs <-chan *redis.Message, log *slog.Logger) {
	defer close(s.done)
	defer close(s.ch)
	for range msgs {
		notify(s.ch)
	}
	log.Debug("cart feed subscription ended")
}

// Close unsubscribes and waits for the forwarding goroutine to exit.
func (s *redisSub) Close() error {
	s.once.Do(func() {
		s.err = s.ps.Close()
		<-s.done
	})
	return s.err
}
