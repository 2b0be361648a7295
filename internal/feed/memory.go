package feed

import (
	"context"
	"sync"
)

// Memory is an in-process Feed for single-instance deployments and tests.
type Memory struct {
	mu     sync.Mutex
	subs   map[string]map[*memorySub]struct{}
	closed bool
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[*memorySub]struct{})}
}

func (m *Memory) Publish(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for s := range m.subs[owner] {
		notify(s.ch)
	}
	return nil
}

func (m *Memory) Subscribe(_ context.Context, owner string) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	s := &memorySub{hub: m, owner: owner, ch: make(chan struct{}, 1)}
	set, ok := m.subs[owner]
	if !ok {
		set = make(map[*memorySub]struct{})
		m.subs[owner] = set
	}
	set[s] = struct{}{}
	return s, nil
}

// SubscriberCount reports the live subscriptions for owner.
func (m *Memory) SubscriberCount(owner string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[owner])
}

// Close drops every subscription and rejects further use.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for _, set := range m.subs {
		for s := range set {
			s.closeLocked()
		}
	}
	m.subs = map[string]map[*memorySub]struct{}{}
	return nil
}

type memorySub struct {
	hub    *Memory
	owner  string
	ch     chan struct{}
	closed bool // guarded by hub.mu
}

func (s *memorySub) C() <-chan struct{} { return s.ch }

func (s *memorySub) Close() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if set, ok := s.hub.subs[s.owner]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(s.hub.subs, s.owner)
		}
	}
	s.closeLocked()
	return nil
}

func (s *memorySub) closeLocked() {
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
