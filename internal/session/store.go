package session

import (
	"context"
	"log/slog"
	"sync"
)

// Store is the session state machine: resolving -> authenticated |
// anonymous.  Any explicit SignIn, SignUp or SignOut supersedes a restore
// still in flight.
type Store struct {
	auth Authenticator
	log  *slog.Logger

	mu        sync.RWMutex
	cur       *Session
	resolving bool
	ready     chan struct{} // closed when resolving flips to false
	gen       uint64
}

func NewStore(auth Authenticator, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	ready := make(chan struct{})
	close(ready)
	return &Store{auth: auth, log: log, ready: ready}
}

// Restore begins resolving accessToken in the background.  Until it
// finishes, View reports Resolved=false.  An empty token settles the store
// as anonymous immediately.
func (s *Store) Restore(ctx context.Context, accessToken string) {
	s.mu.Lock()
	if accessToken == "" {
		s.settleLocked(nil)
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	if !s.resolving {
		s.resolving = true
		s.ready = make(chan struct{})
	}
	s.mu.Unlock()

	go func() {
		sess, err := s.auth.Resolve(ctx, accessToken)
		if err != nil {
			s.log.Debug("session restore failed", "error", err)
			sess = nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		s.settleLocked(sess)
	}()
}

// Ready blocks until the store is no longer resolving or ctx is done.
func (s *Store) Ready(ctx context.Context) error {
	s.mu.RLock()
	ch := s.ready
	s.mu.RUnlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resolving {
		return View{}
	}
	v := View{Resolved: true}
	if s.cur != nil {
		v.IsAuthenticated = true
		v.Role = s.cur.Role
	}
	return v
}

// Current returns the live session, or nil while anonymous or resolving.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resolving {
		return nil
	}
	return s.cur
}

// SignUp creates an account and makes it the current session.
func (s *Store) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	sess, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	s.settle(sess)
	return sess, nil
}

// SignIn establishes a session from credentials.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.settle(sess)
	return sess, nil
}

// Refresh rotates refreshToken, or the current session's refresh token
// when empty, and installs the new session.
func (s *Store) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		if cur := s.Current(); cur != nil {
			refreshToken = cur.RefreshToken
		}
	}
	sess, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	s.settle(sess)
	return sess, nil
}

// SignOut clears the session and revokes its backing state.  Calling it
// without a session is a no-op.  The local session is cleared even when
// revocation fails.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	old := s.cur
	s.settleLocked(nil)
	s.mu.Unlock()
	if old == nil {
		return nil
	}
	return s.auth.Revoke(ctx, old)
}

func (s *Store) settle(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked(sess)
}

// settleLocked installs sess, wakes Ready waiters and invalidates any
// restore still in flight.
func (s *Store) settleLocked(sess *Session) {
	s.gen++
	s.cur = sess
	if s.resolving {
		s.resolving = false
		close(s.ready)
	}
}
