package state

import (
	"context"
	"sync"

	"github.com/dpetrovs/memhub/internal/client/backend"
	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/logging"
)

// SessionStore is the single source of truth for "is a user signed in".
// Start fetches the current session once and then tracks every identity
// change the auth client reports until Stop.
type SessionStore struct {
	mu       sync.Mutex
	auth     backend.AuthClient
	msgs     Messages
	log      logging.Logger
	session  *models.Session
	loading  bool
	started  bool
	unsub    func()
	watchers []func(*models.Session)
}

func NewSessionStore(auth backend.AuthClient, msgs Messages, log logging.Logger) *SessionStore {
	return &SessionStore{auth: auth, msgs: msgs, log: log, loading: true}
}

// OnChange registers fn to run on every session transition, including the
// initial fetch. Register watchers before Start.
func (s *SessionStore) OnChange(fn func(*models.Session)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Start performs the one-time session fetch and subscribes to identity
// changes. A fetch failure is surfaced through the message channel but does
// not keep the loading flag set.
func (s *SessionStore) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.loading = true
	s.mu.Unlock()

	session, err := s.auth.CurrentSession(ctx)
	if err != nil {
		s.log.Warn(ctx, "session restore failed", "error", err)
		s.msgs.Error(err.Error())
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.apply(session)

	unsub := s.auth.OnAuthStateChange(func(next *models.Session) {
		s.apply(next)
	})
	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()
}

// Stop unsubscribes from identity-change notifications.
func (s *SessionStore) Stop() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Session returns a copy of the current session, or nil when signed out.
func (s *SessionStore) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

func (s *SessionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SessionStore) apply(next *models.Session) {
	s.mu.Lock()
	s.session = next
	watchers := make([]func(*models.Session), len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(next)
	}
}
