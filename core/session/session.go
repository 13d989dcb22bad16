// Package session holds the authenticated user of one browser and notifies
// interested controllers when it changes.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
)

// Event is a session change delivered to subscribers.
type Event int

const (
	Populated Event = iota + 1
	Cleared
	Restored
)

func (e Event) String() string {
	switch e {
	case Populated:
		return "populated"
	case Cleared:
		return "cleared"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}

type (
	// Snapshot is a read-only copy of the session at one instant.
	Snapshot struct {
		ID      string
		User    *account.User
		Token   string
		Loading bool
	}

	Listener func(ev Event, snap Snapshot)

	// Session is the application context of one browser. It is only mutated
	// through Populate, Clear and Restore; readers take snapshots.
	Session struct {
		id     string
		store  Store
		logger core.Logger

		mu      sync.RWMutex
		user    *account.User
		token   string
		loading bool

		restoreOnce sync.Once
		restored    chan struct{}

		subsMu  sync.Mutex
		subs    map[int]Listener
		nextSub int
	}
)

// New returns an empty session. A nil store keeps the session in memory only.
func New(id string, store Store, logger core.Logger) *Session {
	return &Session{
		id:       id,
		store:    store,
		logger:   logger,
		restored: make(chan struct{}),
		subs:     make(map[int]Listener),
	}
}

func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{ID: s.id, Token: s.token, Loading: s.loading}
	if s.user != nil {
		usr := *s.user
		snap.User = &usr
	}
	return snap
}

// Token returns the authentication token attached to protected requests.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn for every later session event. The returned func unsubscribes.
// Listeners run synchronously on the goroutine that changed the session.
func (s *Session) Subscribe(fn Listener) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Session) notify(ev Event) {
	snap := s.Snapshot()

	s.subsMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range listeners {
		fn(ev, snap)
	}
}

// Populate sets the user and token, persists them and notifies subscribers.
// The in-memory session is populated even when persisting fails.
func (s *Session) Populate(ctx context.Context, usr account.User, token string) error {
	s.mu.Lock()
	s.user = &usr
	s.token = token
	s.mu.Unlock()

	var err error
	if s.store != nil {
		rec := Record{ID: s.id, User: usr, Token: token, UpdatedAt: time.Now().UTC()}
		err = errors.Wrap(s.store.Save(ctx, rec), "saving session")
	}
	s.notify(Populated)
	return err
}

// Clear forgets the user and token, in memory and in the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	var err error
	if s.store != nil {
		if dErr := s.store.Delete(ctx, s.id); dErr != nil && !errors.Is(dErr, ErrNotFound) {
			err = errors.Wrap(dErr, "deleting session")
		}
	}
	s.notify(Cleared)
	return err
}

// Restore loads the persisted session in the background. Only the first call
// does anything; the session reports Loading until the load completes.
// The returned channel is closed once the session is restored.
func (s *Session) Restore(ctx context.Context) <-chan struct{} {
	s.restoreOnce.Do(func() {
		s.mu.Lock()
		s.loading = true
		s.mu.Unlock()

		go func() {
			defer close(s.restored)
			s.restore(ctx)
			s.notify(Restored)
		}()
	})
	return s.restored
}

func (s *Session) restore(ctx context.Context) {
	var rec Record
	var err error
	if s.store != nil {
		rec, err = s.store.Load(ctx, s.id)
	} else {
		err = ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	switch {
	case err == nil:
		if s.user == nil { // a populate during the load wins
			usr := rec.User
			s.user = &usr
			s.token = rec.Token
		}
	case errors.Is(err, ErrNotFound):
	default:
		if s.logger != nil {
			s.logger.Error("restoring session", errors.Wrap(err, s.id))
		}
	}
}

// WaitRestored blocks until the session is restored or ctx is done.
// It reports whether the restore completed.
func (s *Session) WaitRestored(ctx context.Context) bool {
	select {
	case <-s.restored:
		return true
	case <-ctx.Done():
		return false
	}
}
