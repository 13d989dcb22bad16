package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerjeasy/letusconnect/core/account"
)

// memStore is a Store whose Load can be held open.
type memStore struct {
	mu      sync.Mutex
	records map[string]Record
	hold    chan struct{}
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]Record)}
}

func (m *memStore) Load(ctx context.Context, id string) (Record, error) {
	if m.hold != nil {
		select {
		case <-m.hold:
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	m.records[rec.ID] = rec
	m.mu.Unlock()
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memStore) List(context.Context) ([]Record, error) { return nil, nil }

func (m *memStore) Purge(context.Context, time.Time) (int, error) { return 0, nil }

var (
	admin = account.User{ID: "u1", Username: "root", Role: account.Roles{"admin"}}
	user  = account.User{ID: "u2", Username: "ada", Role: account.Roles{"user"}}
)

func TestSession_PopulateClear(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := New("sid", store, nil)

	var events []Event
	cancel := s.Subscribe(func(ev Event, snap Snapshot) {
		events = append(events, ev)
		if ev == Populated {
			assert.Equal(t, "tok", snap.Token)
		}
	})

	require.NoError(t, s.Populate(ctx, admin, "tok"))
	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "root", snap.User.Username)
	assert.Equal(t, "tok", s.Token())
	assert.Equal(t, "tok", store.records["sid"].Token)

	snap.User.Username = "changed"
	assert.Equal(t, "root", s.Snapshot().User.Username, "snapshots are copies")

	require.NoError(t, s.Clear(ctx))
	assert.Nil(t, s.Snapshot().User)
	assert.Empty(t, s.Token())
	assert.NotContains(t, store.records, "sid")

	cancel()
	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, []Event{Populated, Cleared}, events)
}

func TestSession_Restore(t *testing.T) {
	store := newMemStore()
	store.records["sid"] = Record{ID: "sid", User: admin, Token: "tok"}
	store.hold = make(chan struct{})
	s := New("sid", store, nil)

	restored := make(chan Snapshot, 1)
	s.Subscribe(func(ev Event, snap Snapshot) {
		if ev == Restored {
			restored <- snap
		}
	})

	done := s.Restore(context.Background())
	assert.True(t, s.Snapshot().Loading)
	assert.Equal(t, AccessLoading, s.Snapshot().Gate(account.RoleAdmin))
	assert.Equal(t, done, s.Restore(context.Background()), "restore runs once")

	close(store.hold)
	<-done
	snap := <-restored
	assert.False(t, snap.Loading)
	assert.Equal(t, "tok", snap.Token)
	assert.Equal(t, AccessGranted, s.Snapshot().Gate(account.RoleAdmin))
	assert.True(t, s.WaitRestored(context.Background()))
}

func TestSession_RestoreMissing(t *testing.T) {
	s := New("sid", newMemStore(), nil)
	<-s.Restore(context.Background())
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.Equal(t, AccessDenied, snap.Gate(account.RoleAdmin))
}

func TestSession_WaitRestoredTimeout(t *testing.T) {
	store := newMemStore()
	store.hold = make(chan struct{})
	defer close(store.hold)
	s := New("sid", store, nil)
	s.Restore(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, s.WaitRestored(ctx))
	assert.True(t, s.Snapshot().Loading)
}

func TestSnapshot_Gate(t *testing.T) {
	subAdmin := account.User{ID: "u3", Role: account.Roles{"user", "admin:faq"}}
	tests := []struct {
		name string
		snap Snapshot
		want Access
	}{
		{name: "loading", snap: Snapshot{Loading: true, User: &admin}, want: AccessLoading},
		{name: "anonymous", snap: Snapshot{}, want: AccessDenied},
		{name: "not admin", snap: Snapshot{User: &user}, want: AccessDenied},
		{name: "admin", snap: Snapshot{User: &admin}, want: AccessGranted},
		{name: "admin sub-role", snap: Snapshot{User: &subAdmin}, want: AccessGranted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Gate(account.RoleAdmin))
		})
	}
}
