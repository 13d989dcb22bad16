package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerjeasy/letusconnect/core/session"
)

type (
	DB struct {
		session *sessionTable
	}

	sessionTable struct {
		mutex sync.RWMutex
		table map[string]session.Record
	}
)

func Open() *DB {
	return &DB{session: &sessionTable{table: make(map[string]session.Record)}}
}

type sessionRepository struct {
	db *sessionTable
}

var _ session.Store = (*sessionRepository)(nil)

func NewSessionRepository(db *DB) session.Store {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) Load(_ context.Context, id string) (session.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if rec, ok := repo.db.table[id]; ok {
		return rec, nil
	}
	return session.Record{}, session.ErrNotFound
}

func (repo *sessionRepository) Save(_ context.Context, rec session.Record) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	repo.db.table[rec.ID] = rec
	return nil
}

func (repo *sessionRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if _, ok := repo.db.table[id]; !ok {
		return session.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

// List returns the sessions, most recently updated first.
func (repo *sessionRepository) List(_ context.Context) ([]session.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	recs := make([]session.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].UpdatedAt.After(recs[j].UpdatedAt) })
	return recs, nil
}

func (repo *sessionRepository) Purge(_ context.Context, before time.Time) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	var n int
	for id, rec := range repo.db.table {
		if rec.UpdatedAt.Before(before) {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}
