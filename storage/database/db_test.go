package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/session"
)

func TestSessionStores(t *testing.T) {
	engines := []struct {
		name string
		conf func(t *testing.T) *core.Config
	}{
		{name: EngineMemory, conf: func(*testing.T) *core.Config {
			conf := &core.Config{}
			conf.Database.Engine = EngineMemory
			return conf
		}},
		{name: EngineSQLite, conf: func(t *testing.T) *core.Config {
			conf := &core.Config{}
			conf.Database.Engine = EngineSQLite
			conf.Database.Path = filepath.Join(t.TempDir(), "sessions.db")
			return conf
		}},
	}
	for _, eng := range engines {
		t.Run(eng.name, func(t *testing.T) {
			store, closer, err := NewSessionStore(eng.conf(t))
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })
			testSessionStore(t, store)
		})
	}
}

func testSessionStore(t *testing.T, store session.Store) {
	ctx := context.Background()
	now := time.Now().UTC()
	usr := account.User{ID: "u1", Username: "ada", Email: "ada@example.com", Role: account.Roles{"admin:faq"}}

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), session.ErrNotFound)

	require.NoError(t, store.Save(ctx, session.Record{ID: "old", User: usr, Token: "t0", UpdatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Save(ctx, session.Record{ID: "s1", User: usr, Token: "t1", UpdatedAt: now}))
	require.NoError(t, store.Save(ctx, session.Record{ID: "s1", User: usr, Token: "t2", UpdatedAt: now}))

	rec, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "t2", rec.Token, "save overwrites")
	assert.Equal(t, usr, rec.User)
	assert.True(t, rec.UpdatedAt.Equal(now))
	assert.True(t, rec.User.IsAdmin())

	recs, err := store.List(ctx)
	require.NoError(t, err)
	if assert.Len(t, recs, 2) {
		assert.Equal(t, "s1", recs[0].ID)
		assert.Equal(t, "old", recs[1].ID)
	}

	n, err := store.Purge(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Delete(ctx, "s1"))
	recs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPostgresURL(t *testing.T) {
	conf := &core.Config{}
	conf.Database.User = "lc"
	conf.Database.Password = "p@ss"
	conf.Database.Host = "db"
	conf.Database.Port = "5432"
	conf.Database.Name = "letusconnect"
	conf.Database.DisableTLS = true

	assert.Equal(t, "postgres://lc:p%40ss@db:5432/letusconnect?sslmode=disable&timezone=utc", postgresURL(conf))
}

func TestOpen_unsupported(t *testing.T) {
	conf := &core.Config{}
	conf.Database.Engine = "oracle"
	_, err := Open(conf)
	assert.Error(t, err)
}
