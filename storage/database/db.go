package database

import (
	"database/sql"
	"io"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/session"
	inmemdb "github.com/rogerjeasy/letusconnect/storage/database/inmem"
	sqlxrepos "github.com/rogerjeasy/letusconnect/storage/database/sqlx"
)

// Engines
const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_session (
    id         TEXT PRIMARY KEY,
    user_data  TEXT NOT NULL,
    token      TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_session_updated_at ON user_session(updated_at);
`

func init() {
	sqlx.BindDriver(EngineSQLite, sqlx.QUESTION)
}

func postgresURL(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   EnginePostgres,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the configured SQL engine and creates the schema when missing.
func Open(conf *core.Config) (*sqlx.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch conf.Database.Engine {
	case EngineSQLite:
		db, err = sql.Open("sqlite", conf.Database.Path)
		if err == nil {
			db.SetMaxOpenConns(1) // sqlite allows a single writer
		}
	case EnginePostgres:
		db, err = sql.Open("postgres", postgresURL(conf))
	default:
		return nil, errors.Errorf("unsupported SQL engine %q", conf.Database.Engine)
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	dbx := sqlx.NewDb(db, conf.Database.Engine)
	if err = ping(dbx.DB); err != nil {
		_ = dbx.Close()
		return nil, err
	}
	if err = Migrate(dbx); err != nil {
		_ = dbx.Close()
		return nil, err
	}
	return dbx, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate creates the session table. It is safe to run on every start.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSessionStore returns the session store of the configured engine.
// The closer releases the underlying database.
func NewSessionStore(conf *core.Config) (session.Store, io.Closer, error) {
	if conf.Database.Engine == EngineMemory {
		return inmemdb.NewSessionRepository(inmemdb.Open()), nopCloser{}, nil
	}
	db, err := Open(conf)
	if err != nil {
		return nil, nil, err
	}
	return sqlxrepos.NewSessionRepository(db), db, nil
}
