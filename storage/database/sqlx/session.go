package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core/session"
)

// sessionRow is a session as stored in the `user_session` table; `updated_at` holds unix nanoseconds.
type sessionRow struct {
	ID        string `db:"id"`
	UserData  string `db:"user_data"`
	Token     string `db:"token"`
	UpdatedAt int64  `db:"updated_at"`
}

func toRow(rec session.Record) (sessionRow, error) {
	data, err := json.Marshal(rec.User)
	if err != nil {
		return sessionRow{}, errors.Wrap(err, "encoding user")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	return sessionRow{ID: rec.ID, UserData: string(data), Token: rec.Token, UpdatedAt: rec.UpdatedAt.UnixNano()}, nil
}

func (row sessionRow) record() (session.Record, error) {
	rec := session.Record{ID: row.ID, Token: row.Token, UpdatedAt: time.Unix(0, row.UpdatedAt).UTC()}
	if err := json.Unmarshal([]byte(row.UserData), &rec.User); err != nil {
		return session.Record{}, errors.Wrapf(err, "decoding user of session %s", row.ID)
	}
	return rec, nil
}

// sessionRepository stores sessions through sqlx. Queries are written with `?`
// placeholders and rebound for the driver, so it serves both Postgres and SQLite.
type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Store = (*sessionRepository)(nil)

func NewSessionRepository(db *sqlx.DB) session.Store {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) Load(ctx context.Context, id string) (session.Record, error) {
	var row sessionRow
	q := repo.db.Rebind(`SELECT id, user_data, token, updated_at FROM user_session WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Record{}, session.ErrNotFound
		}
		return session.Record{}, errors.Wrap(err, "selecting session")
	}
	return row.record()
}

func (repo *sessionRepository) Save(ctx context.Context, rec session.Record) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	q := `INSERT INTO user_session (id, user_data, token, updated_at)
		VALUES (:id, :user_data, :token, :updated_at)
		ON CONFLICT (id) DO UPDATE SET user_data = excluded.user_data, token = excluded.token, updated_at = excluded.updated_at`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (repo *sessionRepository) Delete(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM user_session WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (repo *sessionRepository) List(ctx context.Context) ([]session.Record, error) {
	var rows []sessionRow
	q := `SELECT id, user_data, token, updated_at FROM user_session ORDER BY updated_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting sessions")
	}
	recs := make([]session.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *sessionRepository) Purge(ctx context.Context, before time.Time) (int, error) {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM user_session WHERE updated_at < ?`), before.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "purging sessions")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "purging sessions")
	}
	return int(n), nil
}
