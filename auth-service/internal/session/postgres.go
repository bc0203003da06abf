package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Schema creates the sessions table.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	issued_at  TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);
CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);
`

// PostgresStore is the durable session store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Put(ctx context.Context, s Session) error {
	query := `
		INSERT INTO sessions (token, user_id, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			issued_at = EXCLUDED.issued_at,
			expires_at = EXCLUDED.expires_at
	`
	if _, err := p.db.ExecContext(ctx, query, s.Token, s.UserID, s.IssuedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	query := `SELECT token, user_id, issued_at, expires_at FROM sessions WHERE token = $1`
	var s Session
	err := p.db.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.UserID, &s.IssuedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) Delete(ctx context.Context, token string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return result.RowsAffected()
}
