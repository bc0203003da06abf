// Package session owns the lifecycle of login sessions: issue, verify,
// revoke and expiry.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound means no session is stored under the token.
var ErrNotFound = errors.New("session: not found")

// Session is live while now < ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) Live(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Store persists sessions keyed by token. Put overwrites an existing session
// with the same token.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes sessions that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
