package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/token"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/metrics"
)

// Profile identifies the user a session is issued for.
type Profile struct {
	ID       string
	Username string
	Email    string
}

// Issued is returned to the client after register, login or create-session.
type Issued struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Verification struct {
	UserID string `json:"userId"`
	Valid  bool   `json:"valid"`
}

// Manager ties the token codec to the session store. The store is the
// authority on liveness: a correctly signed token with no live record is
// rejected.
type Manager struct {
	codec *token.Codec
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

func NewManager(codec *token.Codec, store Store, now func() time.Time, log zerolog.Logger) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		codec: codec,
		store: store,
		now:   now,
		log:   log.With().Str("component", "session").Logger(),
	}
}

func (m *Manager) Issue(ctx context.Context, p Profile) (issued *Issued, err error) {
	defer func() { metrics.SessionOps.WithLabelValues("issue", metrics.Outcome(err)).Inc() }()

	signed, claims, err := m.codec.Issue(p.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s := Session{
		Token:     signed,
		UserID:    p.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := m.store.Put(ctx, s); err != nil {
		m.log.Error().Err(err).Str("user_id", p.ID).Msg("store session")
		return nil, apperr.Storage(err)
	}
	return &Issued{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Token:     signed,
		ExpiresAt: s.ExpiresAt,
	}, nil
}

// Verify accepts a token only if it decodes and a live session with the same
// subject is stored under it. Every rejection is the same InvalidToken.
func (m *Manager) Verify(ctx context.Context, tok string) (v *Verification, err error) {
	defer func() { metrics.SessionOps.WithLabelValues("verify", metrics.Outcome(err)).Inc() }()

	claims, err := m.codec.Decode(tok)
	if err != nil {
		return nil, apperr.InvalidToken("")
	}
	s, err := m.store.Get(ctx, tok)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.InvalidToken("")
	}
	if err != nil {
		m.log.Error().Err(err).Msg("load session")
		return nil, apperr.Storage(err)
	}
	if !s.Live(m.now()) || s.UserID != claims.UserID {
		return nil, apperr.InvalidToken("")
	}
	return &Verification{UserID: s.UserID, Valid: true}, nil
}

// Revoke deletes the session. Revoking an unknown token is InvalidToken.
func (m *Manager) Revoke(ctx context.Context, tok string) (err error) {
	defer func() { metrics.SessionOps.WithLabelValues("revoke", metrics.Outcome(err)).Inc() }()

	err = m.store.Delete(ctx, tok)
	if errors.Is(err, ErrNotFound) {
		return apperr.InvalidToken("")
	}
	if err != nil {
		m.log.Error().Err(err).Msg("delete session")
		return apperr.Storage(err)
	}
	return nil
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := m.store.DeleteExpired(ctx, m.now())
			if err != nil {
				m.log.Warn().Err(err).Msg("purge expired sessions")
				continue
			}
			if n > 0 {
				m.log.Info().Int64("purged", n).Msg("expired sessions purged")
			}
		}
	}
}
