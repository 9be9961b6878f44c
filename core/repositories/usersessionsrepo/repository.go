// Package usersessionsrepo issues and resolves the bearer tokens that
// identify API callers.
package usersessionsrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/taskwire/core/repositories"
	"github.com/jrazmi/taskwire/sdk/cryptids"
	"github.com/jrazmi/taskwire/sdk/logger"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidTTL     = errors.New("session ttl must be positive")
)

// Storer defines the data storage interface for UserSession.
type Storer interface {
	Create(ctx context.Context, session UserSession) (UserSession, error)
	Get(ctx context.Context, token string) (UserSession, error)
	Delete(ctx context.Context, token string) error
}

type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock replaces the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func NewRepository(log *logger.Logger, storer Storer, opts ...Option) *Repository {
	r := &Repository{
		log:    log,
		storer: storer,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Issue creates a session for userID that lives for ttl.
func (r *Repository) Issue(ctx context.Context, userID string, ttl time.Duration) (UserSession, error) {
	if ttl <= 0 {
		return UserSession{}, ErrInvalidTTL
	}

	token, err := cryptids.GenerateToken()
	if err != nil {
		return UserSession{}, fmt.Errorf("generate token: %w", err)
	}

	now := r.now()
	session, err := r.storer.Create(ctx, UserSession{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return UserSession{}, fmt.Errorf("user sessions repository create: %w", err)
	}

	r.log.InfoContext(ctx, "session issued", "user_id", userID, "expires_at", session.ExpiresAt)
	return session, nil
}

// Authenticate resolves token to the id of the user it belongs to.
// Unknown tokens return repositories.ErrNotFound, expired ones ErrSessionExpired.
func (r *Repository) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", repositories.ErrNotFound
	}

	session, err := r.storer.Get(ctx, token)
	if err != nil {
		return "", fmt.Errorf("user sessions repository get: %w", err)
	}

	if session.Expired(r.now()) {
		return "", ErrSessionExpired
	}

	return session.UserID, nil
}

// Revoke removes the session so the token stops authenticating.
func (r *Repository) Revoke(ctx context.Context, token string) error {
	if err := r.storer.Delete(ctx, token); err != nil {
		return fmt.Errorf("user sessions repository delete: %w", err)
	}
	return nil
}
