package usersessionsrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrazmi/taskwire/core/repositories"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo"
	"github.com/jrazmi/taskwire/sdk/logger"
)

type memStore map[string]usersessionsrepo.UserSession

func (m memStore) Create(ctx context.Context, s usersessionsrepo.UserSession) (usersessionsrepo.UserSession, error) {
	m[s.Token] = s
	return s, nil
}

func (m memStore) Get(ctx context.Context, token string) (usersessionsrepo.UserSession, error) {
	s, ok := m[token]
	if !ok {
		return usersessionsrepo.UserSession{}, repositories.ErrNotFound
	}
	return s, nil
}

func (m memStore) Delete(ctx context.Context, token string) error {
	if _, ok := m[token]; !ok {
		return repositories.ErrNotFound
	}
	delete(m, token)
	return nil
}

func TestIssueAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := usersessionsrepo.NewRepository(logger.NewDiscard(), memStore{},
		usersessionsrepo.WithClock(func() time.Time { return now }))

	session, err := repo.Issue(ctx, "user-a", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(session.Token) == 0 {
		t.Fatal("empty token")
	}
	if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %v", session.ExpiresAt)
	}

	userID, err := repo.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if userID != "user-a" {
		t.Fatalf("user id = %q, want user-a", userID)
	}

	now = now.Add(time.Hour)
	if _, err := repo.Authenticate(ctx, session.Token); !errors.Is(err, usersessionsrepo.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	repo := usersessionsrepo.NewRepository(logger.NewDiscard(), memStore{})

	for _, token := range []string{"", "missing"} {
		if _, err := repo.Authenticate(context.Background(), token); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("Authenticate(%q) err = %v, want ErrNotFound", token, err)
		}
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	repo := usersessionsrepo.NewRepository(logger.NewDiscard(), memStore{})

	session, err := repo.Issue(ctx, "user-a", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := repo.Revoke(ctx, session.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := repo.Authenticate(ctx, session.Token); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after revoke", err)
	}
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	repo := usersessionsrepo.NewRepository(logger.NewDiscard(), memStore{})
	if _, err := repo.Issue(context.Background(), "user-a", 0); !errors.Is(err, usersessionsrepo.ErrInvalidTTL) {
		t.Fatalf("err = %v, want ErrInvalidTTL", err)
	}
}
