// Package usersrepo stores the users tasks are created by and assigned to.
package usersrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/taskwire/sdk/logger"
	"github.com/jrazmi/taskwire/sdk/validation"
)

var ErrInvalidUser = errors.New("name and email are required")

// Storer defines the data storage interface for User.
type Storer interface {
	Create(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, userID string) (User, error)
	// QueryByIDs returns the users found among ids. Unknown ids are skipped.
	QueryByIDs(ctx context.Context, ids []string) ([]User, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

func (r *Repository) Create(ctx context.Context, input CreateUser) (User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if missing := validation.MissingFields(
		validation.Field{Name: "name", Value: input.Name},
		validation.Field{Name: "email", Value: input.Email},
	); len(missing) > 0 {
		return User{}, fmt.Errorf("%w: missing %s", ErrInvalidUser, strings.Join(missing, ", "))
	}

	user, err := r.storer.Create(ctx, User{
		UserID:    uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return User{}, fmt.Errorf("users repository create: %w", err)
	}

	r.log.InfoContext(ctx, "user created", "user_id", user.UserID)
	return user, nil
}

func (r *Repository) Get(ctx context.Context, userID string) (User, error) {
	user, err := r.storer.Get(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("users repository get: %w", err)
	}
	return user, nil
}

// QueryByIDs returns the known users among ids keyed by id. Duplicate and
// empty ids are ignored.
func (r *Repository) QueryByIDs(ctx context.Context, ids []string) (map[string]User, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	out := make(map[string]User, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	users, err := r.storer.QueryByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("users repository query by ids: %w", err)
	}
	for _, u := range users {
		out[u.UserID] = u
	}

	return out, nil
}
