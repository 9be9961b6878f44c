package usersrepo_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
	"github.com/jrazmi/taskwire/sdk/logger"
)

type memStore struct {
	users   map[string]usersrepo.User
	queried [][]string
}

func (m *memStore) Create(ctx context.Context, u usersrepo.User) (usersrepo.User, error) {
	m.users[u.UserID] = u
	return u, nil
}

func (m *memStore) Get(ctx context.Context, id string) (usersrepo.User, error) {
	return m.users[id], nil
}

func (m *memStore) QueryByIDs(ctx context.Context, ids []string) ([]usersrepo.User, error) {
	m.queried = append(m.queried, ids)
	var out []usersrepo.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestCreateNormalizes(t *testing.T) {
	store := &memStore{users: map[string]usersrepo.User{}}
	repo := usersrepo.NewRepository(logger.NewDiscard(), store)

	user, err := repo.Create(context.Background(), usersrepo.CreateUser{Name: "  Ada ", Email: " Ada@Example.COM "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(user.UserID); err != nil {
		t.Fatalf("user id %q is not a uuid", user.UserID)
	}
	if user.Name != "Ada" || user.Email != "ada@example.com" {
		t.Fatalf("user = %+v", user)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	repo := usersrepo.NewRepository(logger.NewDiscard(), &memStore{users: map[string]usersrepo.User{}})
	_, err := repo.Create(context.Background(), usersrepo.CreateUser{Name: "Ada"})
	if !errors.Is(err, usersrepo.ErrInvalidUser) {
		t.Fatalf("err = %v, want ErrInvalidUser", err)
	}
}

func TestQueryByIDs(t *testing.T) {
	store := &memStore{users: map[string]usersrepo.User{
		"a": {UserID: "a", Name: "A"},
		"b": {UserID: "b", Name: "B"},
	}}
	repo := usersrepo.NewRepository(logger.NewDiscard(), store)

	got, err := repo.QueryByIDs(context.Background(), []string{"a", "", "b", "a", "ghost"})
	if err != nil {
		t.Fatalf("QueryByIDs: %v", err)
	}
	if len(got) != 2 || got["a"].Name != "A" || got["b"].Name != "B" {
		t.Fatalf("got = %+v", got)
	}

	sent := append([]string(nil), store.queried[0]...)
	sort.Strings(sent)
	if len(sent) != 3 || sent[0] != "a" || sent[1] != "b" || sent[2] != "ghost" {
		t.Fatalf("store queried with %v", store.queried[0])
	}

	empty, err := repo.QueryByIDs(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty query = %v, %v", empty, err)
	}
	if len(store.queried) != 1 {
		t.Fatal("store should not be hit for an empty id list")
	}
}
