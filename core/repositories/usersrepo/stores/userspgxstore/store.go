package userspgxstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskwire/core/repositories"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
	"github.com/jrazmi/taskwire/infrastructure/postgresdb"
	"github.com/jrazmi/taskwire/sdk/logger"
)

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) Create(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	query := `INSERT INTO users (user_id, name, email, created_at)
		VALUES (@user_id, @name, @email, @created_at)
		RETURNING user_id, name, email, created_at`

	args := pgx.NamedArgs{
		"user_id":    user.UserID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	return created, nil
}

func (s *Store) Get(ctx context.Context, userID string) (usersrepo.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return usersrepo.User{}, repositories.ErrNotFound
	}

	query := `SELECT user_id, name, email, created_at
		FROM users
		WHERE user_id = @user_id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usersrepo.User{}, repositories.ErrNotFound
		}
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	return user, nil
}

func (s *Store) QueryByIDs(ctx context.Context, ids []string) ([]usersrepo.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	query := `SELECT user_id, name, email, created_at
		FROM users
		WHERE user_id = ANY(@user_ids::uuid[])`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_ids": valid})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[usersrepo.User])
}
