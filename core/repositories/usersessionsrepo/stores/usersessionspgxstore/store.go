package usersessionspgxstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskwire/core/repositories"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo"
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

func (s *Store) Create(ctx context.Context, session usersessionsrepo.UserSession) (usersessionsrepo.UserSession, error) {
	query := `INSERT INTO user_sessions (token, user_id, expires_at, created_at)
		VALUES (@token, @user_id, @expires_at, @created_at)
		RETURNING token, user_id, expires_at, created_at`

	args := pgx.NamedArgs{
		"token":      session.Token,
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt,
		"created_at": session.CreatedAt,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersessionsrepo.UserSession])
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}

	return created, nil
}

func (s *Store) Get(ctx context.Context, token string) (usersessionsrepo.UserSession, error) {
	query := `SELECT token, user_id, expires_at, created_at
		FROM user_sessions
		WHERE token = @token`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"token": token})
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	session, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersessionsrepo.UserSession])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usersessionsrepo.UserSession{}, repositories.ErrNotFound
		}
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}

	return session, nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE token = @token`, pgx.NamedArgs{"token": token})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
