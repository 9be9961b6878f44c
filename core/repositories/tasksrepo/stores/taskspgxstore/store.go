// Package taskspgxstore implements tasksrepo.Storer on postgres.
package taskspgxstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskwire/core/repositories"
	"github.com/jrazmi/taskwire/core/repositories/tasksrepo"
	"github.com/jrazmi/taskwire/infrastructure/postgresdb"
	"github.com/jrazmi/taskwire/sdk/logger"
)

const columns = `task_id, title, description, due_date, priority, status, assigned_to, created_by, created_at, updated_at`

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

func (s *Store) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	query := `INSERT INTO tasks (` + columns + `)
		VALUES (@task_id, @title, @description, @due_date, @priority, @status, @assigned_to, @created_by, @created_at, @updated_at)
		RETURNING ` + columns

	args := pgx.NamedArgs{
		"task_id":     task.TaskID,
		"title":       task.Title,
		"description": task.Description,
		"due_date":    task.DueDate,
		"priority":    task.Priority,
		"status":      task.Status,
		"assigned_to": task.AssignedTo,
		"created_by":  task.CreatedBy,
		"created_at":  task.CreatedAt,
		"updated_at":  task.UpdatedAt,
	}

	return s.queryOne(ctx, query, args)
}

func (s *Store) Get(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return tasksrepo.Task{}, repositories.ErrNotFound
	}

	query := `SELECT ` + columns + `
		FROM tasks
		WHERE task_id = @task_id`

	return s.queryOne(ctx, query, pgx.NamedArgs{"task_id": taskID})
}

func (s *Store) ListVisibleTo(ctx context.Context, userID string) ([]tasksrepo.Task, error) {
	query := `SELECT ` + columns + `
		FROM tasks
		WHERE created_by = @user_id OR assigned_to = @user_id
		ORDER BY created_at DESC, task_id DESC`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return tasks, nil
}

func (s *Store) Update(ctx context.Context, taskID string, input tasksrepo.UpdateTask, updatedAt time.Time) (tasksrepo.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return tasksrepo.Task{}, repositories.ErrNotFound
	}

	query := `UPDATE tasks SET
			title = @title,
			description = @description,
			due_date = @due_date,
			priority = @priority,
			status = @status,
			assigned_to = @assigned_to,
			updated_at = @updated_at
		WHERE task_id = @task_id
		RETURNING ` + columns

	args := pgx.NamedArgs{
		"task_id":     taskID,
		"title":       input.Title,
		"description": input.Description,
		"due_date":    input.DueDate,
		"priority":    input.Priority,
		"status":      input.Status,
		"assigned_to": input.AssignedTo,
		"updated_at":  updatedAt,
	}

	return s.queryOne(ctx, query, args)
}

func (s *Store) Delete(ctx context.Context, taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return repositories.ErrNotFound
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE task_id = @task_id`, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}

	return nil
}

func (s *Store) queryOne(ctx context.Context, query string, args pgx.NamedArgs) (tasksrepo.Task, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tasksrepo.Task{}, repositories.ErrNotFound
		}
		return tasksrepo.Task{}, fmt.Errorf("collect task: %w", postgresdb.HandlePgError(err))
	}

	return task, nil
}
