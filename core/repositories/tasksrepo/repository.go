package tasksrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/taskwire/sdk/logger"
)

// Storer defines the data storage interface for Task.
type Storer interface {
	Create(ctx context.Context, task Task) (Task, error)
	Get(ctx context.Context, taskID string) (Task, error)
	// ListVisibleTo returns tasks created by or assigned to userID, newest first.
	ListVisibleTo(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, taskID string, input UpdateTask, updatedAt time.Time) (Task, error)
	Delete(ctx context.Context, taskID string) error
}

// Repository provides access to task storage. Stores report a missing task
// with repositories.ErrNotFound.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// NewRepository creates a new Task repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create assigns the id and timestamps and persists the task. Ids are
// UUIDv7 so they sort with creation time.
func (r *Repository) Create(ctx context.Context, input CreateTask) (Task, error) {
	now := r.now()

	id, err := uuid.NewV7()
	if err != nil {
		return Task{}, fmt.Errorf("generate task id: %w", err)
	}

	status := input.Status
	if status == "" {
		status = DefaultStatus
	}

	task := Task{
		TaskID:      id.String(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate.UTC(),
		Priority:    input.Priority,
		Status:      status,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := r.storer.Create(ctx, task)
	if err != nil {
		return Task{}, fmt.Errorf("tasks repository create: %w", err)
	}

	r.log.DebugContext(ctx, "task created", "task_id", created.TaskID, "created_by", created.CreatedBy)
	return created, nil
}

func (r *Repository) Get(ctx context.Context, taskID string) (Task, error) {
	task, err := r.storer.Get(ctx, taskID)
	if err != nil {
		return Task{}, fmt.Errorf("tasks repository get: %w", err)
	}
	return task, nil
}

func (r *Repository) ListVisibleTo(ctx context.Context, userID string) ([]Task, error) {
	tasks, err := r.storer.ListVisibleTo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tasks repository list: %w", err)
	}
	return tasks, nil
}

// Update writes the mutable columns and stamps updated_at.
func (r *Repository) Update(ctx context.Context, taskID string, input UpdateTask) (Task, error) {
	input.DueDate = input.DueDate.UTC()

	task, err := r.storer.Update(ctx, taskID, input, r.now())
	if err != nil {
		return Task{}, fmt.Errorf("tasks repository update: %w", err)
	}

	r.log.DebugContext(ctx, "task updated", "task_id", taskID)
	return task, nil
}

func (r *Repository) Delete(ctx context.Context, taskID string) error {
	if err := r.storer.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("tasks repository delete: %w", err)
	}

	r.log.DebugContext(ctx, "task deleted", "task_id", taskID)
	return nil
}
