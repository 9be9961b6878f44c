// Package taskscase owns the task lifecycle: who may do what to a task, and
// the event published after each successful write.
package taskscase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jrazmi/taskwire/core/repositories"
	"github.com/jrazmi/taskwire/core/repositories/tasksrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
	"github.com/jrazmi/taskwire/sdk/logger"
	"github.com/jrazmi/taskwire/sdk/validation"
)

// Publisher broadcasts lifecycle events. Delivery is best effort and
// Publish must not block on slow receivers.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any)
}

// TaskRepository is the task storage the case works against.
type TaskRepository interface {
	Create(ctx context.Context, input tasksrepo.CreateTask) (tasksrepo.Task, error)
	Get(ctx context.Context, taskID string) (tasksrepo.Task, error)
	ListVisibleTo(ctx context.Context, userID string) ([]tasksrepo.Task, error)
	Update(ctx context.Context, taskID string, input tasksrepo.UpdateTask) (tasksrepo.Task, error)
	Delete(ctx context.Context, taskID string) error
}

// UserDirectory resolves user ids to users.
type UserDirectory interface {
	QueryByIDs(ctx context.Context, ids []string) (map[string]usersrepo.User, error)
}

type Case struct {
	log       *logger.Logger
	tasks     TaskRepository
	users     UserDirectory
	publisher Publisher
}

func NewCase(log *logger.Logger, tasks TaskRepository, users UserDirectory, publisher Publisher) *Case {
	return &Case{
		log:       log,
		tasks:     tasks,
		users:     users,
		publisher: publisher,
	}
}

// Create validates input, stores a task owned by requester and publishes
// taskCreated.
func (c *Case) Create(ctx context.Context, requester string, input NewTask) (Task, error) {
	if missing := validation.MissingFields(
		validation.Field{Name: "title", Value: input.Title},
		validation.Field{Name: "description", Value: input.Description},
		validation.Field{Name: "dueDate", Value: input.DueDate},
		validation.Field{Name: "priority", Value: input.Priority},
	); len(missing) > 0 {
		c.log.DebugContext(ctx, "create task rejected", "missing", missing)
		return Task{}, newError(ErrValidation, "Please provide all required fields")
	}

	dueDate, err := validation.ParseFlexibleDate(strings.TrimSpace(input.DueDate))
	if err != nil {
		return Task{}, newError(ErrValidation, "Invalid dueDate")
	}

	assignee := normalizeAssignee(input.AssignedTo)
	if err := c.checkAssignee(ctx, assignee); err != nil {
		return Task{}, err
	}

	created, err := c.tasks.Create(ctx, tasksrepo.CreateTask{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     dueDate,
		Priority:    input.Priority,
		Status:      strings.TrimSpace(input.Status),
		AssignedTo:  assignee,
		CreatedBy:   requester,
	})
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	task := c.resolve(ctx, created)[0]
	c.publish(ctx, EventTaskCreated, task)

	c.log.InfoContext(ctx, "task created", "task_id", task.ID, "user_id", requester)
	return task, nil
}

// List returns the tasks requester created or is assigned to, newest first.
func (c *Case) List(ctx context.Context, requester string) ([]Task, error) {
	stored, err := c.tasks.ListVisibleTo(ctx, requester)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	visible := stored[:0]
	for _, t := range stored {
		if CanView(requester, t) {
			visible = append(visible, t)
			continue
		}
		c.log.WarnContext(ctx, "list tasks: dropped task not visible to requester", "task_id", t.TaskID, "user_id", requester)
	}

	return c.resolve(ctx, visible...), nil
}

// Update applies patch to the task when requester is its creator or
// assignee, and publishes taskUpdated. Only the creator may reassign.
func (c *Case) Update(ctx context.Context, requester string, taskID string, patch TaskPatch) (Task, error) {
	existing, err := c.get(ctx, taskID)
	if err != nil {
		return Task{}, err
	}

	if !CanUpdate(requester, existing) {
		return Task{}, newError(ErrForbidden, "Not authorized to update this task")
	}

	if len(patch.Immutable) > 0 {
		return Task{}, newError(ErrValidation, "%s cannot be modified", patch.Immutable[0])
	}

	patch = patch.normalized()

	if patch.changesAssignee(existing.AssignedTo) && !CanReassign(requester, existing) {
		return Task{}, newError(ErrForbidden, "Not authorized to reassign this task")
	}

	input, err := c.apply(ctx, existing, patch)
	if err != nil {
		return Task{}, err
	}

	updated, err := c.tasks.Update(ctx, existing.TaskID, input)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Task{}, newError(ErrNotFound, "Task not found")
		}
		return Task{}, fmt.Errorf("update task: %w", err)
	}

	task := c.resolve(ctx, updated)[0]
	c.publish(ctx, EventTaskUpdated, task)

	c.log.InfoContext(ctx, "task updated", "task_id", task.ID, "user_id", requester)
	return task, nil
}

// Delete removes the task when requester created it, and publishes
// taskDeleted with the id.
func (c *Case) Delete(ctx context.Context, requester string, taskID string) (string, error) {
	existing, err := c.get(ctx, taskID)
	if err != nil {
		return "", err
	}

	if !CanDelete(requester, existing) {
		return "", newError(ErrForbidden, "Not authorized to delete this task")
	}

	if err := c.tasks.Delete(ctx, existing.TaskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", newError(ErrNotFound, "Task not found")
		}
		return "", fmt.Errorf("delete task: %w", err)
	}

	c.publish(ctx, EventTaskDeleted, existing.TaskID)

	c.log.InfoContext(ctx, "task deleted", "task_id", existing.TaskID, "user_id", requester)
	return existing.TaskID, nil
}

func (c *Case) get(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	task, err := c.tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return tasksrepo.Task{}, newError(ErrNotFound, "Task not found")
		}
		return tasksrepo.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// apply merges patch onto the stored task. Provided fields may not be blank.
func (c *Case) apply(ctx context.Context, existing tasksrepo.Task, patch TaskPatch) (tasksrepo.UpdateTask, error) {
	input := existing.Mutable()

	for _, f := range []struct {
		name  string
		value *string
		dst   *string
	}{
		{"title", patch.Title, &input.Title},
		{"description", patch.Description, &input.Description},
		{"priority", patch.Priority, &input.Priority},
		{"status", patch.Status, &input.Status},
	} {
		if f.value == nil {
			continue
		}
		if validation.Blank(*f.value) {
			return tasksrepo.UpdateTask{}, newError(ErrValidation, "%s cannot be empty", f.name)
		}
		*f.dst = *f.value
	}

	if patch.DueDate != nil {
		dueDate, err := validation.ParseFlexibleDate(strings.TrimSpace(*patch.DueDate))
		if err != nil {
			return tasksrepo.UpdateTask{}, newError(ErrValidation, "Invalid dueDate")
		}
		input.DueDate = dueDate
	}

	switch {
	case patch.ClearAssignee:
		input.AssignedTo = nil
	case patch.changesAssignee(existing.AssignedTo):
		if err := c.checkAssignee(ctx, patch.AssignedTo); err != nil {
			return tasksrepo.UpdateTask{}, err
		}
		input.AssignedTo = patch.AssignedTo
	}

	return input, nil
}

// checkAssignee verifies a non-nil assignee names a known user.
func (c *Case) checkAssignee(ctx context.Context, assignee *string) error {
	if assignee == nil {
		return nil
	}

	users, err := c.users.QueryByIDs(ctx, []string{*assignee})
	if err != nil {
		return fmt.Errorf("lookup assignee: %w", err)
	}
	if _, ok := users[*assignee]; !ok {
		return newError(ErrValidation, "Assigned user does not exist")
	}

	return nil
}

// resolve attaches user summaries. A directory failure degrades to id-only
// summaries so a completed write is still reported and published.
func (c *Case) resolve(ctx context.Context, stored ...tasksrepo.Task) []Task {
	users, err := c.users.QueryByIDs(ctx, userIDs(stored...))
	if err != nil {
		c.log.WarnContext(ctx, "resolve task users", "error", err)
		users = nil
	}

	out := make([]Task, 0, len(stored))
	for _, t := range stored {
		out = append(out, toTask(t, users))
	}
	return out
}

// publish runs after persistence and must outlive a cancelled request.
func (c *Case) publish(ctx context.Context, event string, payload any) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(context.WithoutCancel(ctx), event, payload)
}

// normalizeAssignee trims id and rewrites uuids in their canonical lowercase
// form, which is how user ids are stored. Blank ids mean no assignee.
func normalizeAssignee(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	if parsed, err := uuid.Parse(trimmed); err == nil {
		trimmed = parsed.String()
	}
	return &trimmed
}
