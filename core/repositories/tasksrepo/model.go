package tasksrepo

import "time"

// Task is the persisted task record. AssignedTo and CreatedBy hold user ids.
type Task struct {
	TaskID      string    `db:"task_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     time.Time `db:"due_date"`
	Priority    string    `db:"priority"`
	Status      string    `db:"status"`
	AssignedTo  *string   `db:"assigned_to"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CreateTask contains fields for creating a new task.
type CreateTask struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	Status      string
	AssignedTo  *string
	CreatedBy   string
}

// UpdateTask carries the mutable columns of a task. Identity and creation
// columns are absent so a write can never change them.
type UpdateTask struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	Status      string
	AssignedTo  *string
}

// DefaultStatus is given to tasks created without one.
const DefaultStatus = "pending"

// Mutable returns the writable view of t.
func (t Task) Mutable() UpdateTask {
	return UpdateTask{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
	}
}
