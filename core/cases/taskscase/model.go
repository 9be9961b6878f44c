package taskscase

import (
	"time"

	"github.com/jrazmi/taskwire/core/repositories/tasksrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
)

// Lifecycle events published for every successful write.
const (
	EventTaskCreated = "taskCreated"
	EventTaskUpdated = "taskUpdated"
	EventTaskDeleted = "taskDeleted"
)

// UserSummary is the display form of a user embedded in tasks.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task is a task with its user references resolved.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     time.Time    `json:"dueDate"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	AssignedTo  *UserSummary `json:"assignedTo"`
	CreatedBy   UserSummary  `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask is the input for creating a task. DueDate is parsed by Create.
type NewTask struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	AssignedTo  *string
}

// TaskPatch holds the fields a caller may change. Nil fields are left as
// they are. ClearAssignee removes the assignee and wins over AssignedTo.
// Immutable lists fields the caller tried to set that never change; Update
// rejects the patch once the task and the caller's rights are checked.
type TaskPatch struct {
	Title         *string
	Description   *string
	DueDate       *string
	Priority      *string
	Status        *string
	AssignedTo    *string
	ClearAssignee bool
	Immutable     []string
}

// normalized canonicalizes the assignee. A blank assignee clears it.
func (p TaskPatch) normalized() TaskPatch {
	if p.AssignedTo == nil {
		return p
	}
	p.AssignedTo = normalizeAssignee(p.AssignedTo)
	if p.AssignedTo == nil {
		p.ClearAssignee = true
	}
	return p
}

// changesAssignee reports whether applying p would move the task to a
// different assignee.
func (p TaskPatch) changesAssignee(current *string) bool {
	switch {
	case p.ClearAssignee:
		return current != nil
	case p.AssignedTo == nil:
		return false
	case current == nil:
		return true
	default:
		return *current != *p.AssignedTo
	}
}

func summarize(id string, users map[string]usersrepo.User) UserSummary {
	u, ok := users[id]
	if !ok {
		return UserSummary{ID: id}
	}
	return UserSummary{ID: u.UserID, Name: u.Name, Email: u.Email}
}

func toTask(t tasksrepo.Task, users map[string]usersrepo.User) Task {
	out := Task{
		ID:          t.TaskID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedBy:   summarize(t.CreatedBy, users),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		s := summarize(*t.AssignedTo, users)
		out.AssignedTo = &s
	}
	return out
}

// userIDs lists every user referenced by tasks.
func userIDs(tasks ...tasksrepo.Task) []string {
	ids := make([]string, 0, len(tasks)*2)
	for _, t := range tasks {
		ids = append(ids, t.CreatedBy)
		if t.AssignedTo != nil {
			ids = append(ids, *t.AssignedTo)
		}
	}
	return ids
}
