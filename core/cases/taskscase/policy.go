package taskscase

import "github.com/jrazmi/taskwire/core/repositories/tasksrepo"

// CanView reports whether userID may see task.
func CanView(userID string, task tasksrepo.Task) bool {
	return isCreator(userID, task) || isAssignee(userID, task)
}

// CanUpdate reports whether userID may change task's content fields.
func CanUpdate(userID string, task tasksrepo.Task) bool {
	return isCreator(userID, task) || isAssignee(userID, task)
}

// CanDelete reports whether userID may remove task. Assignees may not.
func CanDelete(userID string, task tasksrepo.Task) bool {
	return isCreator(userID, task)
}

// CanReassign reports whether userID may change who task is assigned to.
func CanReassign(userID string, task tasksrepo.Task) bool {
	return isCreator(userID, task)
}

func isCreator(userID string, task tasksrepo.Task) bool {
	return userID != "" && task.CreatedBy == userID
}

func isAssignee(userID string, task tasksrepo.Task) bool {
	return userID != "" && task.AssignedTo != nil && *task.AssignedTo == userID
}
