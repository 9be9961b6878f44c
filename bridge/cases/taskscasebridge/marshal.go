package taskscasebridge

import "github.com/jrazmi/taskwire/core/cases/taskscase"

func MarshalToBridge(task taskscase.Task) Task {
	return Task(task)
}

// MarshalListToBridge never returns nil so an empty list encodes as [].
func MarshalListToBridge(tasks []taskscase.Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = MarshalToBridge(t)
	}
	return out
}

func MarshalCreateToCase(input CreateTaskInput) taskscase.NewTask {
	return taskscase.NewTask{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
	}
}
