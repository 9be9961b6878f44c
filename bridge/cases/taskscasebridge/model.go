package taskscasebridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrazmi/taskwire/core/cases/taskscase"
)

// Task is the wire form of a task.
type Task taskscase.Task

// CreateTaskInput is the body of POST /tasks.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	AssignedTo  *string `json:"assignedTo"`
}

// ErrFieldType is wrapped in a FieldError when a patchable field is not a string.
var ErrFieldType = errors.New("must be a string")

// FieldError names the update body field that was rejected.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var immutableFields = []string{"id", "_id", "createdBy", "createdAt", "updatedAt"}

// UpdateTaskInput is the body of PUT /tasks/{task_id}. Keys outside the
// patchable set are ignored; "assignedTo": null clears the assignee.
// Immutable keys are recorded on the patch and refused by the case.
type UpdateTaskInput struct {
	Patch taskscase.TaskPatch
}

// Decode implements web.Decoder.
func (u *UpdateTaskInput) Decode(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, key := range immutableFields {
		if _, ok := raw[key]; ok {
			u.Patch.Immutable = append(u.Patch.Immutable, key)
		}
	}

	fields := map[string]**string{
		"title":       &u.Patch.Title,
		"description": &u.Patch.Description,
		"dueDate":     &u.Patch.DueDate,
		"priority":    &u.Patch.Priority,
		"status":      &u.Patch.Status,
	}
	for key, dst := range fields {
		value, ok := raw[key]
		if !ok {
			continue
		}
		s, err := decodeString(key, value)
		if err != nil {
			return err
		}
		*dst = &s
	}

	if value, ok := raw["assignedTo"]; ok {
		if isNull(value) {
			u.Patch.ClearAssignee = true
		} else {
			s, err := decodeString("assignedTo", value)
			if err != nil {
				return err
			}
			u.Patch.AssignedTo = &s
		}
	}

	return nil
}

func decodeString(key string, value json.RawMessage) (string, error) {
	var s string
	if isNull(value) {
		return "", &FieldError{Field: key, Err: ErrFieldType}
	}
	if err := json.Unmarshal(value, &s); err != nil {
		return "", &FieldError{Field: key, Err: ErrFieldType}
	}
	return s, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
