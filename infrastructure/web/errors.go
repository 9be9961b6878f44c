package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body every failure is rendered as.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"-"`
}

func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Status: http.StatusInternalServerError}
}

// NewErrorWithStatus builds an error body for a specific status code.
func NewErrorWithStatus(msg string, status int) ErrorResponse {
	return ErrorResponse{Error: msg, Status: status}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}
