// Package fopbridge holds response shapes shared by every bridge.
package fopbridge

import (
	"encoding/json"
	"net/http"
)

// RecordID is the data model used when returning a deleted or created ID.
type RecordID struct {
	ID string `json:"id"`
}

func NewRecordID(id string) RecordID {
	return RecordID{ID: id}
}

func (r RecordID) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// StatusResponse reports service health.
type StatusResponse struct {
	Status string `json:"status"`
	Build  string `json:"build,omitempty"`
	code   int
}

func NewStatusResponse(status, build string, code int) StatusResponse {
	return StatusResponse{Status: status, Build: build, code: code}
}

func (s StatusResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

func (s StatusResponse) HTTPStatus() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}
