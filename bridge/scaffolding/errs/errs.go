// Package errs provides the error value handlers return to the web layer.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode classifies an error for transport.
type ErrCode int

const (
	Internal ErrCode = iota
	InvalidArgument
	NotFound
	Unauthenticated
	PermissionDenied
	// InternalOnlyLog is logged with its detail but rendered as a generic 500.
	InternalOnlyLog
)

var codeNames = map[ErrCode]string{
	Internal:         "internal",
	InvalidArgument:  "invalid_argument",
	NotFound:         "not_found",
	Unauthenticated:  "unauthenticated",
	PermissionDenied: "permission_denied",
	InternalOnlyLog:  "internal_only_log",
}

// Permission failures answer 401 rather than 403; existing clients key off it.
var httpStatus = map[ErrCode]int{
	Internal:         http.StatusInternalServerError,
	InvalidArgument:  http.StatusBadRequest,
	NotFound:         http.StatusNotFound,
	Unauthenticated:  http.StatusUnauthorized,
	PermissionDenied: http.StatusUnauthorized,
	InternalOnlyLog:  http.StatusInternalServerError,
}

func (c ErrCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is an application error carrying the code and the call site that raised it.
type Error struct {
	Code     ErrCode `json:"-"`
	Message  string  `json:"error"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New wraps err with code, recording the caller.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)
	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf builds an error from a format string, recording the caller.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)
	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Encode implements web.Encoder.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

// HTTPStatus implements the web layer's status hook.
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsError reports whether err is, or wraps, an *Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// GetError returns the *Error inside err, or nil.
func GetError(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	return e
}
