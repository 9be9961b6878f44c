package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jrazmi/taskwire/bridge/scaffolding/errs"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code errs.ErrCode
		want int
	}{
		{errs.InvalidArgument, http.StatusBadRequest},
		{errs.NotFound, http.StatusNotFound},
		{errs.Unauthenticated, http.StatusUnauthorized},
		{errs.PermissionDenied, http.StatusUnauthorized},
		{errs.Internal, http.StatusInternalServerError},
		{errs.InternalOnlyLog, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := errs.Newf(tt.code, "x").HTTPStatus(); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestEncodeHidesInternals(t *testing.T) {
	e := errs.New(errs.NotFound, errors.New("task not found"))

	data, ct, err := e.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if string(data) != `{"error":"task not found"}` {
		t.Errorf("body = %s", data)
	}
	if !strings.Contains(e.FileName, "errs_test.go") {
		t.Errorf("file name = %q, want caller file", e.FileName)
	}
}

func TestGetError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", errs.Newf(errs.PermissionDenied, "no"))

	if !errs.IsError(wrapped) {
		t.Fatal("IsError = false for wrapped *Error")
	}
	if got := errs.GetError(wrapped); got == nil || got.Code != errs.PermissionDenied {
		t.Fatalf("GetError = %+v", got)
	}
	if errs.GetError(errors.New("plain")) != nil {
		t.Fatal("GetError returned value for plain error")
	}
}
