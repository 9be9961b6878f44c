// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/jrazmi/taskwire/infrastructure/web"
)

type ctxKey int

const (
	userIDKey ctxKey = iota + 1
)

// ErrNoUser is returned by GetUserID outside an authenticated route.
var ErrNoUser = errors.New("user id not found in context")

// SetUserID stores the authenticated user id. Exported for handler tests.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id from the context.
func GetUserID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(userIDKey).(string)
	if !ok || v == "" {
		return "", ErrNoUser
	}

	return v, nil
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}

type httpStatus interface {
	HTTPStatus() int
}
