// Package repositories holds what every repository shares.
package repositories

import (
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
)
