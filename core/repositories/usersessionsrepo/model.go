package usersessionsrepo

import "time"

// UserSession is an opaque bearer token bound to a user until ExpiresAt.
type UserSession struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the session is no longer usable at now.
func (s UserSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
