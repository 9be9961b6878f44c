package usersrepo

import "time"

type User struct {
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateUser contains fields for creating a new user.
type CreateUser struct {
	Name  string
	Email string
}
