package entity

import (
	"time"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field
//
// Users are created once at registration and never mutated afterwards.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
}
