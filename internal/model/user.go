package model

import (
	"fmt"
	"time"
)

// User is an API account. Accounts only matter when token auth is enabled.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MinPasswordLength is the shortest password accepted on change.
const MinPasswordLength = 8

// ValidatePassword checks a new password against the length policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("new_password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}
