package models

import (
	"errors"
	"strings"
	"time"
)

// User is a registered shop customer. Authentication flows live outside this
// application; the platform only needs to resolve ownership of arrangements
// and orders.
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Validate validates the user data
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}

	if !strings.Contains(u.Email, "@") {
		return errors.New("email is invalid")
	}

	if strings.TrimSpace(u.Name) == "" {
		return errors.New("name is required")
	}

	return nil
}
