package models

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate only checks presence; the email is a bearer identity and is
// compared byte for byte.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email required")
	}
	return nil
}
