// Package models holds the server-side storage entities.
package models

import "time"

// User is an account row. PasswordHash is a bcrypt hash; the plaintext
// password never reaches storage.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
