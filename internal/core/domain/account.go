package domain

import (
	"errors"
	"time"
)

var ErrAccountExists = errors.New("account already exists")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is the credential record owned by the identity side of the system.
// It is deliberately separate from Profile: an account proves who you are,
// a profile records what you may do.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
