// Package operator guards mutating commands behind the operator password.
package operator

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordRequired is returned when a gate is configured but no password was given.
	ErrPasswordRequired = errors.New("operator password required")

	// ErrInvalidPassword is returned when the password does not match the configured hash.
	ErrInvalidPassword = errors.New("invalid operator password")
)

// Gate checks the operator password against a bcrypt hash.
// A zero Gate, with no hash configured, admits everyone.
type Gate struct {
	hash string
}

// NewGate returns a gate for the configured hash. An empty hash disables the gate.
func NewGate(hash string) (*Gate, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("operator.password_hash is not a bcrypt hash: %w", err)
		}
	}
	return &Gate{hash: hash}, nil
}

// Enabled reports whether a password is required.
func (g *Gate) Enabled() bool {
	return g.hash != ""
}

// Check admits the password or returns ErrPasswordRequired / ErrInvalidPassword.
func (g *Gate) Check(password string) error {
	if !g.Enabled() {
		return nil
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(g.hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("failed to verify operator password: %w", err)
	}
	return nil
}

// HashPassword returns a bcrypt hash for the operator.password_hash setting.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
