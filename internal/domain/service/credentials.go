package service

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for new accounts.
const MinPasswordLength = 8

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)

// Credentials hashes and checks user passwords and derives API keys.
type Credentials struct {
	cost int
}

func NewCredentials() *Credentials {
	return &Credentials{cost: bcrypt.DefaultCost}
}

// NewCredentialsWithCost lets tests use bcrypt.MinCost.
func NewCredentialsWithCost(cost int) *Credentials {
	return &Credentials{cost: cost}
}

// MakeAPIKey derives the Fever-style API key: lowercase hex MD5 of
// "username:password".
func (c *Credentials) MakeAPIKey(username, password string) string {
	sum := md5.Sum([]byte(username + ":" + password))
	return hex.EncodeToString(sum[:])
}

// NormalizeAPIKey lowercases keys; clients may send them uppercase.
func (c *Credentials) NormalizeAPIKey(apiKey string) string {
	return strings.ToLower(strings.TrimSpace(apiKey))
}

func (c *Credentials) ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func (c *Credentials) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is a
// mismatch, not an error.
func (c *Credentials) CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
		return false, nil
	default:
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
}
