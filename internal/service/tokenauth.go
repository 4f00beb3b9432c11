package service

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const minTokenLength = 24

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWeakToken    = errors.New("token does not meet requirements")
)

// TokenAuth checks bearer tokens against a single bcrypt hash. An empty
// hash disables authentication.
type TokenAuth struct {
	hash []byte

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

func NewTokenAuth(hash string) (*TokenAuth, error) {
	a := &TokenAuth{verified: make(map[[sha256.Size]byte]struct{})}
	if hash == "" {
		return a, nil
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid token hash: %w", err)
	}
	a.hash = []byte(hash)
	return a, nil
}

func (a *TokenAuth) Enabled() bool {
	return len(a.hash) > 0
}

// Verify compares token with the configured hash. Accepted tokens are
// remembered by digest so bcrypt runs once per distinct token.
func (a *TokenAuth) Verify(token string) error {
	if !a.Enabled() {
		return nil
	}
	if token == "" {
		return ErrInvalidToken
	}

	digest := sha256.Sum256([]byte(token))
	a.mu.RLock()
	_, ok := a.verified[digest]
	a.mu.RUnlock()
	if ok {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(token)); err != nil {
		return ErrInvalidToken
	}

	a.mu.Lock()
	a.verified[digest] = struct{}{}
	a.mu.Unlock()
	return nil
}

// HashToken returns the bcrypt hash to configure for token.
func HashToken(token string) (string, error) {
	if err := validateTokenStrength(token); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWeakToken, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateTokenStrength(token string) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("must be at least %d characters", minTokenLength)
	}
	if len(token) > 72 {
		return fmt.Errorf("must be at most 72 bytes")
	}
	distinct := make(map[rune]struct{})
	for _, r := range token {
		distinct[r] = struct{}{}
	}
	if len(distinct) < 8 {
		return fmt.Errorf("must contain at least 8 distinct characters")
	}
	return nil
}
