// Copyright (c) 2026 TaskHive. All rights reserved.

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Hasher Errors

var (
	// ErrEmptyPassword is returned when an empty password is hashed or verified.
	ErrEmptyPassword = errors.New("sec: password cannot be empty")

	// ErrEmptyHash is returned when verification is attempted against an empty hash.
	ErrEmptyHash = errors.New("sec: hash cannot be empty")

	// ErrMalformedHash is returned when the stored hash is not a valid bcrypt
	// encoded string.
	ErrMalformedHash = errors.New("sec: malformed password hash")
)

// Hasher performs one-way, salted, adaptive-cost password hashing using bcrypt.
//
// The cost factor is configurable; a higher cost strictly increases the
// wall-clock time per call without changing the contract. Each call to Hash
// generates a fresh random salt, so hashing the same password twice yields
// two different strings.
type Hasher struct {
	cost int
}

// NewHasher creates a [Hasher] with the given bcrypt cost factor.
// Costs outside bcrypt's supported range are clamped to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a plain-text password. The salt and cost factor are embedded in
// the encoded output, so no separate salt storage is needed.
func (h *Hasher) Hash(plainTextPassword string) (string, error) {
	if plainTextPassword == "" {
		return "", ErrEmptyPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with its hashed version.
//
// A credential mismatch returns (false, nil). Empty inputs and hashes that
// are not bcrypt-encoded return an error instead, so callers can distinguish
// a wrong password from corrupted stored data.
func (h *Hasher) Verify(plainTextPassword, existingHash string) (bool, error) {
	if plainTextPassword == "" {
		return false, ErrEmptyPassword
	}
	if existingHash == "" {
		return false, ErrEmptyHash
	}

	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	// Any other bcrypt failure means the stored value is not a valid hash.
	return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
}
