// Copyright (c) 2026 TaskHive. All rights reserved.

/*
Package auth implements the identity and trust layer of TaskHive.

It defines the core domain entities (Account, VerificationToken) and the
workflows for registration, authentication, and email-verification.

# Architecture

This layer is the "Truth" of the system. Entities defined here are only ever
observable in a valid state: every construction path funnels through one
validation routine, and mutators guard their own state transitions.
*/
package auth

import (
	"net/mail"
	"strings"
	"time"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/pkg/uuid"
)

// # Domain Entities

// Account represents a registered identity, password- or externally-authenticated.
type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Explicitly omitted from JSON for security.
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	EmailVerified bool      `json:"is_email_verified"`
	TwoFactor     bool      `json:"two_factor_enabled"`
	Active        bool      `json:"is_active"`
	OAuthProvider string    `json:"oauth_provider,omitempty"`
	OAuthID       string    `json:"oauth_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// # Constructors

// NewAccount creates a fresh email/password account: unverified, without
// two-factor, active. The password hash must already be computed.
func NewAccount(email, passwordHash, firstName, lastName string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:            uuid.New(),
		Email:         normalizeEmail(email),
		PasswordHash:  passwordHash,
		FirstName:     firstName,
		LastName:      lastName,
		EmailVerified: false,
		TwoFactor:     false,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := account.validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// NewExternalAccount creates an account from an externally-authenticated
// identity (OAuth). The provider has already verified the address, so the
// account starts verified and carries no password hash.
func NewExternalAccount(email, firstName, lastName, oauthProvider, oauthID string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:            uuid.New(),
		Email:         normalizeEmail(email),
		FirstName:     firstName,
		LastName:      lastName,
		EmailVerified: true,
		TwoFactor:     false,
		Active:        true,
		OAuthProvider: oauthProvider,
		OAuthID:       oauthID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if oauthProvider == "" {
		return nil, apperr.ValidationError("OAuth provider cannot be empty")
	}
	if err := account.validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// LoadAccount reconstructs an account from storage. It shares the creation
// path's validation routine so a corrupted row can never surface as a
// partially-valid entity.
func LoadAccount(
	id, email, passwordHash, firstName, lastName string,
	emailVerified, twoFactor, active bool,
	oauthProvider, oauthID string,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	account := &Account{
		ID:            id,
		Email:         normalizeEmail(email),
		PasswordHash:  passwordHash,
		FirstName:     firstName,
		LastName:      lastName,
		EmailVerified: emailVerified,
		TwoFactor:     twoFactor,
		Active:        active,
		OAuthProvider: oauthProvider,
		OAuthID:       oauthID,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	if err := account.validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// # State Transitions

// VerifyEmail marks the account's email address as verified.
// Verifying an already-verified account is an error, not a no-op.
func (account *Account) VerifyEmail() error {
	if account.EmailVerified {
		return apperr.Unprocessable("Email is already verified")
	}
	account.EmailVerified = true
	account.touch()
	return nil
}

// EnableTwoFactor turns on two-factor authentication.
func (account *Account) EnableTwoFactor() error {
	if account.TwoFactor {
		return apperr.Unprocessable("Two-factor authentication is already enabled")
	}
	account.TwoFactor = true
	account.touch()
	return nil
}

// DisableTwoFactor turns off two-factor authentication.
func (account *Account) DisableTwoFactor() error {
	if !account.TwoFactor {
		return apperr.Unprocessable("Two-factor authentication is not enabled")
	}
	account.TwoFactor = false
	account.touch()
	return nil
}

// Deactivate suspends the account.
func (account *Account) Deactivate() error {
	if !account.Active {
		return apperr.Unprocessable("Account is already deactivated")
	}
	account.Active = false
	account.touch()
	return nil
}

// Activate reinstates a suspended account.
func (account *Account) Activate() error {
	if account.Active {
		return apperr.Unprocessable("Account is already active")
	}
	account.Active = true
	account.touch()
	return nil
}

// touch refreshes UpdatedAt. Timestamps are monotonically non-decreasing:
// every mutation moves UpdatedAt forward, never back.
func (account *Account) touch() {
	if now := time.Now().UTC(); now.After(account.UpdatedAt) {
		account.UpdatedAt = now
	}
}

// # Validation

// validate is the single validation routine shared by all construction paths.
func (account *Account) validate() error {
	if strings.TrimSpace(account.Email) == "" || !isValidEmail(account.Email) {
		return apperr.ValidationError("Invalid email format")
	}
	if account.OAuthProvider == "" && strings.TrimSpace(account.PasswordHash) == "" {
		return apperr.ValidationError("Password cannot be empty")
	}
	if strings.TrimSpace(account.FirstName) == "" {
		return apperr.ValidationError("FirstName cannot be empty")
	}
	if strings.TrimSpace(account.LastName) == "" {
		return apperr.ValidationError("LastName cannot be empty")
	}
	return nil
}

// normalizeEmail lowercases the address so uniqueness and lookups are
// case-insensitive everywhere.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
