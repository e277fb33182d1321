// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import (
	"strings"
	"time"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/pkg/uuid"
)

// VerificationToken is a single-use, time-bounded proof of mailbox ownership.
// Consumed tokens are kept for audit rather than deleted.
type VerificationToken struct {
	ID        string     `json:"id"`
	AccountID string     `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Used      bool       `json:"is_used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewVerificationToken creates an unused token. The expiry must lie in the
// future; issuing an already-expired token is a programming error.
func NewVerificationToken(accountID, token string, expiresAt time.Time) (*VerificationToken, error) {
	verificationToken := &VerificationToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		Used:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := verificationToken.validate(); err != nil {
		return nil, err
	}
	if !expiresAt.After(time.Now()) {
		return nil, apperr.ValidationError("Expiration date must be in the future")
	}
	return verificationToken, nil
}

// LoadVerificationToken reconstructs a token from storage. Unlike creation it
// does not reject past expiries: expired rows must remain loadable so the
// confirmation workflow can report them as expired instead of missing.
func LoadVerificationToken(
	id, accountID, token string,
	expiresAt time.Time,
	used bool,
	usedAt *time.Time,
	createdAt time.Time,
) (*VerificationToken, error) {
	verificationToken := &VerificationToken{
		ID:        id,
		AccountID: accountID,
		Token:     token,
		ExpiresAt: expiresAt,
		Used:      used,
		UsedAt:    usedAt,
		CreatedAt: createdAt,
	}
	if err := verificationToken.validate(); err != nil {
		return nil, err
	}
	return verificationToken, nil
}

// MarkUsed consumes the token, recording when. A token can be consumed once.
func (verificationToken *VerificationToken) MarkUsed() error {
	if verificationToken.Used {
		return apperr.Unprocessable("Verification token has expired or has already been used")
	}
	now := time.Now().UTC()
	verificationToken.Used = true
	verificationToken.UsedAt = &now
	return nil
}

// Valid reports whether the token can still be consumed: never used and not
// past its expiry. Exactly at the expiry instant the token is still valid.
func (verificationToken *VerificationToken) Valid() bool {
	return !verificationToken.Used && !time.Now().After(verificationToken.ExpiresAt)
}

func (verificationToken *VerificationToken) validate() error {
	if strings.TrimSpace(verificationToken.AccountID) == "" {
		return apperr.ValidationError("UserId cannot be empty")
	}
	if strings.TrimSpace(verificationToken.Token) == "" {
		return apperr.ValidationError("Token cannot be empty")
	}
	return nil
}
