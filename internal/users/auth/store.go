// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # Persistence Ports

// AccountRepository is the persistence port for accounts. Lookups that find
// nothing return an apperr.NotFound — never a nil entity with a nil error.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Insert persists a new account and returns the stored row read back,
	// so callers observe exactly what the database holds.
	Insert(ctx context.Context, account *Account) (*Account, error)
	UpdateEmailVerified(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
}

// VerificationTokenRepository is the persistence port for email-verification
// tokens. Tokens are durable rows: consumption flips is_used, never deletes.
type VerificationTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*VerificationToken, error)
	FindLatestByAccount(ctx context.Context, accountID string) (*VerificationToken, error)
	Insert(ctx context.Context, verificationToken *VerificationToken) (*VerificationToken, error)
	// Update persists the consumed state of a token. It refuses to overwrite
	// a row already marked used, so two racing confirmations cannot both win.
	Update(ctx context.Context, verificationToken *VerificationToken) error
}

// ResetTokenRepository stores volatile password-reset tokens. Entries expire
// server-side; there is no durable audit trail for these.
type ResetTokenRepository interface {
	Set(ctx context.Context, token, accountID string, timeToLive time.Duration) error
	// Get resolves a token to its account ID, returning apperr.NotFound for
	// unknown or expired tokens.
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Transactor runs a function inside one database transaction. Repository
// calls made with the context it provides join that transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
