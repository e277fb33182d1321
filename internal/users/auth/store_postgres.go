// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/internal/platform/dberr"
	"github.com/taskhive/taskhive/internal/platform/postgres"
)

// # Postgres Repositories

// PostgresAccountRepository persists accounts in the users table.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a [PostgresAccountRepository].
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// q resolves to the in-flight transaction when one is open on ctx,
// otherwise to the pool.
func (repo *PostgresAccountRepository) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, repo.pool)
}

const accountColumns = `
	id, email, password_hash, first_name, last_name,
	is_email_verified, two_factor_enabled, is_active,
	oauth_provider, oauth_id, created_at, updated_at`

func (repo *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT` + accountColumns + ` FROM users WHERE id = $1`

	account, err := scanAccount(repo.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}
	return account, nil
}

func (repo *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT` + accountColumns + ` FROM users WHERE email = $1`

	account, err := scanAccount(repo.q(ctx).QueryRow(ctx, query, normalizeEmail(email)))
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}
	return account, nil
}

func (repo *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := repo.q(ctx).QueryRow(ctx, query, normalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists_by_email_failed: %w", err)
	}
	return exists, nil
}

func (repo *PostgresAccountRepository) Insert(ctx context.Context, account *Account) (*Account, error) {
	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_email_verified, two_factor_enabled, is_active,
			oauth_provider, oauth_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING` + accountColumns

	inserted, err := scanAccount(repo.q(ctx).QueryRow(ctx, query,
		account.ID,
		account.Email,
		nullableString(account.PasswordHash),
		account.FirstName,
		account.LastName,
		account.EmailVerified,
		account.TwoFactor,
		account.Active,
		nullableString(account.OAuthProvider),
		nullableString(account.OAuthID),
		account.CreatedAt,
		account.UpdatedAt,
	))
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(
				"Email address is already in use",
				apperr.FieldError{Field: "email", Message: "Email address is already in use"},
			)
		}
		return nil, fmt.Errorf("insert_account_failed: %w", err)
	}
	return inserted, nil
}

func (repo *PostgresAccountRepository) UpdateEmailVerified(ctx context.Context, account *Account) error {
	query := `UPDATE users SET is_email_verified = $2, updated_at = $3 WHERE id = $1`

	tag, err := repo.q(ctx).Exec(ctx, query, account.ID, account.EmailVerified, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update_email_verified_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

func (repo *PostgresAccountRepository) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	tag, err := repo.q(ctx).Exec(ctx, query, accountID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

// scanAccount maps a users row through the loading constructor so storage can
// never hand out an entity that bypassed validation.
func scanAccount(row interface{ Scan(dest ...any) error }) (*Account, error) {
	var (
		id, email, firstName, lastName         string
		passwordHash, oauthProvider, oauthID   *string
		emailVerified, twoFactor, activeColumn bool
		createdAt, updatedAt                   time.Time
	)
	err := row.Scan(
		&id, &email, &passwordHash, &firstName, &lastName,
		&emailVerified, &twoFactor, &activeColumn,
		&oauthProvider, &oauthID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return LoadAccount(
		id, email, deref(passwordHash), firstName, lastName,
		emailVerified, twoFactor, activeColumn,
		deref(oauthProvider), deref(oauthID),
		createdAt, updatedAt,
	)
}

// PostgresVerificationTokenRepository persists email-verification tokens.
type PostgresVerificationTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVerificationTokenRepository creates a [PostgresVerificationTokenRepository].
func NewPostgresVerificationTokenRepository(pool *pgxpool.Pool) *PostgresVerificationTokenRepository {
	return &PostgresVerificationTokenRepository{pool: pool}
}

func (repo *PostgresVerificationTokenRepository) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, repo.pool)
}

const verificationTokenColumns = `
	id, user_id, token, expires_at, is_used, used_at, created_at`

func (repo *PostgresVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*VerificationToken, error) {
	query := `SELECT` + verificationTokenColumns + ` FROM email_verification_tokens WHERE token = $1`

	verificationToken, err := scanVerificationToken(repo.q(ctx).QueryRow(ctx, query, token))
	if err != nil {
		return nil, dberr.Wrap(err, "Verification token")
	}
	return verificationToken, nil
}

func (repo *PostgresVerificationTokenRepository) FindLatestByAccount(ctx context.Context, accountID string) (*VerificationToken, error) {
	query := `
		SELECT` + verificationTokenColumns + `
		FROM email_verification_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	verificationToken, err := scanVerificationToken(repo.q(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, dberr.Wrap(err, "Verification token")
	}
	return verificationToken, nil
}

func (repo *PostgresVerificationTokenRepository) Insert(ctx context.Context, verificationToken *VerificationToken) (*VerificationToken, error) {
	query := `
		INSERT INTO email_verification_tokens (
			id, user_id, token, expires_at, is_used, used_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + verificationTokenColumns

	inserted, err := scanVerificationToken(repo.q(ctx).QueryRow(ctx, query,
		verificationToken.ID,
		verificationToken.AccountID,
		verificationToken.Token,
		verificationToken.ExpiresAt,
		verificationToken.Used,
		verificationToken.UsedAt,
		verificationToken.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert_verification_token_failed: %w", err)
	}
	return inserted, nil
}

func (repo *PostgresVerificationTokenRepository) Update(ctx context.Context, verificationToken *VerificationToken) error {
	// The is_used = FALSE guard makes consumption race-safe: of two
	// concurrent confirmations, exactly one update matches the row.
	query := `
		UPDATE email_verification_tokens
		SET is_used = $2, used_at = $3
		WHERE id = $1 AND is_used = FALSE`

	tag, err := repo.q(ctx).Exec(ctx, query,
		verificationToken.ID,
		verificationToken.Used,
		verificationToken.UsedAt,
	)
	if err != nil {
		return fmt.Errorf("update_verification_token_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Unprocessable("Verification token has expired or has already been used")
	}
	return nil
}

func scanVerificationToken(row interface{ Scan(dest ...any) error }) (*VerificationToken, error) {
	var (
		id, accountID, token string
		expiresAt, createdAt time.Time
		used                 bool
		usedAt               *time.Time
	)
	err := row.Scan(&id, &accountID, &token, &expiresAt, &used, &usedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	return LoadVerificationToken(id, accountID, token, expiresAt, used, usedAt, createdAt)
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
