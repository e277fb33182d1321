// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/internal/platform/constants"
	"github.com/taskhive/taskhive/internal/platform/ctxutil"
	"github.com/taskhive/taskhive/internal/platform/email"
	"github.com/taskhive/taskhive/internal/platform/sec"
)

// # Collaborator Ports

// PasswordHasher abstracts one-way credential hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer mints signed credentials for authenticated identities.
type TokenIssuer interface {
	Issue(identity sec.Identity) (string, error)
}

// # Service

// Service implements the identity workflows: sign-up, sign-in,
// email-verification, and password-reset.
type Service struct {
	accounts    AccountRepository
	tokens      VerificationTokenRepository
	resetTokens ResetTokenRepository
	tx          Transactor
	hasher      PasswordHasher
	issuer      TokenIssuer
	emails      email.Sender
	baseURL     string
}

// NewService wires the identity service with its collaborators.
// baseURL is the public origin links in outbound emails point at.
func NewService(
	accounts AccountRepository,
	tokens VerificationTokenRepository,
	resetTokens ResetTokenRepository,
	tx Transactor,
	hasher PasswordHasher,
	issuer TokenIssuer,
	emails email.Sender,
	baseURL string,
) *Service {
	return &Service{
		accounts:    accounts,
		tokens:      tokens,
		resetTokens: resetTokens,
		tx:          tx,
		hasher:      hasher,
		issuer:      issuer,
		emails:      emails,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignInInput carries the login form fields.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResult is a successful authentication: the account and its credential.
type SignInResult struct {
	Account *Account `json:"user"`
	Token   string   `json:"token"`
}

// invalidCredentials is the single error returned for every sign-in failure
// caused by the caller. An unknown email and a wrong password are deliberately
// indistinguishable so the endpoint cannot be used to enumerate accounts.
func invalidCredentials() *apperr.AppError {
	return apperr.Unauthorized("Invalid email or password")
}

/*
SignUp registers a new email/password account.

The account is stored unverified, and a verification email is dispatched
best-effort: a mail-delivery failure is logged but does not fail the
registration, since the client can re-request verification later.

# Returns
  - The persisted account as read back from storage.
  - CONFLICT when the email address is already registered.
*/
func (service *Service) SignUp(ctx context.Context, input SignUpInput) (*Account, error) {
	normalizedEmail := normalizeEmail(input.Email)

	exists, err := service.accounts.ExistsByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(
			"Email address is already in use",
			apperr.FieldError{Field: "email", Message: "Email address is already in use"},
		)
	}

	passwordHash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash_password_failed: %w", err)
	}

	account, err := NewAccount(normalizedEmail, passwordHash, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	var persisted *Account
	err = service.tx.InTx(ctx, func(txCtx context.Context) error {
		// The unique index on email backstops the pre-check: a racing
		// duplicate registration loses here with the same CONFLICT.
		persisted, err = service.accounts.Insert(txCtx, account)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := service.sendVerificationEmail(ctx, persisted); err != nil {
		ctxutil.GetLogger(ctx).Warn("initial verification email failed",
			slog.String("account_id", persisted.ID),
			slog.String("error", err.Error()),
		)
	}

	return persisted, nil
}

/*
SignIn authenticates an email/password pair and issues a signed credential.

# Returns
  - The account and its JWT on success.
  - UNAUTHORIZED with one fixed message for unknown email, wrong password,
    or a password attempt against an external (OAuth-only) account.
  - FORBIDDEN when the credentials are correct but the account is deactivated.
*/
func (service *Service) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	account, err := service.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	// OAuth-only accounts carry no hash; a password attempt against one is
	// just another bad credential, not a distinguishable state.
	if account.PasswordHash == "" {
		return nil, invalidCredentials()
	}

	match, err := service.hasher.Verify(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify_password_failed: %w", err)
	}
	if !match {
		return nil, invalidCredentials()
	}

	if !account.Active {
		return nil, apperr.Forbidden("Account is deactivated")
	}

	token, err := service.issuer.Issue(sec.Identity{
		AccountID:        account.ID,
		Email:            account.Email,
		FirstName:        account.FirstName,
		LastName:         account.LastName,
		IsEmailVerified:  account.EmailVerified,
		TwoFactorEnabled: account.TwoFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("issue_token_failed: %w", err)
	}

	return &SignInResult{Account: account, Token: token}, nil
}

/*
SendVerificationEmail issues a fresh verification token for the account and
mails the confirmation link.

# Returns
  - NOT_FOUND when the account does not exist.
  - UNPROCESSABLE when the email address is already verified.
*/
func (service *Service) SendVerificationEmail(ctx context.Context, accountID string) error {
	account, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.EmailVerified {
		return apperr.Unprocessable("Email is already verified")
	}

	return service.sendVerificationEmail(ctx, account)
}

// sendVerificationEmail mints, persists, and mails a verification token.
// The insert and read-back run in one transaction.
func (service *Service) sendVerificationEmail(ctx context.Context, account *Account) error {
	opaque, err := sec.GenerateSecureToken(constants.SecureTokenLength)
	if err != nil {
		return err
	}

	verificationToken, err := NewVerificationToken(account.ID, opaque, time.Now().Add(VerificationTokenTTL))
	if err != nil {
		return err
	}

	err = service.tx.InTx(ctx, func(txCtx context.Context) error {
		verificationToken, err = service.tokens.Insert(txCtx, verificationToken)
		return err
	})
	if err != nil {
		return err
	}

	link := service.baseURL + "/validate-email?token=" + url.QueryEscape(verificationToken.Token)
	if err := service.emails.SendVerificationEmail(ctx, account.Email, link); err != nil {
		return err
	}
	return nil
}

/*
VerifyEmail consumes a verification token and marks its owning account as
verified. Consumption and verification commit atomically: a crash between the
two can never leave a burned token next to an unverified account.

# Returns
  - NOT_FOUND when no token matches the supplied string.
  - UNPROCESSABLE when the token is expired or already consumed, or the
    account is already verified.
  - INTERNAL when the token references an account that no longer exists;
    that is a storage-integrity fault, not a client mistake.
*/
func (service *Service) VerifyEmail(ctx context.Context, token string) error {
	verificationToken, err := service.tokens.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if !verificationToken.Valid() {
		return apperr.Unprocessable("Verification token has expired or has already been used")
	}

	account, err := service.accounts.FindByID(ctx, verificationToken.AccountID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return apperr.Internal(fmt.Errorf(
				"verification token %s references missing account %s",
				verificationToken.ID, verificationToken.AccountID,
			))
		}
		return err
	}
	if account.EmailVerified {
		return apperr.Unprocessable("Email is already verified")
	}

	return service.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := verificationToken.MarkUsed(); err != nil {
			return err
		}
		if err := service.tokens.Update(txCtx, verificationToken); err != nil {
			return err
		}

		if err := account.VerifyEmail(); err != nil {
			return err
		}
		return service.accounts.UpdateEmailVerified(txCtx, account)
	})
}

/*
RequestPasswordReset mails a reset link for the given address.

An unknown address reports success without sending anything, so the endpoint
cannot be used to probe which emails are registered.
*/
func (service *Service) RequestPasswordReset(ctx context.Context, emailAddress string) error {
	account, err := service.accounts.FindByEmail(ctx, emailAddress)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			ctxutil.GetLogger(ctx).Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	opaque, err := sec.GenerateSecureToken(constants.SecureTokenLength)
	if err != nil {
		return err
	}
	if err := service.resetTokens.Set(ctx, opaque, account.ID, ResetTokenTTL); err != nil {
		return err
	}

	link := service.baseURL + "/reset-password?token=" + url.QueryEscape(opaque)
	return service.emails.SendPasswordResetEmail(ctx, account.Email, link)
}

/*
ResetPassword exchanges a valid reset token for a new password.

# Returns
  - NOT_FOUND when the token is unknown or has expired (Redis has already
    dropped expired entries, so the two cases are indistinguishable).
*/
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	accountID, err := service.resetTokens.Get(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash_password_failed: %w", err)
	}

	if err := service.accounts.UpdatePassword(ctx, accountID, passwordHash); err != nil {
		return err
	}

	// Best-effort: the token has served its purpose; if the delete fails it
	// still expires on its own.
	if err := service.resetTokens.Delete(ctx, token); err != nil {
		ctxutil.GetLogger(ctx).Warn("reset token cleanup failed",
			slog.String("error", err.Error()),
		)
	}
	return nil
}
