// Copyright (c) 2026 TaskHive. All rights reserved.

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/internal/users/auth"
)

func newTestAccount(t *testing.T) *auth.Account {
	t.Helper()
	account, err := auth.NewAccount("Ada@Example.com", "$2a$12$fakehashfakehashfakehash", "Ada", "Lovelace")
	require.NoError(t, err)
	return account
}

/*
TestNewAccount: fresh accounts start unverified, active, without two-factor,
with a lowercased email and both timestamps set.
*/
func TestNewAccount(t *testing.T) {
	account := newTestAccount(t)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "ada@example.com", account.Email)
	assert.False(t, account.EmailVerified)
	assert.False(t, account.TwoFactor)
	assert.True(t, account.Active)
	assert.False(t, account.CreatedAt.IsZero())
	assert.Equal(t, account.CreatedAt, account.UpdatedAt)
}

/*
TestNewAccount_Validation: every construction path shares one validation
routine, so bad input can never produce a partially-valid entity.
*/
func TestNewAccount_Validation(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		hash      string
		firstName string
		lastName  string
	}{
		{"empty_email", "", "hash", "Ada", "Lovelace"},
		{"invalid_email", "not-an-email", "hash", "Ada", "Lovelace"},
		{"empty_password_hash", "ada@example.com", "", "Ada", "Lovelace"},
		{"empty_first_name", "ada@example.com", "hash", "", "Lovelace"},
		{"empty_last_name", "ada@example.com", "hash", "Ada", ""},
		{"whitespace_first_name", "ada@example.com", "hash", "   ", "Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := auth.NewAccount(tt.email, tt.hash, tt.firstName, tt.lastName)
			assert.Nil(t, account)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestNewExternalAccount: OAuth accounts start verified and carry no password
hash; a missing provider is rejected.
*/
func TestNewExternalAccount(t *testing.T) {
	account, err := auth.NewExternalAccount("ada@example.com", "Ada", "Lovelace", "google", "google-123")
	require.NoError(t, err)

	assert.True(t, account.EmailVerified)
	assert.Empty(t, account.PasswordHash)
	assert.Equal(t, "google", account.OAuthProvider)

	_, err = auth.NewExternalAccount("ada@example.com", "Ada", "Lovelace", "", "id")
	assert.Error(t, err)
}

/*
TestLoadAccount_RejectsCorruptRow: loading shares the creation validation, so
a corrupted stored row surfaces as an error instead of a broken entity.
*/
func TestLoadAccount_RejectsCorruptRow(t *testing.T) {
	now := time.Now().UTC()

	_, err := auth.LoadAccount(
		"some-id", "not-an-email", "hash", "Ada", "Lovelace",
		false, false, true, "", "", now, now,
	)
	assert.Error(t, err)
}

/*
TestAccount_VerifyEmail: verification succeeds once; repeating it is an
error, not a no-op.
*/
func TestAccount_VerifyEmail(t *testing.T) {
	account := newTestAccount(t)

	require.NoError(t, account.VerifyEmail())
	assert.True(t, account.EmailVerified)

	err := account.VerifyEmail()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNPROCESSABLE", ae.Code)
}

/*
TestAccount_TwoFactorToggles guards the enable/disable state machine.
*/
func TestAccount_TwoFactorToggles(t *testing.T) {
	account := newTestAccount(t)

	assert.Error(t, account.DisableTwoFactor(), "disable before enable")
	require.NoError(t, account.EnableTwoFactor())
	assert.Error(t, account.EnableTwoFactor(), "double enable")
	require.NoError(t, account.DisableTwoFactor())
	assert.False(t, account.TwoFactor)
}

/*
TestAccount_ActivationToggles guards the activate/deactivate state machine.
*/
func TestAccount_ActivationToggles(t *testing.T) {
	account := newTestAccount(t)

	assert.Error(t, account.Activate(), "already active")
	require.NoError(t, account.Deactivate())
	assert.Error(t, account.Deactivate(), "double deactivate")
	require.NoError(t, account.Activate())
	assert.True(t, account.Active)
}

/*
TestAccount_UpdatedAtMonotonic: mutations never move UpdatedAt backwards.
*/
func TestAccount_UpdatedAtMonotonic(t *testing.T) {
	account := newTestAccount(t)
	before := account.UpdatedAt

	require.NoError(t, account.VerifyEmail())
	assert.False(t, account.UpdatedAt.Before(before))
}
