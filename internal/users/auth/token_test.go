// Copyright (c) 2026 TaskHive. All rights reserved.

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/users/auth"
)

/*
TestNewVerificationToken: creation requires a future expiry and non-empty
account/token values.
*/
func TestNewVerificationToken(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	token, err := auth.NewVerificationToken("account-1", "opaque-token", future)
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)
	assert.False(t, token.Used)
	assert.Nil(t, token.UsedAt)
	assert.True(t, token.Valid())

	_, err = auth.NewVerificationToken("", "opaque-token", future)
	assert.Error(t, err, "empty account id")

	_, err = auth.NewVerificationToken("account-1", "", future)
	assert.Error(t, err, "empty token")

	_, err = auth.NewVerificationToken("account-1", "opaque-token", time.Now().Add(-time.Minute))
	assert.Error(t, err, "past expiry")

	_, err = auth.NewVerificationToken("account-1", "opaque-token", time.Now())
	assert.Error(t, err, "expiry exactly now is not in the future")
}

/*
TestLoadVerificationToken_AllowsExpiredRows: unlike creation, loading must
accept past expiries. Expired rows have to stay loadable so confirmation can
report "expired" instead of "not found".
*/
func TestLoadVerificationToken_AllowsExpiredRows(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	token, err := auth.LoadVerificationToken(
		"id-1", "account-1", "opaque-token", expired, false, nil, time.Now().Add(-25*time.Hour),
	)
	require.NoError(t, err)
	assert.False(t, token.Valid())
}

/*
TestVerificationToken_MarkUsed: a token is consumed exactly once, and
consumption records when.
*/
func TestVerificationToken_MarkUsed(t *testing.T) {
	token, err := auth.NewVerificationToken("account-1", "opaque-token", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, token.MarkUsed())
	assert.True(t, token.Used)
	require.NotNil(t, token.UsedAt)
	assert.False(t, token.Valid())

	assert.Error(t, token.MarkUsed(), "second consumption must fail")
}

/*
TestVerificationToken_Valid covers the validity predicate across the
used/expired matrix, including the boundary: a token is still valid exactly
at its expiry instant.
*/
func TestVerificationToken_Valid(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn time.Duration
		used      bool
		want      bool
	}{
		{"fresh_unused", time.Hour, false, true},
		{"fresh_used", time.Hour, true, false},
		{"expired_unused", -time.Hour, false, false},
		{"expired_used", -time.Hour, true, false},
		{"at_expiry_boundary", time.Second, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var usedAt *time.Time
			if tt.used {
				now := time.Now()
				usedAt = &now
			}
			token, err := auth.LoadVerificationToken(
				"id-1", "account-1", "opaque-token",
				time.Now().Add(tt.expiresIn), tt.used, usedAt, time.Now(),
			)
			require.NoError(t, err)

			assert.Equal(t, tt.want, token.Valid())
		})
	}
}
