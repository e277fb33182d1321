// Copyright (c) 2026 TaskHive. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/platform/sec"
)

const (
	testSecret   = "test-secret-test-secret-test-secret"
	testIssuer   = "taskhive.app"
	testAudience = "taskhive-api"
)

func newTestTokenService(t *testing.T, timeToLive time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, testIssuer, testAudience, timeToLive)
	require.NoError(t, err)
	return service
}

func testIdentity() sec.Identity {
	return sec.Identity{
		AccountID:        "0191e3a0-5c1e-7b3a-9f6e-0b6a3d1c2e4f",
		Email:            "ada@taskhive.app",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		IsEmailVerified:  true,
		TwoFactorEnabled: false,
	}
}

/*
TestTokenService_RoundTrip: an issued credential verifies with the same
service and carries every identity claim intact.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, time.Hour)
	identity := testIdentity()

	token, err := service.Issue(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, identity.AccountID, claims.AccountID())
	assert.Equal(t, identity.Email, claims.Email)
	assert.Equal(t, identity.FirstName, claims.GivenName)
	assert.Equal(t, identity.LastName, claims.FamilyName)
	assert.True(t, claims.IsEmailVerified)
	assert.False(t, claims.TwoFactorEnabled)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, testAudience)
	assert.NotEmpty(t, claims.ID, "jti must be set")
}

/*
TestTokenService_UniqueJTI: two credentials for the same identity issued
back-to-back must be distinguishable.
*/
func TestTokenService_UniqueJTI(t *testing.T) {
	service := newTestTokenService(t, time.Hour)
	identity := testIdentity()

	first, err := service.Issue(identity)
	require.NoError(t, err)
	second, err := service.Issue(identity)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	firstClaims, err := service.VerifyToken(first)
	require.NoError(t, err)
	secondClaims, err := service.VerifyToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

/*
TestTokenService_RejectsTamperedSecret: a credential signed with a different
secret never verifies.
*/
func TestTokenService_RejectsTamperedSecret(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	other, err := sec.NewTokenService("a-completely-different-secret", testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	token, err := other.Issue(testIdentity())
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsWrongIssuerAudience: issuer and audience are part of
the trust contract, not informational.
*/
func TestTokenService_RejectsWrongIssuerAudience(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	wrongIssuer, err := sec.NewTokenService(testSecret, "evil.example", testAudience, time.Hour)
	require.NoError(t, err)
	token, err := wrongIssuer.Issue(testIdentity())
	require.NoError(t, err)
	_, err = service.VerifyToken(token)
	assert.Error(t, err)

	wrongAudience, err := sec.NewTokenService(testSecret, testIssuer, "other-api", time.Hour)
	require.NoError(t, err)
	token, err = wrongAudience.Issue(testIdentity())
	require.NoError(t, err)
	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsExpired: verification applies zero clock-skew
tolerance, so a credential one second past its expiry is already invalid.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTestTokenService(t, -time.Second)

	token, err := service.Issue(testIdentity())
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsAlgNone: the classic alg-confusion attack. A token
claiming the "none" algorithm must be rejected outright.
*/
func TestTokenService_RejectsAlgNone(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "attacker",
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_ExtractAccountID: valid credentials yield their subject,
anything else yields the empty string.
*/
func TestTokenService_ExtractAccountID(t *testing.T) {
	service := newTestTokenService(t, time.Hour)
	identity := testIdentity()

	token, err := service.Issue(identity)
	require.NoError(t, err)

	assert.Equal(t, identity.AccountID, service.ExtractAccountID(token))
	assert.Equal(t, "", service.ExtractAccountID(""))
	assert.Equal(t, "", service.ExtractAccountID("garbage.token.value"))
}

/*
TestNewTokenService_EmptySecret: a service without a secret must not start.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer, testAudience, time.Hour)
	assert.Error(t, err)
}
