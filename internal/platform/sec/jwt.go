// Copyright (c) 2026 TaskHive. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, random
// token generation) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer via small interfaces.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/taskhive/pkg/uuid"
)

// Identity is the account snapshot embedded into an issued credential.
type Identity struct {
	AccountID        string
	Email            string
	FirstName        string
	LastName         string
	IsEmailVerified  bool
	TwoFactorEnabled bool
}

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the account's email, names, and verification flags directly
// inside the JWT, the authentication middleware can reconstruct the active
// user context WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email            string `json:"email"`
	GivenName        string `json:"given_name"`
	FamilyName       string `json:"family_name"`
	IsEmailVerified  bool   `json:"isEmailVerified"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

// AccountID returns the subject claim (the account's unique identifier).
func (c *AuthClaims) AccountID() string { return c.Subject }

// TokenService handles generation and verification of JWT tokens using a
// symmetric HS256 secret shared between issue and validate.
type TokenService struct {
	secret     []byte
	issuer     string
	audience   string
	timeToLive time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer, audience string, timeToLive time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: jwt secret must not be empty")
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		timeToLive: timeToLive,
	}, nil
}

// Issue creates a signed credential for the given identity.
//
// Each credential carries a random jti claim so two tokens issued for the
// same account within the same second remain distinguishable.
func (service *TokenService) Issue(identity Identity) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.AccountID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.timeToLive)),
			ID:        uuid.New(),
		},
		Email:            identity.Email,
		GivenName:        identity.FirstName,
		FamilyName:       identity.LastName,
		IsEmailVerified:  identity.IsEmailVerified,
		TwoFactorEnabled: identity.TwoFactorEnabled,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer, audience, and expiry (zero
// clock-skew tolerance) of a credential string.
//
// Expected validation failures (bad signature, wrong issuer/audience,
// expired) are returned as errors rather than panics; callers translate them
// to an "invalid credential" outcome.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// ExtractAccountID returns the subject of a fully validated credential, or
// the empty string for any credential that fails validation.
//
// It never peeks at the claims of an unverified token.
func (service *TokenService) ExtractAccountID(tokenString string) string {
	if tokenString == "" {
		return ""
	}

	claims, err := service.VerifyToken(tokenString)
	if err != nil {
		return ""
	}
	return claims.AccountID()
}
