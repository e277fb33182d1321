// Copyright (c) 2026 TaskHive. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/internal/platform/constants"
	"github.com/taskhive/taskhive/internal/platform/ctxkey"
	"github.com/taskhive/taskhive/internal/platform/respond"
	"github.com/taskhive/taskhive/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify credentials in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// 1. Anonymous access
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Format validation
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// 3. Token verification
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// 4. Context injection
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// Returns nil if the request is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
