// Copyright (c) 2026 TaskHive. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, admission-control fallbacks, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Fixed-window fallbacks and client identity headers.
  - Security: JWT issuer/audience defaults and token sizing.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "taskhive-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// It also bounds per-connection statement timeouts in PostgreSQL.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// AnonymousClientKey partitions traffic whose client identity cannot be
	// derived from headers or the transport peer address.
	AnonymousClientKey = "anonymous"

	// DefaultRetryAfterSeconds is the Retry-After fallback used when the
	// remaining window time cannot be computed.
	DefaultRetryAfterSeconds = 5
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
	HeaderAuthorization = "Authorization"
)

// # Authentication

const (
	// DefaultJWTIssuer is the standard 'iss' claim in access tokens.
	DefaultJWTIssuer = "taskhive.app"

	// DefaultJWTAudience is the standard 'aud' claim in access tokens.
	DefaultJWTAudience = "taskhive-api"

	// SecureTokenLength is the byte length of random single-use tokens
	// (email verification, password reset) before base64url encoding.
	SecureTokenLength = 32
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken = "auth:reset_token:"
)
