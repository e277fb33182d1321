// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import "time"

const (
	// VerificationTokenTTL bounds how long an email-verification link stays
	// usable after it is requested.
	VerificationTokenTTL = 24 * time.Hour

	// ResetTokenTTL bounds how long a password-reset link stays usable.
	// Reset tokens are volatile and expire server-side in Redis.
	ResetTokenTTL = 1 * time.Hour

	// Validation limits for sign-up input.
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 255
	MaxNameLength     = 100
)
