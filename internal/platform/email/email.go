// Copyright (c) 2026 TaskHive. All rights reserved.

/*
Package email is the outbound transactional-email collaborator.

The identity workflows only depend on the [Sender] contract: they build a
link from the configured base URL plus a raw single-use token and hand it
over opaquely. Delivery mechanics (provider, templating, retries) live
behind the interface; the Resend-backed implementation is the production
default and tests substitute a recorder.
*/
package email

import (
	"context"
	"errors"
)

// ErrDeliveryFailed marks provider-side delivery failures so callers can
// distinguish them from the validation errors raised before sending.
var ErrDeliveryFailed = errors.New("email: delivery failed")

// Sender is the contract for sending identity-related emails.
type Sender interface {
	// SendVerificationEmail sends a verify-your-address email carrying the link.
	SendVerificationEmail(ctx context.Context, to, verificationLink string) error

	// SendPasswordResetEmail sends a reset-your-password email carrying the link.
	SendPasswordResetEmail(ctx context.Context, to, resetLink string) error
}
