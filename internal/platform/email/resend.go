// Copyright (c) 2026 TaskHive. All rights reserved.

package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender implements [Sender] on top of the Resend API.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
}

// NewResendSender creates a Resend-backed [Sender].
func NewResendSender(apiKey, fromEmail string) *ResendSender {
	return &ResendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

// SendVerificationEmail sends the verify-your-address email.
func (sender *ResendSender) SendVerificationEmail(ctx context.Context, to, verificationLink string) error {
	params := &resend.SendEmailRequest{
		From:    sender.fromEmail,
		To:      []string{to},
		Subject: "Verify your email address",
		Html: fmt.Sprintf(`
			<h1>Welcome to TaskHive!</h1>
			<p>Please verify your email address by clicking the link below:</p>
			<p><a href='%s'>Verify Email</a></p>
			<p>This link will expire in 24 hours.</p>
			<p>If you didn't create an account, you can safely ignore this email.</p>`,
			verificationLink),
	}

	if _, err := sender.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}

// SendPasswordResetEmail sends the reset-your-password email.
func (sender *ResendSender) SendPasswordResetEmail(ctx context.Context, to, resetLink string) error {
	params := &resend.SendEmailRequest{
		From:    sender.fromEmail,
		To:      []string{to},
		Subject: "Reset your password",
		Html: fmt.Sprintf(`
			<h1>Password Reset Request</h1>
			<p>Click the link below to reset your password:</p>
			<p><a href='%s'>Reset Password</a></p>
			<p>This link will expire in 1 hour.</p>
			<p>If you didn't request a password reset, you can safely ignore this email.</p>`,
			resetLink),
	}

	if _, err := sender.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}
