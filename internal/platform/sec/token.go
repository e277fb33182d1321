// Copyright (c) 2026 TaskHive. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken returns an unguessable, URL-safe random string built
// from byteLength bytes of crypto/rand entropy.
//
// Used for single-use secrets (email verification, password reset) that are
// embedded into links handed to the email collaborator.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
