// Copyright (c) 2026 TaskHive. All rights reserved.

package sec_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/platform/sec"
)

/*
TestGenerateSecureToken: tokens are non-empty, unique, and URL-safe without
escaping (they are embedded into email links as query values).
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := sec.GenerateSecureToken(32)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		assert.False(t, seen[token], "token collision")
		seen[token] = true

		assert.Equal(t, token, url.QueryEscape(token))
	}
}
