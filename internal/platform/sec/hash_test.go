// Copyright (c) 2026 TaskHive. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive/internal/platform/sec"
)

// Low cost keeps the suite fast; the contract is cost-independent.
const testCost = bcrypt.MinCost

/*
TestHasher_HashAndVerify covers the round trip: a hashed password verifies
against its own hash and against nothing else.
*/
func TestHasher_HashAndVerify(t *testing.T) {
	hasher := sec.NewHasher(testCost)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	match, err := hasher.Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Verify("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

/*
TestHasher_SaltedOutput: hashing the same password twice must yield different
strings (fresh random salt per call), and both must verify.
*/
func TestHasher_SaltedOutput(t *testing.T) {
	hasher := sec.NewHasher(testCost)

	first, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	second, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, hash := range []string{first, second} {
		match, err := hasher.Verify("s3cret", hash)
		require.NoError(t, err)
		assert.True(t, match)
	}
}

/*
TestHasher_EmptyInputs: empty passwords and hashes are errors, never a silent
false.
*/
func TestHasher_EmptyInputs(t *testing.T) {
	hasher := sec.NewHasher(testCost)

	_, err := hasher.Hash("")
	assert.ErrorIs(t, err, sec.ErrEmptyPassword)

	_, err = hasher.Verify("", "$2a$10$abcdefghijklmnopqrstuv")
	assert.ErrorIs(t, err, sec.ErrEmptyPassword)

	_, err = hasher.Verify("password", "")
	assert.ErrorIs(t, err, sec.ErrEmptyHash)
}

/*
TestHasher_MalformedHash: a stored value that is not bcrypt-encoded is
reported as corruption, distinguishable from a plain mismatch.
*/
func TestHasher_MalformedHash(t *testing.T) {
	hasher := sec.NewHasher(testCost)

	match, err := hasher.Verify("password", "not-a-bcrypt-hash")
	assert.False(t, match)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrMalformedHash)
}

/*
TestNewHasher_CostClamping: out-of-range cost factors fall back to the bcrypt
default instead of failing at hash time.
*/
func TestNewHasher_CostClamping(t *testing.T) {
	for _, cost := range []int{-1, 0, 3, 100} {
		hasher := sec.NewHasher(cost)

		hash, err := hasher.Hash("password")
		require.NoError(t, err, "cost %d", cost)

		actualCost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, actualCost, "cost %d", cost)
	}
}
