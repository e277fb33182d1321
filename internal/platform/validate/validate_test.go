// Copyright (c) 2026 TaskHive. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "TaskHive", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_UUID checks the UUID format rule against v4 and v7 identifiers.
*/
func TestValidator_UUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"uuid_v7", "0191e3a0-5c1e-7b3a-9f6e-0b6a3d1c2e4f", true},
		{"uuid_v4_uppercase", "A987FBC9-4BED-4078-8F07-9141BA07C9F3", true},
		{"not_a_uuid", "hello-world", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.UUID("id", tt.value)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("first_name", "Ada").
		MinLen("first_name", "Ada", 2).
		MaxLen("first_name", "Ada", 100).
		Email("email", "ada@taskhive.app").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("first_name", "").     // Fails
		MinLen("password", "a", 8).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Custom tests the escape hatch for ad-hoc rules.
*/
func TestValidator_Custom(t *testing.T) {
	v := &validate.Validator{}

	err := v.Custom("password", true, "Must not equal the email address").Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "password", ae.Details[0].Field)
	assert.Equal(t, "Must not equal the email address", ae.Details[0].Message)
}
