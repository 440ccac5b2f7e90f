package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Ann@X.com ")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", email)
}

func TestNormalizeEmailInvalid(t *testing.T) {
	for _, raw := range []string{"", "not-an-email", "a@b", "@x.com", "ann@"} {
		_, err := NormalizeEmail(raw)
		assert.Error(t, err, raw)
	}
}

func TestNormalizeRequired(t *testing.T) {
	value, err := NormalizeRequired("  hello ", "required")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	_, err = NormalizeRequired("   ", "required")
	require.Error(t, err)
	assert.Equal(t, "required", err.Error())
}

func TestOneOf(t *testing.T) {
	value, err := OneOf("", "medium", "low", "medium", "high")
	require.NoError(t, err)
	assert.Equal(t, "medium", value)

	value, err = OneOf("high", "medium", "low", "medium", "high")
	require.NoError(t, err)
	assert.Equal(t, "high", value)

	_, err = OneOf("urgent", "medium", "low", "medium", "high")
	assert.Error(t, err)
}
