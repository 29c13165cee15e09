package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBRL(t *testing.T) {
	tests := map[string]string{
		"0":       "R$ 0,00",
		"7.5":     "R$ 7,50",
		"1234.5":  "R$ 1.234,50",
		"1000000": "R$ 1.000.000,00",
		"-42.199": "-R$ 42,20",
		"999.999": "R$ 1.000,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatBRL(decimal.RequireFromString(in)), in)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	tok, err := GenerateToken("u1", "chef", "sabor")
	require.NoError(t, err)

	claims, err := ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "chef", claims.Role)
	assert.Equal(t, "sabor", claims.TenantSlug)

	BlacklistToken(tok)
	_, err = ValidateToken(tok)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}
