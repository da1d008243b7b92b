package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	details, err := GenerateJWT("u1", "Ada", "ada@example.edu", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", details.TokenType)
	assert.Equal(t, "86400", details.ExpiresIn)

	claims, err := ValidateJWT(details.Token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@example.edu", claims.Email)

	_, err = ValidateJWT(details.Token, "other")
	assert.Error(t, err)
}

func TestGenerateRejectsEmptyInputs(t *testing.T) {
	_, err := GenerateJWT("u1", "", "", "")
	assert.Error(t, err)
	_, err = GenerateJWT("", "", "", "s")
	assert.Error(t, err)
	_, err = ValidateJWT("", "s")
	assert.Error(t, err)
}
