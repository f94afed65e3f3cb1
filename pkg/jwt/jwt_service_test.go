package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manjeet0006/FoodShare/domain"
)

func TestTokenRoundtrip(t *testing.T) {
	service := NewJWTService()

	token := service.GenerateTokenUser("user-123", "donor")
	require.NotEmpty(t, token)

	id, role, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
	assert.Equal(t, "donor", role)
}

func TestGarbageTokenIsInvalid(t *testing.T) {
	service := NewJWTService()

	_, _, err := service.GetUserIDByToken("definitely.not.ajwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTamperedTokenIsInvalid(t *testing.T) {
	service := NewJWTService()

	token := service.GenerateTokenUser("user-123", "donor")
	_, _, err := service.GetUserIDByToken(token + "x")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
