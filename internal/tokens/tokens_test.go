package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/askloop/askloop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndVerify(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com", Role: models.RoleManager}

	raw, err := GenerateAccessToken("test-secret", u, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	ver := NewVerifier("test-secret")
	tok, err := ver.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, u.ID.Hex(), claims["sub"])
	assert.Equal(t, "Alice", claims["name"])
	assert.Equal(t, float64(models.RoleManager), claims["role"])
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID()}
	raw, err := GenerateAccessToken("secret-a", u, time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier("secret-b").Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID()}
	raw, err := GenerateAccessToken("secret", u, -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier("secret").Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewVerifier("secret").Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
