package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(uuid.New())
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.Error(t, err, "token %q should not validate", token)
	}
}

func TestTokenExpiry(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, TokenExpiry)
}
