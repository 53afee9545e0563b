package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"taskflow-app/taskflow/utils/token"
)

const testSecret = "test-secret"

func TestAuthenticate_ValidToken(t *testing.T) {
	tokenString, err := token.GenerateToken(
		"idp|123",
		[]string{"dana@example.com"},
		"Dana", "White",
		[]byte(testSecret),
		time.Hour,
	)
	assert.NoError(t, err)

	authService := NewAuthService(testSecret)
	principal, err := authService.Authenticate(tokenString)

	assert.NoError(t, err)
	assert.Equal(t, "idp|123", principal.ExternalID)
	assert.Equal(t, []string{"dana@example.com"}, principal.Emails)
	assert.Equal(t, "Dana", principal.FirstName)
	assert.Equal(t, "White", principal.LastName)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	tokenString, err := token.GenerateToken("idp|123", nil, "", "", []byte("other-secret"), time.Hour)
	assert.NoError(t, err)

	authService := NewAuthService(testSecret)
	_, err = authService.Authenticate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tokenString, err := token.GenerateToken("idp|123", nil, "", "", []byte(testSecret), -time.Hour)
	assert.NoError(t, err)

	authService := NewAuthService(testSecret)
	_, err = authService.Authenticate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_MissingSubject(t *testing.T) {
	tokenString, err := token.GenerateToken("", nil, "", "", []byte(testSecret), time.Hour)
	assert.NoError(t, err)

	authService := NewAuthService(testSecret)
	_, err = authService.Authenticate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_Garbage(t *testing.T) {
	authService := NewAuthService(testSecret)
	_, err := authService.Authenticate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
