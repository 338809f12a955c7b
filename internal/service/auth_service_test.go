package service

import (
	"testing"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/config"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewAuthService(&config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
		AdminPassHash: string(hash),
	})
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)

	token, op, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", op.Username)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
	assert.Equal(t, "admin", claims.Username)
	assert.ElementsMatch(t, model.OperatorPermissions, claims.Permissions)
}

func TestLogin_Rejects(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("root", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestAuthService(t)
	token, err := svc.GenerateAdminToken("admin", nil)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute})
	token, err := svc.GenerateAdminToken("admin", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	svc := newTestAuthService(t)
	hash, err := svc.HashPassword("another")
	require.NoError(t, err)

	assert.NoError(t, svc.CheckPassword(hash, "another"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "nope"), ErrInvalidCredentials)
}
