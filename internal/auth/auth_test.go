package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)

	token, err := issuer.GenerateToken(models.User{ID: 42, Username: "alice", Role: "user"})
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	good, err := issuer.GenerateToken(models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	expired := NewTokenIssuer("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateToken(models.User{ID: 1})
	require.NoError(t, err)

	other, err := NewTokenIssuer("other-secret", time.Minute).GenerateToken(models.User{ID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"expired":      old,
		"wrong secret": other,
		"alg none":     none,
		"tampered":     good + "x",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.ParseToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := repo.NewMemoryStore()
	svc := NewAuthService(repo.NewInMemoryUserRepository(store), NewTokenIssuer("s", time.Minute))
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, _, err = svc.Register(ctx, "alice", "secret2")
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	_, _, err = svc.Register(ctx, "al", "secret1")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	token, err = svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	claims, err := svc.Tokens().ParseToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	_, err = svc.Login(ctx, "bob", "secret1")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}
