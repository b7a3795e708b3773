package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken(42, domain.RoleEmployee)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, domain.RoleEmployee, claims.Role)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	other := NewTokenManager("different-secret", 60)

	token, _, err := tm.GenerateToken(42, domain.RoleClient)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not.a.token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.NoError(t, ComparePassword(hash, "s3cret-pass"))
	require.Error(t, ComparePassword(hash, "wrong-pass"))
}
