package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
)

var testUser = &domain.User{ID: "user-1", Email: "jean@example.com", Role: domain.RoleUser}

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute, 24*time.Hour)

	token, issued, err := m.Generate(testUser, domain.TokenTypeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jean@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, domain.TokenTypeAccess, claims.Type)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 2*time.Second)
}

func TestJWTManager_RefreshLifetime(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, 48*time.Hour)

	_, claims, err := m.Generate(testUser, domain.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeRefresh, claims.Type)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), claims.ExpiresAt, 2*time.Second)
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)

	_, a, err := m.Generate(testUser, domain.TokenTypeAccess)
	require.NoError(t, err)
	_, b, err := m.Generate(testUser, domain.TokenTypeAccess)
	require.NoError(t, err)

	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Generate(testUser, domain.TokenTypeAccess)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret", time.Minute, time.Hour).Generate(testUser, domain.TokenTypeAccess)
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Minute, time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTManager_RejectsUnsignedToken(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Minute, time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	_, err := NewJWTManager("secret", time.Minute, time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
