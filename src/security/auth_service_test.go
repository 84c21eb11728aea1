package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewAuthService(testSecret, time.Hour)
	token, err := svc.GenerateToken("ayse", RoleEditor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ayse", claims.Username)
	assert.Equal(t, RoleEditor, claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewAuthService(testSecret, time.Hour)
	token, err := svc.GenerateToken("ayse", RoleAdmin)
	require.NoError(t, err)

	other := NewAuthService("another-secret-another-secret-xx", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenRequiresKnownRole(t *testing.T) {
	svc := NewAuthService(testSecret, time.Hour)
	_, err := svc.GenerateToken("ayse", "owner")
	assert.Error(t, err)
	_, err = svc.GenerateToken("", RoleViewer)
	assert.Error(t, err)
}

func TestRoles(t *testing.T) {
	assert.True(t, CanEdit(RoleEditor))
	assert.False(t, CanEdit(RoleViewer))
	assert.True(t, IsAdmin(RoleSuperAdmin))
	assert.False(t, IsAdmin(RoleEditor))
}
