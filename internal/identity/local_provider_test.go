package identity_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gearnix/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func newProvider(t *testing.T) *identity.LocalProvider {
	t.Helper()
	dsn := fmt.Sprintf("file:identity_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	provider, err := identity.NewLocalProvider(db)
	require.NoError(t, err)
	return provider
}

func TestLocalProviderRegisterAndLogin(t *testing.T) {
	provider := newProvider(t)

	userID, err := provider.Register("gamer@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	loginID, err := provider.Login("gamer@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, userID, loginID)
}

func TestLocalProviderDuplicateEmail(t *testing.T) {
	provider := newProvider(t)

	_, err := provider.Register("gamer@example.com", "password123")
	require.NoError(t, err)

	_, err = provider.Register("gamer@example.com", "other-password")
	assert.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestLocalProviderWrongPassword(t *testing.T) {
	provider := newProvider(t)

	_, err := provider.Register("gamer@example.com", "password123")
	require.NoError(t, err)

	_, err = provider.Login("gamer@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLocalProviderUnknownEmail(t *testing.T) {
	provider := newProvider(t)

	_, err := provider.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
