package service

import (
	"testing"
	"time"

	"github.com/nchhillar2004/chainex/config"
	"github.com/nchhillar2004/chainex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig(userCap int) *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "chainex-test",
		},
		Platform: config.PlatformConfig{UserCap: userCap, LeaderboardLimit: 10},
	}
}

func newAuthService(db *gorm.DB, userCap int) *AuthService {
	return NewAuthService(testConfig(userCap), repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, 100)

	u, access, refresh, err := svc.Register("newuser", "secret-password", nil)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, 1, u.Level)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	logged, access2, _, err := svc.Login("newuser", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, access2)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, 100)

	_, _, _, err := svc.Register("taken", "secret-password", nil)
	require.NoError(t, err)
	_, _, _, err = svc.Register("taken", "another-password", nil)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, 100)

	email := "shared@example.com"
	_, _, _, err := svc.Register("first", "secret-password", &email)
	require.NoError(t, err)
	_, _, _, err = svc.Register("second", "secret-password", &email)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, 100)

	_, _, _, err := svc.Register("victim", "correct-password", nil)
	require.NoError(t, err)

	_, _, _, err = svc.Login("victim", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	// Unknown usernames report the same failure as bad passwords.
	_, _, _, err = svc.Login("nobody", "whatever-password")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRegisterUserCap(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, 1)

	_, _, _, err := svc.Register("first", "secret-password", nil)
	require.NoError(t, err)
	_, _, _, err = svc.Register("second", "secret-password", nil)
	assert.ErrorIs(t, err, ErrUserCapReached)
}

func TestRefreshRotatesTokens(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, 100)

	_, _, refresh, err := svc.Register("refresher", "secret-password", nil)
	require.NoError(t, err)

	access2, refresh2, err := svc.Refresh(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEmpty(t, refresh2)

	_, _, err = svc.Refresh("not-a-token")
	assert.Error(t, err)
}
