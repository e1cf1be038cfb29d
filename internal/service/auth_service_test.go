package service

import (
	"testing"
	"time"

	"scrapto/config"
	"scrapto/internal/auth"
	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	nextID uint
	byID   map[uint]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, byID: make(map[uint]*models.User)}
}

func (f *fakeUserStore) Create(u *models.User) error {
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByUsername(username string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Update(u *models.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "scrapto",
		},
	}
}

func TestRegisterIssuesUsableTokens(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(cfg, newFakeUserStore())

	u, access, refresh, err := svc.Register("ravi@example.com", "ravi", "9999999999", "hunter2secret", domain.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.Equal(t, domain.RoleUser, u.Role)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ravi@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegisterRejectsDuplicatesAndBadRole(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserStore())
	_, _, _, err := svc.Register("ravi@example.com", "ravi", "", "hunter2secret", domain.RoleUser)
	require.NoError(t, err)

	_, _, _, err = svc.Register("ravi@example.com", "someone", "", "hunter2secret", domain.RoleUser)
	assert.ErrorIs(t, err, ErrEmailExists)

	_, _, _, err = svc.Register("other@example.com", "ravi", "", "hunter2secret", domain.RoleScrapper)
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, _, _, err = svc.Register("admin@example.com", "admin2", "", "hunter2secret", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginVerifiesPassword(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(cfg, newFakeUserStore())
	_, _, _, err := svc.Register("ravi@example.com", "ravi", "", "hunter2secret", domain.RoleUser)
	require.NoError(t, err)

	u, access, refresh, err := svc.Login("ravi@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	_, err = auth.ParseAccessToken(&cfg.JWT, access)
	assert.NoError(t, err)
	assert.Equal(t, "ravi", u.Username)

	_, _, _, err = svc.Login("ravi@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, _, err = svc.Login("nobody@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testAuthConfig()
	store := newFakeUserStore()
	svc := NewAuthService(cfg, store)
	u, _, refresh, err := svc.Register("ravi@example.com", "ravi", "", "hunter2secret", domain.RoleScrapper)
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, refresh2)
	claims, err := auth.ParseAccessToken(&cfg.JWT, access2)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleScrapper, claims.Role)

	// Garbage and wrong-secret tokens are rejected outright.
	_, _, err = svc.RefreshToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// A refresh token for a since-deleted account cannot mint new tokens.
	delete(store.byID, u.ID)
	_, _, err = svc.RefreshToken(refresh)
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserStore())
	u, _, _, err := svc.Register("ravi@example.com", "ravi", "", "hunter2secret", domain.RoleUser)
	require.NoError(t, err)

	err = svc.ChangePassword(u.ID, "wrong-current", "newpassword99")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	require.NoError(t, svc.ChangePassword(u.ID, "hunter2secret", "newpassword99"))

	_, _, _, err = svc.Login("ravi@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = svc.Login("ravi@example.com", "newpassword99")
	assert.NoError(t, err)
}
