package token

import (
	"context"
	"sync"
	"testing"
	"time"

	userModel "travel-assistant/models/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlacklist struct {
	mu   sync.Mutex
	jtis map[string]struct{}
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{jtis: make(map[string]struct{})}
}

func (b *memBlacklist) Add(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = struct{}{}
	return nil
}

func (b *memBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.jtis[jti]
	return ok, nil
}

func testUser() *userModel.User {
	return &userModel.User{
		ID:       42,
		Username: "alice",
		Email:    "alice@example.com",
		IsActive: true,
	}
}

func TestGeneratePairAndVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewService("test-secret", newMemBlacklist())

	access, refresh, err := s.GeneratePair(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := s.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims["token_type"])
	assert.Equal(t, "alice@example.com", claims["email"])

	userID, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	refreshClaims, err := s.VerifyRefresh(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims["token_type"])
	assert.NotEmpty(t, refreshClaims["jti"])
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewService("test-secret", newMemBlacklist())

	access, refresh, err := s.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = s.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = s.VerifyRefresh(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	s := NewService("right-secret", newMemBlacklist())
	other := NewService("wrong-secret", newMemBlacklist())

	access, _, err := s.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = other.VerifyAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredAccessToken(t *testing.T) {
	t.Parallel()
	s := NewService("test-secret", newMemBlacklist())

	issued := time.Now()
	s.now = func() time.Time { return issued }

	access, _, err := s.GeneratePair(testUser())
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(AccessTokenTTL + time.Minute) }
	_, err = s.VerifyAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeBlacklistsRefreshToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewService("test-secret", newMemBlacklist())

	_, refresh, err := s.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = s.VerifyRefresh(ctx, refresh)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, refresh))

	_, err = s.VerifyRefresh(ctx, refresh)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)
}

func TestRevokeRejectsAccessToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewService("test-secret", newMemBlacklist())

	access, _, err := s.GeneratePair(testUser())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Revoke(ctx, access), ErrWrongTokenType)
}

func TestRevokeRejectsMalformedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewService("test-secret", newMemBlacklist())

	assert.Error(t, s.Revoke(ctx, "not.a.jwt"))
}

func TestRefreshTokensCarryUniqueJTIs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewService("test-secret", newMemBlacklist())

	_, first, err := s.GeneratePair(testUser())
	require.NoError(t, err)
	_, second, err := s.GeneratePair(testUser())
	require.NoError(t, err)

	firstClaims, err := s.VerifyRefresh(ctx, first)
	require.NoError(t, err)
	secondClaims, err := s.VerifyRefresh(ctx, second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims["jti"], secondClaims["jti"])

	// Revoking one pair leaves the other usable.
	require.NoError(t, s.Revoke(ctx, first))
	_, err = s.VerifyRefresh(ctx, second)
	assert.NoError(t, err)
}
