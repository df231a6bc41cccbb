package jwt_test

import (
	"strings"
	"testing"
	"time"

	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-for-hs256"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newService(t *testing.T, accessTTL, refreshTTL time.Duration) (*jwt.TokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc := jwt.NewTokenService(jwt.Config{
		Secret:     testSecret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, jwt.WithClock(clock.Now))
	return svc, clock
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{
		UserID:      42,
		Username:    "alice",
		Email:       "alice@x.com",
		Authorities: []string{"USER_READ", "DECISION_WRITE"},
		Roles:       []string{"MANAGER"},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, _ := newService(t, 15*time.Minute, 24*time.Hour)
	p := testPrincipal()

	token, err := svc.IssueAccessToken(p)
	require.NoError(t, err)

	assert.True(t, svc.Validate(token))
	assert.False(t, svc.IsExpired(token))
	assert.Equal(t, "alice", svc.Subject(token))
	assert.Equal(t, uint(42), svc.UserID(token))
	assert.Equal(t, []string{"USER_READ", "DECISION_WRITE"}, svc.Authorities(token))
	assert.Equal(t, []string{"MANAGER"}, svc.Roles(token))
	assert.Empty(t, svc.TokenType(token))
	assert.Equal(t, time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC), svc.Expiry(token).UTC())

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, p, claims.Principal())
}

func TestRefreshTokenCarriesNoAuthorities(t *testing.T) {
	svc, _ := newService(t, time.Minute, 24*time.Hour)

	token, err := svc.IssueRefreshToken(testPrincipal())
	require.NoError(t, err)

	assert.True(t, svc.Validate(token))
	assert.Equal(t, jwt.TokenTypeRefresh, svc.TokenType(token))
	assert.Equal(t, "alice", svc.Subject(token))
	assert.Equal(t, uint(42), svc.UserID(token))
	assert.Empty(t, svc.Authorities(token))
}

func TestZeroTTLIsExpired(t *testing.T) {
	svc, _ := newService(t, 0, 0)

	token, err := svc.IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	assert.True(t, svc.IsExpired(token))
	assert.False(t, svc.Validate(token))

	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestClockAdvancedPastExpiry(t *testing.T) {
	svc, clock := newService(t, 30*time.Second, time.Hour)

	token, err := svc.IssueAccessToken(testPrincipal())
	require.NoError(t, err)
	require.True(t, svc.Validate(token))

	clock.Advance(29 * time.Second)
	assert.False(t, svc.IsExpired(token))

	clock.Advance(time.Second)
	assert.True(t, svc.IsExpired(token))
	assert.False(t, svc.Validate(token))
}

func TestValidateFailsClosed(t *testing.T) {
	svc, _ := newService(t, time.Minute, time.Hour)

	inputs := []string{
		"",
		"garbage",
		"a.b.c",
		"...",
		strings.Repeat("x", 4096),
		"eyJhbGciOiJub25lIn0.eyJzdWIiOiJhbGljZSJ9.",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.False(t, svc.Validate(in), "input %q", in)
			assert.True(t, svc.IsExpired(in), "input %q", in)
		})
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	svc, _ := newService(t, time.Minute, time.Hour)
	other := jwt.NewTokenService(jwt.Config{Secret: "another-secret", AccessTTL: time.Minute})

	token, err := other.IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	assert.False(t, svc.Validate(token))
	assert.True(t, svc.IsExpired(token))
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	svc, _ := newService(t, time.Minute, time.Hour)

	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.False(t, svc.Validate(token))
}
