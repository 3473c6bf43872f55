package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"club-rewards/internal/domain"
	"club-rewards/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testWallet struct {
	address string
	priv    ed25519.PrivateKey
}

func newTestWallet(t *testing.T) *testWallet {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &testWallet{address: base58.Encode(pub), priv: priv}
}

func (w *testWallet) sign(message string) string {
	return base58.Encode(ed25519.Sign(w.priv, []byte(message)))
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func newTestSessionService(redisClient *redis.Client, moderators ...string) *SessionService {
	return NewSessionService(
		NewEd25519Verifier(),
		newMemModeratorStore(moderators...),
		redisClient,
		"test-secret",
		24*time.Hour,
		5*time.Minute,
		testLogger(),
	)
}

func TestAuthenticate_IssuesSession(t *testing.T) {
	svc := newTestSessionService(nil)
	wallet := newTestWallet(t)
	now := time.Now()

	message := SignInMessage(wallet.address, now)
	session, err := svc.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)

	require.NoError(t, err)
	assert.Equal(t, wallet.address, session.Identity)
	assert.False(t, session.IsModerator)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), session.ExpiresAt.Unix())

	// The issued token round-trips through Validate.
	validated, err := svc.Validate(session.Token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, wallet.address, validated.Identity)
	assert.False(t, validated.IsModerator)
}

func TestAuthenticate_ModeratorClaim(t *testing.T) {
	wallet := newTestWallet(t)
	svc := newTestSessionService(nil, wallet.address)
	now := time.Now()

	message := SignInMessage(wallet.address, now)
	session, err := svc.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)

	require.NoError(t, err)
	assert.True(t, session.IsModerator)

	validated, err := svc.Validate(session.Token, now)
	require.NoError(t, err)
	assert.True(t, validated.IsModerator)
}

func TestAuthenticate_StaleMessage(t *testing.T) {
	svc := newTestSessionService(nil)
	wallet := newTestWallet(t)
	now := time.Now()

	tests := []struct {
		name     string
		signedAt time.Time
	}{
		{"older than replay window", now.Add(-6 * time.Minute)},
		{"far in the future", now.Add(2 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := SignInMessage(wallet.address, tt.signedAt)
			_, err := svc.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)
			assert.ErrorIs(t, err, domain.ErrStaleAuthAttempt)
		})
	}
}

func TestAuthenticate_WalletMismatch(t *testing.T) {
	svc := newTestSessionService(nil)
	wallet := newTestWallet(t)
	other := newTestWallet(t)
	now := time.Now()

	// Message names a different wallet than the claimed identity.
	message := SignInMessage(other.address, now)
	_, err := svc.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestAuthenticate_BadSignature(t *testing.T) {
	svc := newTestSessionService(nil)
	wallet := newTestWallet(t)
	forger := newTestWallet(t)
	now := time.Now()

	message := SignInMessage(wallet.address, now)
	_, err := svc.Authenticate(context.Background(), wallet.address, message, forger.sign(message), now)

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestAuthenticate_MalformedMessage(t *testing.T) {
	svc := newTestSessionService(nil)
	wallet := newTestWallet(t)
	now := time.Now()

	for _, message := range []string{
		"",
		"Sign in to Somewhere Else\nWallet: x\nTimestamp: 1",
		"Sign in to Blockchain Club\nWallet: \nTimestamp: 1",
		"Sign in to Blockchain Club\nWallet: " + wallet.address + "\nTimestamp: soon",
	} {
		_, err := svc.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature, "message %q", message)
	}
}

func TestAuthenticate_ReauthReturnsCachedToken(t *testing.T) {
	wallet := newTestWallet(t)
	svc := newTestSessionService(newTestRedis(t))
	now := time.Now()

	first := SignInMessage(wallet.address, now)
	session1, err := svc.Authenticate(context.Background(), wallet.address, first, wallet.sign(first), now)
	require.NoError(t, err)

	// A fresh signature a minute later reuses the outstanding session.
	later := now.Add(time.Minute)
	second := SignInMessage(wallet.address, later)
	session2, err := svc.Authenticate(context.Background(), wallet.address, second, wallet.sign(second), later)
	require.NoError(t, err)

	assert.Equal(t, session1.Token, session2.Token)
}

func TestAuthenticate_ReauthAfterRosterChange(t *testing.T) {
	wallet := newTestWallet(t)
	moderators := newMemModeratorStore()
	svc := NewSessionService(NewEd25519Verifier(), moderators, newTestRedis(t), "test-secret", 24*time.Hour, 5*time.Minute, testLogger())
	now := time.Now()

	first := SignInMessage(wallet.address, now)
	session1, err := svc.Authenticate(context.Background(), wallet.address, first, wallet.sign(first), now)
	require.NoError(t, err)
	assert.False(t, session1.IsModerator)

	// Promotion invalidates the cached session on the next authentication.
	require.NoError(t, moderators.Add(context.Background(), &domain.Moderator{ID: "m1", WalletAddress: wallet.address}))

	later := now.Add(time.Minute)
	second := SignInMessage(wallet.address, later)
	session2, err := svc.Authenticate(context.Background(), wallet.address, second, wallet.sign(second), later)
	require.NoError(t, err)

	assert.True(t, session2.IsModerator)
	assert.NotEqual(t, session1.Token, session2.Token)
}

func TestLogout_DropsCachedSession(t *testing.T) {
	wallet := newTestWallet(t)
	svc := newTestSessionService(newTestRedis(t))
	now := time.Now()

	first := SignInMessage(wallet.address, now)
	session1, err := svc.Authenticate(context.Background(), wallet.address, first, wallet.sign(first), now)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), wallet.address))

	later := now.Add(2 * time.Second)
	second := SignInMessage(wallet.address, later)
	session2, err := svc.Authenticate(context.Background(), wallet.address, second, wallet.sign(second), later)
	require.NoError(t, err)

	assert.NotEqual(t, session1.Token, session2.Token)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestSessionService(nil)
	wallet := newTestWallet(t)
	now := time.Now()

	message := SignInMessage(wallet.address, now)
	session, err := svc.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)
	require.NoError(t, err)

	_, err = svc.Validate(session.Token, now.Add(24*time.Hour+time.Minute))
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestValidate_Garbage(t *testing.T) {
	svc := newTestSessionService(nil)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Validate(token, time.Now())
		assert.ErrorIs(t, err, domain.ErrSessionInvalid, "token %q", token)
	}
}

func TestValidate_MissingClaims(t *testing.T) {
	svc := newTestSessionService(nil)
	now := time.Now()

	// Tokens signed with the right secret but missing required claims.
	cases := map[string]jwt.Claims{
		"no subject": &sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}},
		"no expiry": &sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "wallet1",
			IssuedAt: jwt.NewNumericDate(now),
		}},
	}

	for name, claims := range cases {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.Validate(token, now)
		assert.ErrorIs(t, err, domain.ErrSessionInvalid, name)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	wallet := newTestWallet(t)
	now := time.Now()

	issuer := NewSessionService(NewEd25519Verifier(), newMemModeratorStore(), nil, "secret-a", 24*time.Hour, 5*time.Minute, testLogger())
	validator := NewSessionService(NewEd25519Verifier(), newMemModeratorStore(), nil, "secret-b", 24*time.Hour, 5*time.Minute, testLogger())

	message := SignInMessage(wallet.address, now)
	session, err := issuer.Authenticate(context.Background(), wallet.address, message, wallet.sign(message), now)
	require.NoError(t, err)

	_, err = validator.Validate(session.Token, now)
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)
}
