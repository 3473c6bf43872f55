package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"club-rewards/internal/domain"
	"club-rewards/internal/repository"
	"club-rewards/pkg/logger"
	"club-rewards/pkg/redis"

	"github.com/golang-jwt/jwt/v5"
)

// signInPrefix is the first line of the message wallets are asked to sign.
const signInPrefix = "Sign in to Blockchain Club"

// clockSkew tolerates small clock drift between client and server.
const clockSkew = 30 * time.Second

// sessionClaims is the token payload: the subject wallet plus the moderator
// flag frozen at issuance.
type sessionClaims struct {
	IsModerator bool `json:"is_moderator"`
	jwt.RegisteredClaims
}

// SessionService issues and validates wallet sessions. Moderator membership
// is read from the roster at issuance time only, so revocation takes effect
// on the next authentication.
type SessionService struct {
	verifier     SignatureVerifier
	moderators   repository.ModeratorStore
	redis        *redis.Client
	secret       []byte
	ttl          time.Duration
	replayWindow time.Duration
	logger       *logger.Logger
}

// NewSessionService creates a new session service. redisClient may be nil,
// in which case re-authentication always issues a fresh token.
func NewSessionService(
	verifier SignatureVerifier,
	moderators repository.ModeratorStore,
	redisClient *redis.Client,
	secret string,
	ttl, replayWindow time.Duration,
	logger *logger.Logger,
) *SessionService {
	return &SessionService{
		verifier:     verifier,
		moderators:   moderators,
		redis:        redisClient,
		secret:       []byte(secret),
		ttl:          ttl,
		replayWindow: replayWindow,
		logger:       logger,
	}
}

// Authenticate verifies a signed sign-in message and issues a session.
func (s *SessionService) Authenticate(ctx context.Context, identity, message, signature string, now time.Time) (*domain.Session, error) {
	wallet, issuedAt, err := parseSignInMessage(message)
	if err != nil || wallet != identity {
		s.logger.WithField("wallet", identity).Debug("Sign-in message rejected")
		return nil, domain.ErrInvalidSignature
	}

	age := now.Sub(issuedAt)
	if age > s.replayWindow || age < -clockSkew {
		s.logger.WithFields(map[string]interface{}{
			"wallet": identity,
			"age":    age.String(),
		}).Info("Stale authentication attempt")
		return nil, domain.ErrStaleAuthAttempt
	}

	if !s.verifier.Verify(identity, message, signature) {
		s.logger.WithField("wallet", identity).Info("Invalid wallet signature")
		return nil, domain.ErrInvalidSignature
	}

	isModerator, err := s.moderators.IsModerator(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to check moderator roster: %w", err)
	}

	// Re-authentication before expiry returns the cached session so wallets
	// are not prompted to sign again for an equivalent credential.
	if cached := s.cachedSession(ctx, identity, now, isModerator); cached != nil {
		return cached, nil
	}

	session, err := s.issue(identity, isModerator, now)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		key := s.redis.KeyBuilder.KeySessionToken(identity)
		if err := s.redis.Set(ctx, key, session.Token, session.ExpiresAt.Sub(now)); err != nil {
			s.logger.WithError(err).Warn("Failed to cache session token")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"wallet":       identity,
		"is_moderator": isModerator,
	}).Info("Session issued")

	return session, nil
}

// Validate checks a session token against the current time. It has no side
// effects and distinguishes expiry from any other defect.
func (s *SessionService) Validate(token string, now time.Time) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionInvalid
	}

	if !parsed.Valid || claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, domain.ErrSessionInvalid
	}

	return &domain.Session{
		Identity:    claims.Subject,
		IsModerator: claims.IsModerator,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
		Token:       token,
	}, nil
}

// Logout drops the cached session token for a wallet.
func (s *SessionService) Logout(ctx context.Context, identity string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Delete(ctx, s.redis.KeyBuilder.KeySessionToken(identity))
}

func (s *SessionService) issue(identity string, isModerator bool, now time.Time) (*domain.Session, error) {
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		IsModerator: isModerator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &domain.Session{
		Identity:    identity,
		IsModerator: isModerator,
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
		Token:       signed,
	}, nil
}

// cachedSession returns the previously issued session if it is still valid
// and its moderator claim matches the current roster.
func (s *SessionService) cachedSession(ctx context.Context, identity string, now time.Time, isModerator bool) *domain.Session {
	if s.redis == nil {
		return nil
	}

	token, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeySessionToken(identity))
	if err != nil || token == "" {
		return nil
	}

	session, err := s.Validate(token, now)
	if err != nil || session.Identity != identity || session.IsModerator != isModerator {
		return nil
	}

	return session
}

// parseSignInMessage extracts the wallet and timestamp from a sign-in
// message of the form:
//
//	Sign in to Blockchain Club
//	Wallet: <address>
//	Timestamp: <unix milliseconds>
func parseSignInMessage(message string) (string, time.Time, error) {
	lines := strings.Split(message, "\n")
	if len(lines) != 3 || lines[0] != signInPrefix {
		return "", time.Time{}, fmt.Errorf("malformed sign-in message")
	}

	wallet := strings.TrimPrefix(lines[1], "Wallet: ")
	if wallet == lines[1] || wallet == "" {
		return "", time.Time{}, fmt.Errorf("sign-in message missing wallet")
	}

	tsText := strings.TrimPrefix(lines[2], "Timestamp: ")
	if tsText == lines[2] {
		return "", time.Time{}, fmt.Errorf("sign-in message missing timestamp")
	}

	millis, err := strconv.ParseInt(tsText, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid sign-in timestamp: %w", err)
	}

	return wallet, time.UnixMilli(millis), nil
}

// SignInMessage builds the message a wallet must sign to authenticate.
// Exposed for clients and tests.
func SignInMessage(wallet string, now time.Time) string {
	return fmt.Sprintf("%s\nWallet: %s\nTimestamp: %d", signInPrefix, wallet, now.UnixMilli())
}
