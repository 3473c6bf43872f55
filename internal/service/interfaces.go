package service

import (
	"context"
	"time"

	"club-rewards/internal/domain"
)

// SignatureVerifier validates that a claimed wallet address produced a
// signature over a message. Implementations fail closed: malformed input is
// invalid, never an error surfaced to caller logic.
type SignatureVerifier interface {
	Verify(identity, message, signature string) bool
}

// SessionIssuer turns a verified wallet identity into a time-bounded session
// credential and validates credentials on later requests.
type SessionIssuer interface {
	// Authenticate verifies the signed sign-in message and issues a session.
	// Re-authentication with the same identity before expiry is idempotent.
	Authenticate(ctx context.Context, identity, message, signature string, now time.Time) (*domain.Session, error)

	// Validate is a pure function of the token claims and current time.
	Validate(token string, now time.Time) (*domain.Session, error)

	// Logout drops the cached session so the next authentication reissues.
	Logout(ctx context.Context, identity string) error
}

// TransferExecutor is the external transfer-execution capability. Execute
// returns a transfer proof (a confirmed transaction reference) on success.
// Errors implementing `Ambiguous() bool` with a true result mean the transfer
// may have been accepted externally and must not be retried automatically.
type TransferExecutor interface {
	Execute(ctx context.Context, from, to string, amount int64) (string, error)
}

// BalanceQuerier is the external ledger balance-query capability.
type BalanceQuerier interface {
	Balance(ctx context.Context, wallet string) (*domain.BalanceResponse, error)
}

// RequireModerator is the authorization gate: every moderator-only operation
// calls it before mutating state.
func RequireModerator(session *domain.Session) error {
	if session == nil || !session.IsModerator {
		return domain.ErrNotModerator
	}
	return nil
}
