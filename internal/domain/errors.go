package domain

import "errors"

// Authentication errors, surfaced to the caller and never retried silently.
var (
	ErrInvalidSignature = errors.New("invalid wallet signature")
	ErrStaleAuthAttempt = errors.New("sign-in message timestamp outside the replay window")
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionInvalid   = errors.New("session token invalid")
)

// Authorization errors.
var (
	ErrNotModerator = errors.New("moderator access required")
)

// State errors: the requested operation is aborted with no side effect.
var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrActivityNotActive  = errors.New("activity is not active")
	ErrEmptyProof         = errors.New("proof text is required")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyReviewed    = errors.New("submission already reviewed")
	ErrModeratorExists    = errors.New("wallet is already a moderator")
	ErrModeratorNotFound  = errors.New("moderator not found")
	ErrSelfRemoval        = errors.New("cannot remove yourself as moderator")
)

// Settlement errors. ErrTransferFailed means the transfer was rejected before
// submission and settlement may be retried. ErrSettlementAmbiguous means the
// transfer may have been accepted externally; automatic retries are blocked
// until a moderator reconciles the submission.
var (
	ErrSettlementInFlight  = errors.New("settlement already in flight for this submission")
	ErrSettlementAmbiguous = errors.New("transfer outcome ambiguous, manual reconciliation required")
	ErrTransferFailed      = errors.New("token transfer failed before submission")
)
