package repository

import (
	"context"

	"club-rewards/internal/domain"
)

// ActivityStore holds the catalog of reward-eligible activities.
type ActivityStore interface {
	Create(ctx context.Context, activity *domain.Activity) error
	Update(ctx context.Context, id string, req *domain.ActivityUpdateRequest) (*domain.Activity, error)
	Deactivate(ctx context.Context, id string) error
	// GetByID returns (nil, nil) when the activity does not exist.
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Activity, error)
}

// SubmissionStore holds submissions and owns their state machine.
type SubmissionStore interface {
	Create(ctx context.Context, submission *domain.Submission) error
	// GetByID returns (nil, nil) when the submission does not exist.
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	ListBySubmitter(ctx context.Context, identity string) ([]domain.Submission, error)
	ListPending(ctx context.Context) ([]domain.Submission, error)
	// ListAll filters by status when status is non-empty.
	ListAll(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error)
	// MarkReviewed transitions pending -> status atomically. Returns
	// domain.ErrAlreadyReviewed when the submission has left pending and
	// domain.ErrSubmissionNotFound when it does not exist.
	MarkReviewed(ctx context.Context, id string, status domain.SubmissionStatus, reviewer, note string) (*domain.Submission, error)
}

// DistributionStore is the durable ledger of settled transfers plus the
// settlement holds that block automatic retries of ambiguous outcomes.
type DistributionStore interface {
	// RecordSettlement atomically inserts the distribution (unique per
	// submission) and transitions the submission pending -> approved.
	// Returns created=false when a distribution already existed, in which
	// case the new proof is discarded.
	RecordSettlement(ctx context.Context, dist *domain.Distribution, reviewer, note string) (created bool, err error)
	// GetBySubmission returns (nil, nil) when no distribution exists.
	GetBySubmission(ctx context.Context, submissionID string) (*domain.Distribution, error)
	List(ctx context.Context) ([]domain.Distribution, error)

	CreateHold(ctx context.Context, submissionID, reason string) error
	// ActiveHold returns (nil, nil) when no unresolved hold exists.
	ActiveHold(ctx context.Context, submissionID string) (*domain.SettlementHold, error)
	ResolveHold(ctx context.Context, submissionID string) error
}

// ModeratorStore is the moderator roster, consulted fresh at session issuance.
type ModeratorStore interface {
	IsModerator(ctx context.Context, wallet string) (bool, error)
	List(ctx context.Context) ([]domain.Moderator, error)
	// Add returns domain.ErrModeratorExists for duplicate wallets.
	Add(ctx context.Context, moderator *domain.Moderator) error
	// Remove returns domain.ErrModeratorNotFound for unknown wallets.
	Remove(ctx context.Context, wallet string) error
}
