package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"club-rewards/internal/domain"
	"club-rewards/internal/repository"
	"club-rewards/pkg/logger"
	"club-rewards/pkg/redis"

	"github.com/google/uuid"
)

// ambiguousError is implemented by transfer errors whose outcome is unknown.
type ambiguousError interface {
	Ambiguous() bool
}

// SettlementCoordinator couples a moderator's approval decision to the
// external token transfer and its durable record. It owns the exactly-once
// guarantees: a per-submission intent lock serializes settlement attempts,
// the distribution ledger's submission uniqueness absorbs crash re-entries,
// and ambiguous transfer outcomes are parked behind a durable hold instead
// of being retried.
type SettlementCoordinator struct {
	submissions   repository.SubmissionStore
	distributions repository.DistributionStore
	executor      TransferExecutor
	redis         *redis.Client

	treasury        string
	transferTimeout time.Duration
	logger          *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSettlementCoordinator creates a new settlement coordinator. redisClient
// may be nil in single-replica deployments; the in-process lock table still
// serializes settlements per submission.
func NewSettlementCoordinator(
	submissions repository.SubmissionStore,
	distributions repository.DistributionStore,
	executor TransferExecutor,
	redisClient *redis.Client,
	treasury string,
	transferTimeout time.Duration,
	logger *logger.Logger,
) *SettlementCoordinator {
	return &SettlementCoordinator{
		submissions:     submissions,
		distributions:   distributions,
		executor:        executor,
		redis:           redisClient,
		treasury:        treasury,
		transferTimeout: transferTimeout,
		logger:          logger,
		inFlight:        make(map[string]struct{}),
	}
}

// ApproveAndSettle runs approve -> transfer -> confirm -> record for one
// submission. Concurrent calls for the same submission lose the intent lock
// and fail fast with ErrSettlementInFlight; a pre-submission transfer failure
// leaves the submission pending and retryable; an ambiguous outcome records a
// hold that blocks automatic retries until a moderator reconciles it.
func (c *SettlementCoordinator) ApproveAndSettle(ctx context.Context, submissionID string, reviewer *domain.Session, note string) (*domain.Distribution, error) {
	if err := RequireModerator(reviewer); err != nil {
		return nil, err
	}

	if !c.acquireIntent(ctx, submissionID) {
		return nil, domain.ErrSettlementInFlight
	}
	defer c.releaseIntent(ctx, submissionID)

	hold, err := c.distributions.ActiveHold(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if hold != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSettlementAmbiguous, hold.Reason)
	}

	submission, err := c.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, domain.ErrSubmissionNotFound
	}
	if submission.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyReviewed
	}

	transferCtx, cancel := context.WithTimeout(ctx, c.transferTimeout)
	defer cancel()

	proof, err := c.executor.Execute(transferCtx, c.treasury, submission.SubmitterIdentity, submission.TokenReward)
	if err != nil {
		return nil, c.classifyTransferFailure(ctx, submissionID, err)
	}

	dist := &domain.Distribution{
		ID:            uuid.NewString(),
		SubmissionID:  submission.ID,
		FromIdentity:  c.treasury,
		ToIdentity:    submission.SubmitterIdentity,
		Amount:        submission.TokenReward,
		TransferProof: proof,
	}

	reviewNote := note
	if reviewNote == "" {
		reviewNote = "approved"
	}
	reviewNote = fmt.Sprintf("%s (transfer %s)", reviewNote, proof)

	created, err := c.distributions.RecordSettlement(ctx, dist, reviewer.Identity, reviewNote)
	if err != nil {
		// The transfer succeeded but the record did not land. Surface this as
		// ambiguous so nobody re-runs the transfer before reconciling.
		c.flagAmbiguous(ctx, submissionID, fmt.Sprintf("transfer %s confirmed but settlement record failed: %v", proof, err))
		return nil, fmt.Errorf("%w: transfer %s confirmed but not recorded", domain.ErrSettlementAmbiguous, proof)
	}

	if !created {
		// Idempotent re-entry after a crash between transfer and record: the
		// original distribution wins, this proof is discarded.
		existing, getErr := c.distributions.GetBySubmission(ctx, submission.ID)
		if getErr == nil && existing != nil {
			c.logger.WithFields(map[string]interface{}{
				"submission_id": submission.ID,
				"tx_signature":  existing.TransferProof,
			}).Warn("Submission already settled, discarding duplicate proof")
			return existing, nil
		}
		return dist, nil
	}

	c.logger.WithFields(map[string]interface{}{
		"submission_id": submission.ID,
		"to_wallet":     submission.SubmitterIdentity,
		"amount":        submission.TokenReward,
		"tx_signature":  proof,
	}).Info("Submission settled")

	return dist, nil
}

// Reject transitions a pending submission to rejected. No transfer, no lock
// beyond the state machine's own compare-and-set. A submission with an
// unresolved settlement hold may already have been paid out, so it cannot be
// rejected until a moderator reconciles the hold.
func (c *SettlementCoordinator) Reject(ctx context.Context, submissionID string, reviewer *domain.Session, note string) (*domain.Submission, error) {
	if err := RequireModerator(reviewer); err != nil {
		return nil, err
	}

	hold, err := c.distributions.ActiveHold(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if hold != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSettlementAmbiguous, hold.Reason)
	}

	submission, err := c.submissions.MarkReviewed(ctx, submissionID, domain.StatusRejected, reviewer.Identity, note)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"submission_id": submissionID,
		"reviewer":      reviewer.Identity,
	}).Info("Submission rejected")

	return submission, nil
}

// Reconcile records a transfer observed externally, used after an ambiguous
// settlement. It is idempotent on submission, approves the submission if
// still pending and clears the hold. A rejected submission cannot be
// reconciled: a distribution always implies an approved submission.
func (c *SettlementCoordinator) Reconcile(ctx context.Context, reviewer *domain.Session, req *domain.DistributionRecordRequest) (*domain.Distribution, error) {
	if err := RequireModerator(reviewer); err != nil {
		return nil, err
	}

	submission, err := c.submissions.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, domain.ErrSubmissionNotFound
	}
	if submission.Status == domain.StatusRejected {
		return nil, domain.ErrAlreadyReviewed
	}

	dist := &domain.Distribution{
		ID:            uuid.NewString(),
		SubmissionID:  req.SubmissionID,
		FromIdentity:  req.FromIdentity,
		ToIdentity:    req.ToIdentity,
		Amount:        req.Amount,
		TransferProof: req.TransferProof,
	}

	note := fmt.Sprintf("reconciled (transfer %s)", req.TransferProof)
	created, err := c.distributions.RecordSettlement(ctx, dist, reviewer.Identity, note)
	if err != nil {
		return nil, err
	}

	if err := c.distributions.ResolveHold(ctx, req.SubmissionID); err != nil {
		c.logger.WithError(err).Warn("Failed to resolve settlement hold")
	}

	if !created {
		existing, getErr := c.distributions.GetBySubmission(ctx, req.SubmissionID)
		if getErr == nil && existing != nil {
			return existing, nil
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"submission_id": req.SubmissionID,
		"tx_signature":  req.TransferProof,
	}).Info("Distribution reconciled")

	return dist, nil
}

// ListDistributions returns the settled transfer ledger
func (c *SettlementCoordinator) ListDistributions(ctx context.Context, session *domain.Session) ([]domain.Distribution, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	return c.distributions.List(ctx)
}

// classifyTransferFailure maps an executor error to the retryable or
// ambiguous settlement outcome.
func (c *SettlementCoordinator) classifyTransferFailure(ctx context.Context, submissionID string, err error) error {
	var amb ambiguousError
	if (errors.As(err, &amb) && amb.Ambiguous()) || errors.Is(err, context.DeadlineExceeded) {
		c.flagAmbiguous(ctx, submissionID, err.Error())
		return fmt.Errorf("%w: %v", domain.ErrSettlementAmbiguous, err)
	}

	c.logger.WithError(err).WithField("submission_id", submissionID).Warn("Transfer failed before submission, settlement retryable")
	return fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
}

func (c *SettlementCoordinator) flagAmbiguous(ctx context.Context, submissionID, reason string) {
	c.logger.WithFields(map[string]interface{}{
		"submission_id": submissionID,
		"reason":        reason,
	}).Error("Settlement outcome ambiguous, manual reconciliation required")

	// The hold must land even if the request context is gone.
	holdCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := c.distributions.CreateHold(holdCtx, submissionID, reason); err != nil {
		c.logger.WithError(err).Error("Failed to record settlement hold")
	}
}

// acquireIntent takes the per-submission exclusive settlement intent: the
// in-process table first, then the shared Redis lock when configured.
func (c *SettlementCoordinator) acquireIntent(ctx context.Context, submissionID string) bool {
	c.mu.Lock()
	if _, exists := c.inFlight[submissionID]; exists {
		c.mu.Unlock()
		return false
	}
	c.inFlight[submissionID] = struct{}{}
	c.mu.Unlock()

	if c.redis != nil {
		key := c.redis.KeyBuilder.KeySettlementLock(submissionID)
		ok, err := c.redis.SetNX(ctx, key, "1", redis.TTLSettlementLock)
		if err != nil {
			// Redis being down must not wedge settlement; the in-process
			// lock still guards this replica.
			c.logger.WithError(err).Warn("Settlement lock unavailable in Redis, relying on local lock")
			return true
		}
		if !ok {
			c.mu.Lock()
			delete(c.inFlight, submissionID)
			c.mu.Unlock()
			return false
		}
	}

	return true
}

func (c *SettlementCoordinator) releaseIntent(ctx context.Context, submissionID string) {
	if c.redis != nil {
		key := c.redis.KeyBuilder.KeySettlementLock(submissionID)
		if err := c.redis.Delete(context.WithoutCancel(ctx), key); err != nil {
			c.logger.WithError(err).Warn("Failed to release settlement lock")
		}
	}

	c.mu.Lock()
	delete(c.inFlight, submissionID)
	c.mu.Unlock()
}
