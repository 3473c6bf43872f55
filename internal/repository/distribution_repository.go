package repository

import (
	"context"
	"fmt"

	"club-rewards/internal/domain"
	"club-rewards/pkg/database"

	"github.com/jackc/pgx/v5"
)

type DistributionRepository struct {
	db *database.PostgresDB
}

func NewDistributionRepository(db *database.PostgresDB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// RecordSettlement writes the distribution row and the submission transition
// in one transaction. The unique index on submission_id makes re-entry after a
// crash idempotent: the existing row wins and the new proof is discarded. The
// submission must end up approved; recording against a rejected submission
// rolls back with domain.ErrAlreadyReviewed so the ledger never references a
// rejected submission.
func (r *DistributionRepository) RecordSettlement(ctx context.Context, dist *domain.Distribution, reviewer, note string) (bool, error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		INSERT INTO token_distributions (id, submission_id, from_wallet, to_wallet, amount, tx_signature)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (submission_id) DO NOTHING
	`,
		dist.ID,
		dist.SubmissionID,
		dist.FromIdentity,
		dist.ToIdentity,
		dist.Amount,
		dist.TransferProof,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record distribution: %w", err)
	}
	created := ct.RowsAffected() == 1

	// CAS on pending keeps the transition one-shot; a re-entry after a crash
	// between transfer and record still approves the submission here.
	updated, err := tx.Exec(ctx, `
		UPDATE submissions
		SET status = $2, reviewer_wallet = $3, review_note = NULLIF($4, ''), reviewed_at = NOW()
		WHERE id = $1 AND status = $5
	`, dist.SubmissionID, domain.StatusApproved, reviewer, note, domain.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to approve submission: %w", err)
	}

	// The CAS missing is fine only when an earlier settlement already
	// approved the submission. Any other terminal state aborts the whole
	// transaction, distribution insert included.
	if updated.RowsAffected() == 0 {
		var status string
		if err := tx.QueryRow(ctx, `SELECT status FROM submissions WHERE id = $1`, dist.SubmissionID).Scan(&status); err != nil {
			return false, fmt.Errorf("failed to check submission status: %w", err)
		}
		if status != string(domain.StatusApproved) {
			return false, domain.ErrAlreadyReviewed
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return created, nil
}

// GetBySubmission gets the distribution for a submission, if any
func (r *DistributionRepository) GetBySubmission(ctx context.Context, submissionID string) (*domain.Distribution, error) {
	var dist domain.Distribution
	query := `
		SELECT id, submission_id, from_wallet, to_wallet, amount, tx_signature, created_at
		FROM token_distributions
		WHERE submission_id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, submissionID).Scan(
		&dist.ID,
		&dist.SubmissionID,
		&dist.FromIdentity,
		&dist.ToIdentity,
		&dist.Amount,
		&dist.TransferProof,
		&dist.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distribution: %w", err)
	}

	return &dist, nil
}

// List returns all distributions, most recent first
func (r *DistributionRepository) List(ctx context.Context) ([]domain.Distribution, error) {
	query := `
		SELECT id, submission_id, from_wallet, to_wallet, amount, tx_signature, created_at
		FROM token_distributions
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	var distributions []domain.Distribution
	for rows.Next() {
		var dist domain.Distribution
		err := rows.Scan(
			&dist.ID,
			&dist.SubmissionID,
			&dist.FromIdentity,
			&dist.ToIdentity,
			&dist.Amount,
			&dist.TransferProof,
			&dist.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		distributions = append(distributions, dist)
	}

	return distributions, nil
}

// CreateHold flags a submission whose transfer outcome is ambiguous
func (r *DistributionRepository) CreateHold(ctx context.Context, submissionID, reason string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO settlement_holds (submission_id, reason)
		VALUES ($1, $2)
		ON CONFLICT (submission_id) DO UPDATE
		SET reason = EXCLUDED.reason, resolved_at = NULL
	`, submissionID, reason)
	if err != nil {
		return fmt.Errorf("failed to create settlement hold: %w", err)
	}
	return nil
}

// ActiveHold gets the unresolved hold for a submission, if any
func (r *DistributionRepository) ActiveHold(ctx context.Context, submissionID string) (*domain.SettlementHold, error) {
	var hold domain.SettlementHold
	query := `
		SELECT submission_id, reason, created_at, resolved_at
		FROM settlement_holds
		WHERE submission_id = $1 AND resolved_at IS NULL
	`

	err := r.db.Pool.QueryRow(ctx, query, submissionID).Scan(
		&hold.SubmissionID,
		&hold.Reason,
		&hold.CreatedAt,
		&hold.ResolvedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement hold: %w", err)
	}

	return &hold, nil
}

// ResolveHold clears the hold after manual reconciliation
func (r *DistributionRepository) ResolveHold(ctx context.Context, submissionID string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE settlement_holds SET resolved_at = NOW()
		WHERE submission_id = $1 AND resolved_at IS NULL
	`, submissionID)
	if err != nil {
		return fmt.Errorf("failed to resolve settlement hold: %w", err)
	}
	return nil
}
