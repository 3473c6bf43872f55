package repository

import (
	"context"
	"fmt"

	"club-rewards/internal/domain"
	"club-rewards/pkg/database"

	"github.com/jackc/pgx/v5"
)

type SubmissionRepository struct {
	db *database.PostgresDB
}

func NewSubmissionRepository(db *database.PostgresDB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `
	s.id, s.activity_id, s.wallet_address, s.proof_text, COALESCE(s.proof_url, ''),
	s.status, COALESCE(s.review_note, ''), COALESCE(s.reviewer_wallet, ''),
	s.token_reward, a.title, s.created_at, s.reviewed_at
`

// Create inserts a new submission in the pending state
func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, activity_id, wallet_address, proof_text, proof_url, status, token_reward)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		submission.ID,
		submission.ActivityID,
		submission.SubmitterIdentity,
		submission.ProofText,
		submission.ProofURL,
		submission.Status,
		submission.TokenReward,
	).Scan(&submission.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID gets a submission by ID together with its activity title
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		JOIN activities a ON a.id = s.activity_id
		WHERE s.id = $1
	`

	submission, err := r.scanOne(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// ListBySubmitter returns the wallet's own submissions, most recent first
func (r *SubmissionRepository) ListBySubmitter(ctx context.Context, identity string) ([]domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		JOIN activities a ON a.id = s.activity_id
		WHERE s.wallet_address = $1
		ORDER BY s.created_at DESC
	`
	return r.list(ctx, query, identity)
}

// ListPending returns all pending submissions, most recent first
func (r *SubmissionRepository) ListPending(ctx context.Context) ([]domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		JOIN activities a ON a.id = s.activity_id
		WHERE s.status = $1
		ORDER BY s.created_at DESC
	`
	return r.list(ctx, query, domain.StatusPending)
}

// ListAll returns submissions, optionally filtered by status, most recent first
func (r *SubmissionRepository) ListAll(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	if status != "" {
		query := `
			SELECT ` + submissionColumns + `
			FROM submissions s
			JOIN activities a ON a.id = s.activity_id
			WHERE s.status = $1
			ORDER BY s.created_at DESC
		`
		return r.list(ctx, query, status)
	}

	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		JOIN activities a ON a.id = s.activity_id
		ORDER BY s.created_at DESC
	`
	return r.list(ctx, query)
}

// MarkReviewed transitions pending -> status with a compare-and-set so that a
// second review of the same submission always fails.
func (r *SubmissionRepository) MarkReviewed(ctx context.Context, id string, status domain.SubmissionStatus, reviewer, note string) (*domain.Submission, error) {
	query := `
		UPDATE submissions s
		SET status = $2, reviewer_wallet = $3, review_note = NULLIF($4, ''), reviewed_at = NOW()
		FROM activities a
		WHERE s.id = $1 AND s.status = $5 AND a.id = s.activity_id
		RETURNING ` + submissionColumns + `
	`

	submission, err := r.scanOne(r.db.Pool.QueryRow(ctx, query, id, status, reviewer, note, domain.StatusPending))
	if err == pgx.ErrNoRows {
		// Either missing or no longer pending; look it up to tell the two apart.
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, domain.ErrAlreadyReviewed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}

	return submission, nil
}

func (r *SubmissionRepository) scanOne(row pgx.Row) (*domain.Submission, error) {
	var submission domain.Submission
	err := row.Scan(
		&submission.ID,
		&submission.ActivityID,
		&submission.SubmitterIdentity,
		&submission.ProofText,
		&submission.ProofURL,
		&submission.Status,
		&submission.ReviewNote,
		&submission.ReviewerIdentity,
		&submission.TokenReward,
		&submission.ActivityTitle,
		&submission.CreatedAt,
		&submission.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Submission, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var submission domain.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.ActivityID,
			&submission.SubmitterIdentity,
			&submission.ProofText,
			&submission.ProofURL,
			&submission.Status,
			&submission.ReviewNote,
			&submission.ReviewerIdentity,
			&submission.TokenReward,
			&submission.ActivityTitle,
			&submission.CreatedAt,
			&submission.ReviewedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	return submissions, nil
}
