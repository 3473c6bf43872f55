package service

import (
	"context"
	"strings"

	"club-rewards/internal/domain"
	"club-rewards/internal/repository"
	"club-rewards/pkg/logger"

	"github.com/google/uuid"
)

// SubmissionService creates submissions and serves their read projections.
// Review transitions are owned by the SettlementCoordinator.
type SubmissionService struct {
	submissions repository.SubmissionStore
	activities  repository.ActivityStore
	logger      *logger.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(submissions repository.SubmissionStore, activities repository.ActivityStore, logger *logger.Logger) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		activities:  activities,
		logger:      logger,
	}
}

// Create submits proof for an activity. The token reward is snapshotted from
// the activity so later catalog edits cannot change what this submission pays.
func (s *SubmissionService) Create(ctx context.Context, identity string, req *domain.SubmissionCreateRequest) (*domain.Submission, error) {
	if strings.TrimSpace(req.ProofText) == "" {
		return nil, domain.ErrEmptyProof
	}

	activity, err := s.activities.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil || !activity.IsActive {
		return nil, domain.ErrActivityNotActive
	}

	submission := &domain.Submission{
		ID:                uuid.NewString(),
		ActivityID:        activity.ID,
		SubmitterIdentity: identity,
		ProofText:         req.ProofText,
		ProofURL:          req.ProofURL,
		Status:            domain.StatusPending,
		TokenReward:       activity.TokenReward,
		ActivityTitle:     activity.Title,
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"submission_id": submission.ID,
		"activity_id":   activity.ID,
		"token_reward":  submission.TokenReward,
	}).Info("Submission created")

	return submission, nil
}

// ListMine returns the caller's own submissions, most recent first
func (s *SubmissionService) ListMine(ctx context.Context, identity string) ([]domain.Submission, error) {
	return s.submissions.ListBySubmitter(ctx, identity)
}

// ListPending returns all pending submissions for moderator review
func (s *SubmissionService) ListPending(ctx context.Context, session *domain.Session) ([]domain.Submission, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	return s.submissions.ListPending(ctx)
}

// ListAll returns submissions, optionally filtered by status
func (s *SubmissionService) ListAll(ctx context.Context, session *domain.Session, status domain.SubmissionStatus) ([]domain.Submission, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	return s.submissions.ListAll(ctx, status)
}
