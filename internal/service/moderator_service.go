package service

import (
	"context"
	"fmt"
	"strings"

	"club-rewards/internal/domain"
	"club-rewards/internal/repository"
	"club-rewards/pkg/logger"

	"github.com/google/uuid"
)

// ModeratorService manages the moderator roster. Roster changes take effect
// on a wallet's next authentication; outstanding sessions keep the claim they
// were issued with until they expire.
type ModeratorService struct {
	moderators repository.ModeratorStore
	logger     *logger.Logger
}

func NewModeratorService(moderators repository.ModeratorStore, logger *logger.Logger) *ModeratorService {
	return &ModeratorService{
		moderators: moderators,
		logger:     logger,
	}
}

// Check echoes the caller's moderator claim.
func (s *ModeratorService) Check(session *domain.Session) *domain.ModeratorCheckResponse {
	return &domain.ModeratorCheckResponse{
		WalletAddress: session.Identity,
		IsModerator:   session.IsModerator,
	}
}

func (s *ModeratorService) List(ctx context.Context, session *domain.Session) ([]domain.Moderator, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	return s.moderators.List(ctx)
}

func (s *ModeratorService) Add(ctx context.Context, session *domain.Session, req *domain.ModeratorAddRequest) (*domain.Moderator, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}

	wallet := strings.TrimSpace(req.WalletAddress)
	if wallet == "" {
		return nil, fmt.Errorf("wallet address is required")
	}
	moderator := &domain.Moderator{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		Name:          strings.TrimSpace(req.Name),
	}

	if err := s.moderators.Add(ctx, moderator); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"wallet":   wallet,
		"added_by": session.Identity,
	}).Info("Moderator added")

	return moderator, nil
}

// Remove drops a wallet from the roster. Removing yourself is refused so the
// roster can never be emptied by its last member.
func (s *ModeratorService) Remove(ctx context.Context, session *domain.Session, wallet string) error {
	if err := RequireModerator(session); err != nil {
		return err
	}

	if wallet == session.Identity {
		return domain.ErrSelfRemoval
	}

	if err := s.moderators.Remove(ctx, wallet); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"wallet":     wallet,
		"removed_by": session.Identity,
	}).Info("Moderator removed")

	return nil
}
