package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"club-rewards/internal/domain"
	"club-rewards/internal/repository"
	"club-rewards/pkg/logger"
	"club-rewards/pkg/redis"

	"github.com/google/uuid"
)

// ActivityService manages the reward-eligible activity catalog. Mutations are
// moderator-only; reads are open to any session and cached briefly since the
// catalog is read-mostly and reward snapshots decouple submissions from edits.
type ActivityService struct {
	activities repository.ActivityStore
	redis      *redis.Client
	logger     *logger.Logger
}

// NewActivityService creates a new activity service. redisClient may be nil.
func NewActivityService(activities repository.ActivityStore, redisClient *redis.Client, logger *logger.Logger) *ActivityService {
	return &ActivityService{
		activities: activities,
		redis:      redisClient,
		logger:     logger,
	}
}

// Create adds a new activity to the catalog
func (s *ActivityService) Create(ctx context.Context, session *domain.Session, req *domain.ActivityCreateRequest) (*domain.Activity, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("activity title is required")
	}
	if req.TokenReward < 0 {
		return nil, fmt.Errorf("token reward must not be negative")
	}

	category := req.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("unknown activity category: %s", category)
	}

	activity := &domain.Activity{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		TokenReward: req.TokenReward,
		Category:    category,
		IsActive:    true,
		CreatedBy:   session.Identity,
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, activity.ID)

	s.logger.WithFields(map[string]interface{}{
		"activity_id":  activity.ID,
		"token_reward": activity.TokenReward,
		"category":     activity.Category,
	}).Info("Activity created")

	return activity, nil
}

// Update partially updates an activity
func (s *ActivityService) Update(ctx context.Context, session *domain.Session, id string, req *domain.ActivityUpdateRequest) (*domain.Activity, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}

	if req.TokenReward != nil && *req.TokenReward < 0 {
		return nil, fmt.Errorf("token reward must not be negative")
	}
	if req.Category != nil && !domain.ValidCategory(*req.Category) {
		return nil, fmt.Errorf("unknown activity category: %s", *req.Category)
	}

	activity, err := s.activities.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, id)

	return activity, nil
}

// Deactivate logically deletes an activity. Existing submissions keep the
// reward snapshot taken at submit time.
func (s *ActivityService) Deactivate(ctx context.Context, session *domain.Session, id string) error {
	if err := RequireModerator(session); err != nil {
		return err
	}

	if err := s.activities.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidateCaches(ctx, id)

	s.logger.WithField("activity_id", id).Info("Activity deactivated")
	return nil
}

// GetByID gets a single activity
func (s *ActivityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyActivityByID(id)
		if cached, err := s.redis.Get(ctx, key); err == nil && cached != "" {
			var activity domain.Activity
			if err := json.Unmarshal([]byte(cached), &activity); err == nil {
				return &activity, nil
			}
		}
	}

	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, domain.ErrActivityNotFound
	}

	s.cache(ctx, s.redis, activity.ID, activity)

	return activity, nil
}

// List returns the catalog. Non-moderators always get the active-only view.
func (s *ActivityService) List(ctx context.Context, session *domain.Session, activeOnly bool) ([]domain.Activity, error) {
	if session == nil || !session.IsModerator {
		activeOnly = true
	}

	scope := "all"
	if activeOnly {
		scope = "active"
	}

	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyActivitiesList(scope)
		if cached, err := s.redis.Get(ctx, key); err == nil && cached != "" {
			var activities []domain.Activity
			if err := json.Unmarshal([]byte(cached), &activities); err == nil {
				return activities, nil
			}
		}
	}

	activities, err := s.activities.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(activities); err == nil {
			key := s.redis.KeyBuilder.KeyActivitiesList(scope)
			_ = s.redis.Set(ctx, key, string(data), redis.TTLActivity)
		}
	}

	return activities, nil
}

func (s *ActivityService) cache(ctx context.Context, client *redis.Client, id string, activity *domain.Activity) {
	if client == nil {
		return
	}
	if data, err := json.Marshal(activity); err == nil {
		_ = client.Set(ctx, client.KeyBuilder.KeyActivityByID(id), string(data), redis.TTLActivity)
	}
}

func (s *ActivityService) invalidateCaches(ctx context.Context, id string) {
	if s.redis == nil {
		return
	}
	err := s.redis.Delete(ctx,
		s.redis.KeyBuilder.KeyActivitiesList("active"),
		s.redis.KeyBuilder.KeyActivitiesList("all"),
		s.redis.KeyBuilder.KeyActivityByID(id),
	)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate activity caches")
	}
}
