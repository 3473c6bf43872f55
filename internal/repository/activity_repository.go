package repository

import (
	"context"
	"fmt"

	"club-rewards/internal/domain"
	"club-rewards/pkg/database"

	"github.com/jackc/pgx/v5"
)

type ActivityRepository struct {
	db *database.PostgresDB
}

func NewActivityRepository(db *database.PostgresDB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a new activity
func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, title, description, token_reward, category, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		activity.ID,
		activity.Title,
		activity.Description,
		activity.TokenReward,
		activity.Category,
		activity.IsActive,
		activity.CreatedBy,
	).Scan(&activity.CreatedAt, &activity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// Update applies the non-nil fields of req and returns the updated activity
func (r *ActivityRepository) Update(ctx context.Context, id string, req *domain.ActivityUpdateRequest) (*domain.Activity, error) {
	query := `
		UPDATE activities
		SET title        = COALESCE($2, title),
		    description  = COALESCE($3, description),
		    token_reward = COALESCE($4, token_reward),
		    category     = COALESCE($5, category),
		    is_active    = COALESCE($6, is_active),
		    updated_at   = NOW()
		WHERE id = $1
		RETURNING id, title, description, token_reward, category, is_active, created_by, created_at, updated_at
	`

	var activity domain.Activity
	err := r.db.Pool.QueryRow(ctx, query, id,
		req.Title,
		req.Description,
		req.TokenReward,
		req.Category,
		req.IsActive,
	).Scan(
		&activity.ID,
		&activity.Title,
		&activity.Description,
		&activity.TokenReward,
		&activity.Category,
		&activity.IsActive,
		&activity.CreatedBy,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, domain.ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	return &activity, nil
}

// Deactivate performs the logical delete
func (r *ActivityRepository) Deactivate(ctx context.Context, id string) error {
	ct, err := r.db.Pool.Exec(ctx,
		`UPDATE activities SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate activity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

// GetByID gets an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	var activity domain.Activity
	query := `
		SELECT id, title, description, token_reward, category, is_active, created_by, created_at, updated_at
		FROM activities
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&activity.ID,
		&activity.Title,
		&activity.Description,
		&activity.TokenReward,
		&activity.Category,
		&activity.IsActive,
		&activity.CreatedBy,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return &activity, nil
}

// List returns activities, most recent first
func (r *ActivityRepository) List(ctx context.Context, activeOnly bool) ([]domain.Activity, error) {
	query := `
		SELECT id, title, description, token_reward, category, is_active, created_by, created_at, updated_at
		FROM activities
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		err := rows.Scan(
			&activity.ID,
			&activity.Title,
			&activity.Description,
			&activity.TokenReward,
			&activity.Category,
			&activity.IsActive,
			&activity.CreatedBy,
			&activity.CreatedAt,
			&activity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	return activities, nil
}
