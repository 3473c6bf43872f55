package repository

import (
	"context"
	"fmt"

	"club-rewards/internal/domain"
	"club-rewards/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
)

type ModeratorRepository struct {
	db *database.PostgresDB
}

func NewModeratorRepository(db *database.PostgresDB) *ModeratorRepository {
	return &ModeratorRepository{db: db}
}

// IsModerator reports whether a wallet is on the roster
func (r *ModeratorRepository) IsModerator(ctx context.Context, wallet string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM moderators WHERE wallet_address = $1)`, wallet,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check moderator: %w", err)
	}
	return exists, nil
}

// List returns the roster, most recent first
func (r *ModeratorRepository) List(ctx context.Context) ([]domain.Moderator, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, wallet_address, name, created_at
		FROM moderators
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list moderators: %w", err)
	}
	defer rows.Close()

	var moderators []domain.Moderator
	for rows.Next() {
		var mod domain.Moderator
		if err := rows.Scan(&mod.ID, &mod.WalletAddress, &mod.Name, &mod.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan moderator: %w", err)
		}
		moderators = append(moderators, mod)
	}

	return moderators, nil
}

// Add inserts a wallet into the roster
func (r *ModeratorRepository) Add(ctx context.Context, moderator *domain.Moderator) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO moderators (id, wallet_address, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, moderator.ID, moderator.WalletAddress, moderator.Name).Scan(&moderator.CreatedAt)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return domain.ErrModeratorExists
		}
		return fmt.Errorf("failed to add moderator: %w", err)
	}

	return nil
}

// Remove deletes a wallet from the roster
func (r *ModeratorRepository) Remove(ctx context.Context, wallet string) error {
	ct, err := r.db.Pool.Exec(ctx,
		`DELETE FROM moderators WHERE wallet_address = $1`, wallet)
	if err != nil {
		return fmt.Errorf("failed to remove moderator: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrModeratorNotFound
	}
	return nil
}
