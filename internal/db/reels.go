package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hamzaoui/ayahreels/internal/models"
)

func (db *DB) CreateReel(ctx context.Context, reel *models.Reel) error {
	query := `
		INSERT INTO reels (
			id, reciter_id, surah, from_ayah, to_ayah, background_path, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	return db.QueryRowContext(
		ctx, query,
		reel.ID, reel.ReciterID, reel.Surah, reel.FromAyah, reel.ToAyah,
		reel.BackgroundPath, reel.Status,
	).Scan(&reel.CreatedAt, &reel.UpdatedAt)
}

func (db *DB) GetReel(ctx context.Context, id uuid.UUID) (*models.Reel, error) {
	query := `
		SELECT
			id, reciter_id, surah, from_ayah, to_ayah, background_path,
			status, error_message, output_path, created_at, updated_at
		FROM reels
		WHERE id = $1
	`

	reel := &models.Reel{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&reel.ID, &reel.ReciterID, &reel.Surah, &reel.FromAyah, &reel.ToAyah,
		&reel.BackgroundPath, &reel.Status, &reel.ErrorMessage, &reel.OutputPath,
		&reel.CreatedAt, &reel.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reel not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reel: %w", err)
	}

	return reel, nil
}

func (db *DB) ListReels(ctx context.Context, limit, offset int) ([]models.Reel, error) {
	query := `
		SELECT
			id, reciter_id, surah, from_ayah, to_ayah, background_path,
			status, error_message, output_path, created_at, updated_at
		FROM reels
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reels: %w", err)
	}
	defer rows.Close()

	var reels []models.Reel
	for rows.Next() {
		var reel models.Reel
		err := rows.Scan(
			&reel.ID, &reel.ReciterID, &reel.Surah, &reel.FromAyah, &reel.ToAyah,
			&reel.BackgroundPath, &reel.Status, &reel.ErrorMessage, &reel.OutputPath,
			&reel.CreatedAt, &reel.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reel: %w", err)
		}
		reels = append(reels, reel)
	}

	return reels, rows.Err()
}

func (db *DB) UpdateReelStatus(ctx context.Context, id uuid.UUID, status models.ReelStatus) error {
	query := `UPDATE reels SET status = $2, updated_at = now() WHERE id = $1`
	_, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update reel status: %w", err)
	}
	return nil
}

func (db *DB) UpdateReelError(ctx context.Context, id uuid.UUID, message string) error {
	query := `
		UPDATE reels
		SET status = $2, error_message = $3, updated_at = now()
		WHERE id = $1
	`
	_, err := db.ExecContext(ctx, query, id, models.ReelStatusFailed, message)
	if err != nil {
		return fmt.Errorf("failed to record reel error: %w", err)
	}
	return nil
}

func (db *DB) SetReelOutput(ctx context.Context, id uuid.UUID, outputPath string) error {
	query := `
		UPDATE reels
		SET status = $2, output_path = $3, error_message = NULL, updated_at = now()
		WHERE id = $1
	`
	_, err := db.ExecContext(ctx, query, id, models.ReelStatusCompleted, outputPath)
	if err != nil {
		return fmt.Errorf("failed to set reel output: %w", err)
	}
	return nil
}
