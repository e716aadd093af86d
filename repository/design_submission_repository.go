package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"khichik-studio/db"
	"khichik-studio/models"
)

// ErrSubmissionNotFound is returned when no submission matches the id
var ErrSubmissionNotFound = errors.New("design submission not found")

// DesignSubmissionRepository handles database operations for design submissions
// Implements DesignSubmissionRepositoryInterface
type DesignSubmissionRepository struct {
	conn *sql.DB
}

// NewDesignSubmissionRepository creates a repository on the shared db.DB connection
func NewDesignSubmissionRepository() *DesignSubmissionRepository {
	return &DesignSubmissionRepository{conn: db.DB}
}

// NewDesignSubmissionRepositoryWithDB creates a repository on an explicit connection
func NewDesignSubmissionRepositoryWithDB(conn *sql.DB) *DesignSubmissionRepository {
	return &DesignSubmissionRepository{conn: conn}
}

// Ensure DesignSubmissionRepository implements DesignSubmissionRepositoryInterface
var _ DesignSubmissionRepositoryInterface = (*DesignSubmissionRepository)(nil)

// EnsureSchema creates the design_submissions table if it does not exist
func (r *DesignSubmissionRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS design_submissions (
			id                  TEXT PRIMARY KEY,
			original_image_id   TEXT NOT NULL,
			original_image_url  TEXT NOT NULL,
			processed_image_id  TEXT NOT NULL,
			processed_image_url TEXT NOT NULL,
			color               TEXT NOT NULL,
			size                TEXT NOT NULL,
			price               BIGINT NOT NULL,
			status              TEXT NOT NULL DEFAULT 'pending',
			created_at          TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create design_submissions table: %w", err)
	}
	log.Printf("✓ design_submissions table ready")
	return nil
}

// Insert stores a submission. Re-inserting the same id is a no-op.
func (r *DesignSubmissionRepository) Insert(ctx context.Context, submission *models.DesignSubmission) error {
	query := `
		INSERT INTO design_submissions (
			id, original_image_id, original_image_url, processed_image_id, processed_image_url,
			color, size, price, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	log.Printf("💾 Inserting design submission %s", submission.ID)

	result, err := r.conn.ExecContext(ctx, query,
		submission.ID,
		submission.OriginalImage.ID,
		submission.OriginalImage.URL,
		submission.ProcessedImage.ID,
		submission.ProcessedImage.URL,
		submission.Color,
		submission.Size,
		submission.Price,
		submission.Status,
		submission.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ Database INSERT error for design submission %s: %v", submission.ID, err)
		return fmt.Errorf("failed to insert design submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("⚠️  Warning: Could not get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		log.Printf("⚠️  Database: No rows inserted (already stored) for design submission %s", submission.ID)
	}

	return nil
}

// GetByID loads a submission by id
func (r *DesignSubmissionRepository) GetByID(ctx context.Context, id string) (*models.DesignSubmission, error) {
	query := `
		SELECT id, original_image_id, original_image_url, processed_image_id, processed_image_url,
			color, size, price, status, created_at
		FROM design_submissions
		WHERE id = $1
	`

	var s models.DesignSubmission
	err := r.conn.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.OriginalImage.ID,
		&s.OriginalImage.URL,
		&s.ProcessedImage.ID,
		&s.ProcessedImage.URL,
		&s.Color,
		&s.Size,
		&s.Price,
		&s.Status,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design submission: %w", err)
	}

	return &s, nil
}
