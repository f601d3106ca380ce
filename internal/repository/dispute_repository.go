package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/models"
)

type DisputeRepository struct {
	db *database.DB
}

func NewDisputeRepository(db *database.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create persists a new open dispute
func (r *DisputeRepository) Create(dispute *models.Dispute) error {
	query := `
		INSERT INTO disputes (id, content_id, content_type, author_id, reason_text, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		dispute.ID,
		dispute.ContentID,
		dispute.ContentType,
		dispute.AuthorID,
		dispute.ReasonText,
		dispute.Status,
		dispute.CreatedAt,
	).Scan(&dispute.ID, &dispute.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create dispute: %w", err)
	}

	return nil
}

// GetByID retrieves a dispute by ID
func (r *DisputeRepository) GetByID(id uuid.UUID) (*models.Dispute, error) {
	query := `
		SELECT id, content_id, content_type, author_id, reason_text, status,
		       resolved_by, resolution_notes, created_at, resolved_at
		FROM disputes
		WHERE id = $1
	`

	dispute := &models.Dispute{}
	err := r.db.QueryRow(query, id).Scan(
		&dispute.ID,
		&dispute.ContentID,
		&dispute.ContentType,
		&dispute.AuthorID,
		&dispute.ReasonText,
		&dispute.Status,
		&dispute.ResolvedBy,
		&dispute.ResolutionNotes,
		&dispute.CreatedAt,
		&dispute.ResolvedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dispute not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}

	return dispute, nil
}

// HasOpenForContent reports whether an open dispute exists for the
// content item
func (r *DisputeRepository) HasOpenForContent(contentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM disputes WHERE content_id = $1 AND status = $2)`

	var exists bool
	if err := r.db.QueryRow(query, contentID, models.DisputeOpen).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check open disputes: %w", err)
	}

	return exists, nil
}

// Resolve transitions an open dispute to a terminal state. The status
// guard in the WHERE clause makes a second resolution a no-op; the
// returned bool reports whether this call won.
func (r *DisputeRepository) Resolve(id uuid.UUID, status string, resolvedBy uuid.UUID, notes *string, at time.Time) (bool, error) {
	query := `
		UPDATE disputes
		SET status = $2, resolved_by = $3, resolution_notes = $4, resolved_at = $5
		WHERE id = $1 AND status = $6
	`

	result, err := r.db.Exec(query, id, status, resolvedBy, notes, at, models.DisputeOpen)
	if err != nil {
		return false, fmt.Errorf("failed to resolve dispute: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// ListOpenWithContent retrieves open disputes joined with a preview of
// the contested content, for the moderator review queue
func (r *DisputeRepository) ListOpenWithContent(limit int) ([]models.DisputeWithContent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT d.id, d.content_id, d.content_type, d.author_id, d.reason_text, d.status,
		       d.resolved_by, d.resolution_notes, d.created_at, d.resolved_at,
		       LEFT(p.body, 200), p.automod_status
		FROM disputes d
		INNER JOIN posts p ON d.content_id = p.id
		WHERE d.status = $1
		ORDER BY d.created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, models.DisputeOpen, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list open disputes: %w", err)
	}
	defer rows.Close()

	disputes := []models.DisputeWithContent{}
	for rows.Next() {
		var d models.DisputeWithContent
		err := rows.Scan(
			&d.ID,
			&d.ContentID,
			&d.ContentType,
			&d.AuthorID,
			&d.ReasonText,
			&d.Status,
			&d.ResolvedBy,
			&d.ResolutionNotes,
			&d.CreatedAt,
			&d.ResolvedAt,
			&d.ContentPreview,
			&d.ContentStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispute: %w", err)
		}
		disputes = append(disputes, d)
	}

	return disputes, nil
}
