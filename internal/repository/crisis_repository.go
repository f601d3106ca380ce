package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/models"
)

type CrisisRepository struct {
	db *database.DB
}

func NewCrisisRepository(db *database.DB) *CrisisRepository {
	return &CrisisRepository{db: db}
}

// Create appends a crisis audit entry
func (r *CrisisRepository) Create(entry *models.CrisisLog) error {
	query := `
		INSERT INTO crisis_logs (id, content_id, content_type, risk_level, action, resolution_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		entry.ID,
		entry.ContentID,
		entry.ContentType,
		entry.RiskLevel,
		entry.Action,
		entry.ResolutionStatus,
		entry.CreatedAt,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create crisis log: %w", err)
	}

	return nil
}

// ExistsForContent reports whether any crisis entry exists for the
// content item
func (r *CrisisRepository) ExistsForContent(contentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM crisis_logs WHERE content_id = $1)`

	var exists bool
	if err := r.db.QueryRow(query, contentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check crisis logs: %w", err)
	}

	return exists, nil
}

// ListUnresolved retrieves unresolved crisis entries, oldest first
func (r *CrisisRepository) ListUnresolved(limit int) ([]models.CrisisLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, content_id, content_type, risk_level, action, resolution_status, created_at, resolved_at
		FROM crisis_logs
		WHERE resolution_status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, models.CrisisUnresolved, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crisis logs: %w", err)
	}
	defer rows.Close()

	entries := []models.CrisisLog{}
	for rows.Next() {
		var entry models.CrisisLog
		err := rows.Scan(
			&entry.ID,
			&entry.ContentID,
			&entry.ContentType,
			&entry.RiskLevel,
			&entry.Action,
			&entry.ResolutionStatus,
			&entry.CreatedAt,
			&entry.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crisis log: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// MarkResolved stamps a crisis entry resolved. Entries are otherwise
// immutable.
func (r *CrisisRepository) MarkResolved(id uuid.UUID) error {
	query := `
		UPDATE crisis_logs
		SET resolution_status = $2, resolved_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, models.CrisisResolved)
	if err != nil {
		return fmt.Errorf("failed to resolve crisis log: %w", err)
	}

	return requireRow(result, "crisis log")
}
