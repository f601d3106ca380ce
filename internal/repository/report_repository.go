package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/models"
)

type ReportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, reporter_id, content_id, content_type, reason, details,
	priority, status, reviewed_by, created_at, updated_at`

// Create persists a new report
func (r *ReportRepository) Create(report *models.Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, content_id, content_type, reason, details,
			priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		report.ID,
		report.ReporterID,
		report.ContentID,
		report.ContentType,
		report.Reason,
		report.Details,
		report.Priority,
		report.Status,
		report.CreatedAt,
		report.UpdatedAt,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(id uuid.UUID) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report := &models.Report{}
	err := r.db.QueryRow(query, id).Scan(
		&report.ID,
		&report.ReporterID,
		&report.ContentID,
		&report.ContentType,
		&report.Reason,
		&report.Details,
		&report.Priority,
		&report.Status,
		&report.ReviewedBy,
		&report.CreatedAt,
		&report.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// CountByReporterSince counts reports a user filed after the cutoff.
// The abuse window is recomputed from stored timestamps on every check.
func (r *ReportRepository) CountByReporterSince(reporterID uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM reports WHERE reporter_id = $1 AND created_at > $2`

	var count int
	if err := r.db.QueryRow(query, reporterID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}

	return count, nil
}

// UpdateStatus moves a report through triage
func (r *ReportRepository) UpdateStatus(id uuid.UUID, status string, reviewedBy uuid.UUID) error {
	query := `UPDATE reports SET status = $2, reviewed_by = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id, status, reviewedBy)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	return requireRow(result, "report")
}

// ListByStatus retrieves reports for the moderator queue, most urgent
// first
func (r *ReportRepository) ListByStatus(status string, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE status = $1
		ORDER BY priority ASC, created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		var report models.Report
		err := rows.Scan(
			&report.ID,
			&report.ReporterID,
			&report.ContentID,
			&report.ContentType,
			&report.Reason,
			&report.Details,
			&report.Priority,
			&report.Status,
			&report.ReviewedBy,
			&report.CreatedAt,
			&report.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}
