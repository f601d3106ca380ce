package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/models"
)

type ContentRepository struct {
	db *database.DB
}

func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const postColumns = `id, author_id, kind, parent_id, title, body, automod_status, risk_level,
	crisis_resources_added, report_count, is_removed, removed_by, removed_reason,
	ai_analysis, ai_analyzed_at, created_at, updated_at`

// Create persists a new post
func (r *ContentRepository) Create(post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, kind, parent_id, title, body, automod_status,
			risk_level, crisis_resources_added, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		post.ID,
		post.AuthorID,
		post.Kind,
		post.ParentID,
		post.Title,
		post.Body,
		post.AutoModStatus,
		post.RiskLevel,
		post.CrisisResourcesAdded,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *ContentRepository) GetByID(id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// ListTopics retrieves visible topics with pagination, newest first
func (r *ContentRepository) ListTopics(limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE kind = $1 AND is_removed = FALSE AND automod_status != $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(query, models.KindTopic, models.StatusBlocked, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// ListReplies retrieves visible replies to a topic, oldest first
func (r *ContentRepository) ListReplies(topicID uuid.UUID) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE parent_id = $1 AND is_removed = FALSE AND automod_status != $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, topicID, models.StatusBlocked)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// UpdateClassification stores an async re-classification verdict
func (r *ContentRepository) UpdateClassification(id uuid.UUID, status, riskLevel string, analysis json.RawMessage, analyzedAt time.Time) error {
	query := `
		UPDATE posts
		SET automod_status = $2, risk_level = $3, ai_analysis = $4, ai_analyzed_at = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, status, riskLevel, []byte(analysis), analyzedAt)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
	}

	return requireRow(result, "post")
}

// UpdateStatus sets the auto-mod status directly (moderator path)
func (r *ContentRepository) UpdateStatus(id uuid.UUID, status string) error {
	query := `UPDATE posts SET automod_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	return requireRow(result, "post")
}

// IncrementReportCount bumps the report counter
func (r *ContentRepository) IncrementReportCount(id uuid.UUID) error {
	query := `UPDATE posts SET report_count = report_count + 1, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to increment report count: %w", err)
	}

	return requireRow(result, "post")
}

// Remove soft-deletes a post; the record stays for the audit trail
func (r *ContentRepository) Remove(id, moderatorID uuid.UUID, reason string) error {
	query := `
		UPDATE posts
		SET is_removed = TRUE, removed_by = $2, removed_reason = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, moderatorID, reason)
	if err != nil {
		return fmt.Errorf("failed to remove post: %w", err)
	}

	return requireRow(result, "post")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{}
	var analysis []byte
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Kind,
		&post.ParentID,
		&post.Title,
		&post.Body,
		&post.AutoModStatus,
		&post.RiskLevel,
		&post.CrisisResourcesAdded,
		&post.ReportCount,
		&post.IsRemoved,
		&post.RemovedBy,
		&post.RemovedReason,
		&analysis,
		&post.AIAnalyzedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(analysis) > 0 {
		post.AIAnalysis = json.RawMessage(analysis)
	}
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func requireRow(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found", entity)
	}
	return nil
}
