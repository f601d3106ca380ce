package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/models"
)

type BehaviorRepository struct {
	db *database.DB
}

func NewBehaviorRepository(db *database.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

// Get retrieves an author's behavior record, or nil if none exists yet
func (r *BehaviorRepository) Get(authorID uuid.UUID) (*models.BehaviorRecord, error) {
	query := `
		SELECT author_id, posts_last_hour, posts_last_day, last_post_at,
		       recent_hashes, duplicate_detected, rapid_posting_detected, updated_at
		FROM behavior_records
		WHERE author_id = $1
	`

	record := &models.BehaviorRecord{}
	err := r.db.QueryRow(query, authorID).Scan(
		&record.AuthorID,
		&record.PostsInLastHour,
		&record.PostsInLastDay,
		&record.LastPostAt,
		pq.Array(&record.RecentContentHashes),
		&record.DuplicateDetected,
		&record.RapidPostingDetected,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get behavior record: %w", err)
	}

	return record, nil
}

// Upsert writes an author's behavior record, creating it on first post.
// Plain read-modify-write: a lost update under concurrency only weakens
// the duplicate/rate heuristic.
func (r *BehaviorRepository) Upsert(record *models.BehaviorRecord) error {
	query := `
		INSERT INTO behavior_records (author_id, posts_last_hour, posts_last_day, last_post_at,
			recent_hashes, duplicate_detected, rapid_posting_detected, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (author_id) DO UPDATE SET
			posts_last_hour = EXCLUDED.posts_last_hour,
			posts_last_day = EXCLUDED.posts_last_day,
			last_post_at = EXCLUDED.last_post_at,
			recent_hashes = EXCLUDED.recent_hashes,
			duplicate_detected = EXCLUDED.duplicate_detected,
			rapid_posting_detected = EXCLUDED.rapid_posting_detected,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(
		query,
		record.AuthorID,
		record.PostsInLastHour,
		record.PostsInLastDay,
		record.LastPostAt,
		pq.Array(record.RecentContentHashes),
		record.DuplicateDetected,
		record.RapidPostingDetected,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert behavior record: %w", err)
	}

	return nil
}
