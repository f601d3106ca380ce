package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/models"
)

type ReputationRepository struct {
	db *database.DB
}

func NewReputationRepository(db *database.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// Get retrieves a user's reputation, returning a zero-value record when
// none exists yet
func (r *ReputationRepository) Get(userID uuid.UUID) (*models.UserReputation, error) {
	query := `
		SELECT user_id, warnings_received, reports_received, crisis_posts_count,
		       last_crisis_post_at, trust_level, is_banned, ban_expires_at, ban_reason, updated_at
		FROM user_reputation
		WHERE user_id = $1
	`

	rep := &models.UserReputation{}
	err := r.db.QueryRow(query, userID).Scan(
		&rep.UserID,
		&rep.WarningsReceived,
		&rep.ReportsReceived,
		&rep.CrisisPostsCount,
		&rep.LastCrisisPostAt,
		&rep.TrustLevel,
		&rep.IsBanned,
		&rep.BanExpiresAt,
		&rep.BanReason,
		&rep.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return &models.UserReputation{UserID: userID, TrustLevel: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation: %w", err)
	}

	return rep, nil
}

// RecordCrisisPost bumps the crisis counters for an author
func (r *ReputationRepository) RecordCrisisPost(userID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO user_reputation (user_id, crisis_posts_count, last_crisis_post_at, updated_at)
		VALUES ($1, 1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			crisis_posts_count = user_reputation.crisis_posts_count + 1,
			last_crisis_post_at = EXCLUDED.last_crisis_post_at,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(query, userID, at); err != nil {
		return fmt.Errorf("failed to record crisis post: %w", err)
	}

	return nil
}

// IncrementWarnings bumps the warning counter for an author
func (r *ReputationRepository) IncrementWarnings(userID uuid.UUID) error {
	query := `
		INSERT INTO user_reputation (user_id, warnings_received, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			warnings_received = user_reputation.warnings_received + 1,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to increment warnings: %w", err)
	}

	return nil
}

// IncrementReportsReceived bumps the received-report counter for the
// author of reported content
func (r *ReputationRepository) IncrementReportsReceived(userID uuid.UUID) error {
	query := `
		INSERT INTO user_reputation (user_id, reports_received, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			reports_received = user_reputation.reports_received + 1,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to increment reports received: %w", err)
	}

	return nil
}
