package models

import (
	"time"

	"github.com/google/uuid"
)

// UserReputation aggregates moderation signals per user. Read by the
// report queue and ban gating; written by moderation actions.
type UserReputation struct {
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	WarningsReceived  int        `json:"warnings_received" db:"warnings_received"`
	ReportsReceived   int        `json:"reports_received" db:"reports_received"`
	CrisisPostsCount  int        `json:"crisis_posts_count" db:"crisis_posts_count"`
	LastCrisisPostAt  *time.Time `json:"last_crisis_post_at,omitempty" db:"last_crisis_post_at"`
	TrustLevel        int        `json:"trust_level" db:"trust_level"`
	IsBanned          bool       `json:"is_banned" db:"is_banned"`
	BanExpiresAt      *time.Time `json:"ban_expires_at,omitempty" db:"ban_expires_at"`
	BanReason         *string    `json:"ban_reason,omitempty" db:"ban_reason"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
