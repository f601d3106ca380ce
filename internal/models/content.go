package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Content kinds
const (
	KindTopic = "topic"
	KindReply = "reply"
)

// Auto-moderation statuses. Automated re-classification only ever moves
// a post forward (approved -> flagged -> blocked); moderators may force
// any transition.
const (
	StatusApproved = "approved"
	StatusFlagged  = "flagged"
	StatusBlocked  = "blocked"
)

// Risk levels, ordered none < low < medium < high < critical
const (
	RiskNone     = "none"
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// StatusRank orders auto-mod statuses for forward-only transitions
func StatusRank(status string) int {
	switch status {
	case StatusApproved:
		return 0
	case StatusFlagged:
		return 1
	case StatusBlocked:
		return 2
	default:
		return 0
	}
}

// RiskRank orders risk levels
func RiskRank(level string) int {
	switch level {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// Post is a persisted discussion topic or reply after it has passed the
// moderation pipeline. Posts are soft-deleted only, to preserve the
// audit trail.
type Post struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	AuthorID             uuid.UUID       `json:"author_id" db:"author_id"`
	Kind                 string          `json:"kind" db:"kind"`
	ParentID             *uuid.UUID      `json:"parent_id,omitempty" db:"parent_id"`
	Title                *string         `json:"title,omitempty" db:"title"`
	Body                 string          `json:"body" db:"body"`
	AutoModStatus        string          `json:"automod_status" db:"automod_status"`
	RiskLevel            string          `json:"risk_level" db:"risk_level"`
	CrisisResourcesAdded bool            `json:"crisis_resources_added" db:"crisis_resources_added"`
	ReportCount          int             `json:"report_count" db:"report_count"`
	IsRemoved            bool            `json:"is_removed" db:"is_removed"`
	RemovedBy            *uuid.UUID      `json:"removed_by,omitempty" db:"removed_by"`
	RemovedReason        *string         `json:"removed_reason,omitempty" db:"removed_reason"`
	AIAnalysis           json.RawMessage `json:"ai_analysis,omitempty" db:"ai_analysis"`
	AIAnalyzedAt         *time.Time      `json:"ai_analyzed_at,omitempty" db:"ai_analyzed_at"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
	Author               *User           `json:"author,omitempty"`
}

type CreateTopicRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Body        string   `json:"body" binding:"required,max=20000"`
	TriggerTags []string `json:"trigger_tags,omitempty"`
}

type CreateReplyRequest struct {
	Body        string   `json:"body" binding:"required,max=20000"`
	TriggerTags []string `json:"trigger_tags,omitempty"`
}

type ListPostsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type UpdateContentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved flagged blocked"`
	Reason string `json:"reason,omitempty"`
}

type RemoveContentRequest struct {
	Reason string `json:"reason" binding:"required"`
}
