package models

import (
	"time"

	"github.com/google/uuid"
)

// Crisis log risk levels
const (
	CrisisModerate = "moderate"
	CrisisElevated = "elevated"
	CrisisHigh     = "high"
	CrisisCritical = "critical"
)

// Crisis log actions
const (
	CrisisActionAddResources = "add_resources"
	CrisisActionSendMessage  = "send_message"
	CrisisActionAIDetected   = "ai_detected"
)

// Crisis log resolution statuses
const (
	CrisisUnresolved = "unresolved"
	CrisisResolved   = "resolved"
)

// CrisisLog is an append-only audit entry, one per detected crisis
// event. Only the resolution fields are ever updated.
type CrisisLog struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ContentID        uuid.UUID  `json:"content_id" db:"content_id"`
	ContentType      string     `json:"content_type" db:"content_type"`
	RiskLevel        string     `json:"risk_level" db:"risk_level"`
	Action           string     `json:"action" db:"action"`
	ResolutionStatus string     `json:"resolution_status" db:"resolution_status"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}

// CrisisRiskLevel maps a content risk level onto the crisis log scale
func CrisisRiskLevel(riskLevel string) string {
	switch riskLevel {
	case RiskCritical:
		return CrisisCritical
	case RiskHigh:
		return CrisisHigh
	case RiskMedium:
		return CrisisElevated
	default:
		return CrisisModerate
	}
}
