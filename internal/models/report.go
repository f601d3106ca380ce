package models

import (
	"time"

	"github.com/google/uuid"
)

// Report reasons
const (
	ReasonHarassment     = "harassment"
	ReasonHateSpeech     = "hate_speech"
	ReasonSpam           = "spam"
	ReasonSuicideMethods = "suicide_methods"
	ReasonSelfHarm       = "self_harm"
	ReasonMedicalAdvice  = "medical_advice"
	ReasonPersonalInfo   = "personal_info"
	ReasonGraphicContent = "graphic_content"
	ReasonOther          = "other"
	ReasonCrisis         = "crisis"
	ReasonTriggerWarning = "trigger_warning"
)

// Report priorities, P0 most urgent
const (
	PriorityP0 = "P0"
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
)

// Report statuses
const (
	ReportPending   = "pending"
	ReportReviewing = "reviewing"
	ReportResolved  = "resolved"
)

// ValidReportReason reports whether reason is one of the accepted values
func ValidReportReason(reason string) bool {
	switch reason {
	case ReasonHarassment, ReasonHateSpeech, ReasonSpam, ReasonSuicideMethods,
		ReasonSelfHarm, ReasonMedicalAdvice, ReasonPersonalInfo,
		ReasonGraphicContent, ReasonOther, ReasonCrisis, ReasonTriggerWarning:
		return true
	}
	return false
}

type Report struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ReporterID  uuid.UUID  `json:"reporter_id" db:"reporter_id"`
	ContentID   uuid.UUID  `json:"content_id" db:"content_id"`
	ContentType string     `json:"content_type" db:"content_type"`
	Reason      string     `json:"reason" db:"reason"`
	Details     *string    `json:"details,omitempty" db:"details"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	ReviewedBy  *uuid.UUID `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateReportRequest struct {
	ContentID   uuid.UUID `json:"content_id" binding:"required"`
	ContentType string    `json:"content_type" binding:"required,oneof=topic reply"`
	Reason      string    `json:"reason" binding:"required"`
	Details     *string   `json:"details,omitempty"`
}

type UpdateReportRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewing resolved"`
}
