package models

import (
	"time"

	"github.com/google/uuid"
)

// Dispute statuses. "open" is the only non-terminal state.
const (
	DisputeOpen      = "open"
	DisputeAccepted  = "accepted"
	DisputeRejected  = "rejected"
	DisputeWithdrawn = "withdrawn"
)

// Dispute is an author-initiated contest of a moderation decision on
// their own flagged or blocked content.
type Dispute struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ContentID       uuid.UUID  `json:"content_id" db:"content_id"`
	ContentType     string     `json:"content_type" db:"content_type"`
	AuthorID        uuid.UUID  `json:"author_id" db:"author_id"`
	ReasonText      string     `json:"reason_text" db:"reason_text"`
	Status          string     `json:"status" db:"status"`
	ResolvedBy      *uuid.UUID `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty" db:"resolution_notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}

// DisputeWithContent joins an open dispute with a preview of the content
// it contests, for the moderator review queue.
type DisputeWithContent struct {
	Dispute
	ContentPreview string `json:"content_preview"`
	ContentStatus  string `json:"content_status"`
}

type CreateDisputeRequest struct {
	ContentID   uuid.UUID `json:"content_id" binding:"required"`
	ContentType string    `json:"content_type" binding:"required,oneof=topic reply"`
	ReasonText  string    `json:"reason_text" binding:"required,max=2000"`
}

type ResolveDisputeRequest struct {
	Status          string  `json:"status" binding:"required,oneof=accepted rejected"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}
