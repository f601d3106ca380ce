package moderation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

// The pipeline talks to persistence through these narrow interfaces so
// every component can be exercised against in-memory fakes. The
// repository package provides the Postgres implementations.

// ContentStore persists moderated posts.
type ContentStore interface {
	Create(post *models.Post) error
	GetByID(id uuid.UUID) (*models.Post, error)
	// UpdateClassification stores an async re-classification verdict.
	UpdateClassification(id uuid.UUID, status, riskLevel string, analysis json.RawMessage, analyzedAt time.Time) error
	// UpdateStatus is the moderator path; any transition is allowed.
	UpdateStatus(id uuid.UUID, status string) error
	IncrementReportCount(id uuid.UUID) error
	Remove(id, moderatorID uuid.UUID, reason string) error
}

// CrisisStore persists the append-only crisis audit trail.
type CrisisStore interface {
	Create(entry *models.CrisisLog) error
	ExistsForContent(contentID uuid.UUID) (bool, error)
}

// ReputationStore mutates per-user moderation aggregates.
type ReputationStore interface {
	RecordCrisisPost(userID uuid.UUID, at time.Time) error
	IncrementWarnings(userID uuid.UUID) error
	IncrementReportsReceived(userID uuid.UUID) error
}

// ReportStore persists user reports.
type ReportStore interface {
	Create(report *models.Report) error
	GetByID(id uuid.UUID) (*models.Report, error)
	CountByReporterSince(reporterID uuid.UUID, since time.Time) (int, error)
	UpdateStatus(id uuid.UUID, status string, reviewedBy uuid.UUID) error
}

// DisputeStore persists moderation disputes.
type DisputeStore interface {
	Create(dispute *models.Dispute) error
	GetByID(id uuid.UUID) (*models.Dispute, error)
	HasOpenForContent(contentID uuid.UUID) (bool, error)
	// Resolve transitions an open dispute to a terminal state. It
	// returns false when the dispute was not open, so a second
	// resolution can never silently overwrite the first.
	Resolve(id uuid.UUID, status string, resolvedBy uuid.UUID, notes *string, at time.Time) (bool, error)
}

// ClassifyQueue schedules an asynchronous re-classification. Enqueue
// must not block on the downstream classifier.
type ClassifyQueue interface {
	Enqueue(contentID uuid.UUID, contentType string) error
}

// FeedPublisher pushes events to the moderator live feed. Best-effort;
// failures are logged and ignored.
type FeedPublisher interface {
	PublishFeedEvent(event models.FeedEvent) error
}
