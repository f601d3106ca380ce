package moderation

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

// harmfulReasons is the reason class that escalates a report to P1 on
// its own.
var harmfulReasons = map[string]bool{
	models.ReasonSuicideMethods: true,
	models.ReasonSelfHarm:       true,
	models.ReasonHateSpeech:     true,
	models.ReasonGraphicContent: true,
	models.ReasonHarassment:     true,
}

// ReportService accepts user reports, applies abuse rate-limiting,
// computes a priority tier, and escalates urgent reports to the async
// classifier.
type ReportService struct {
	reports    ReportStore
	content    ContentStore
	reputation ReputationStore
	queue      ClassifyQueue
	feed       FeedPublisher
	dailyLimit int
	now        func() time.Time
}

func NewReportService(
	reports ReportStore,
	content ContentStore,
	reputation ReputationStore,
	queue ClassifyQueue,
	feed FeedPublisher,
	dailyLimit int,
) *ReportService {
	if dailyLimit <= 0 {
		dailyLimit = 5
	}
	return &ReportService{
		reports:    reports,
		content:    content,
		reputation: reputation,
		queue:      queue,
		feed:       feed,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// File creates a report against a piece of content. The reporter is
// capped at dailyLimit reports per trailing 24 hours; hitting the cap
// is an error but carries no further reputation penalty.
func (s *ReportService) File(reporterID uuid.UUID, req models.CreateReportRequest) (*models.Report, error) {
	if !models.ValidReportReason(req.Reason) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown report reason %q", req.Reason)}
	}

	now := s.now()
	filed, err := s.reports.CountByReporterSince(reporterID, now.Add(-24*time.Hour))
	if err != nil {
		return nil, &PersistenceError{Op: "count reports", Err: err}
	}
	if filed >= s.dailyLimit {
		return nil, &RateLimitError{Message: "report limit reached; please try again tomorrow"}
	}

	post, err := s.content.GetByID(req.ContentID)
	if err != nil {
		return nil, ErrContentNotFound
	}

	report := &models.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Reason:      req.Reason,
		Details:     req.Details,
		Priority:    computePriority(req.Reason, post.ReportCount),
		Status:      models.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reports.Create(report); err != nil {
		return nil, &PersistenceError{Op: "create report", Err: err}
	}

	if err := s.content.IncrementReportCount(req.ContentID); err != nil {
		log.Printf("failed to bump report count for content %s: %v", req.ContentID, err)
	}
	if err := s.reputation.IncrementReportsReceived(post.AuthorID); err != nil {
		log.Printf("failed to update reputation for author %s: %v", post.AuthorID, err)
	}

	// Urgent reports re-trigger the async classifier regardless of any
	// earlier automatic classification.
	if report.Priority == models.PriorityP0 || report.Priority == models.PriorityP1 {
		if s.queue != nil {
			if err := s.queue.Enqueue(req.ContentID, req.ContentType); err != nil {
				log.Printf("failed to escalate report %s to classifier: %v", report.ID, err)
			}
		}
	}

	if s.feed != nil {
		if err := s.feed.PublishFeedEvent(models.FeedEvent{Event: models.EventReportNew, Payload: report}); err != nil {
			log.Printf("failed to publish report event: %v", err)
		}
	}

	return report, nil
}

// Triage moves a report through the moderator workflow. Transitions are
// forward-only: pending -> reviewing -> resolved.
func (s *ReportService) Triage(reportID, moderatorID uuid.UUID, status string) (*models.Report, error) {
	report, err := s.reports.GetByID(reportID)
	if err != nil {
		return nil, &PersistenceError{Op: "load report", Err: err}
	}

	if reportStatusRank(status) <= reportStatusRank(report.Status) {
		return nil, ErrBadTransition
	}

	if err := s.reports.UpdateStatus(reportID, status, moderatorID); err != nil {
		return nil, &PersistenceError{Op: "update report", Err: err}
	}

	report.Status = status
	report.ReviewedBy = &moderatorID
	return report, nil
}

// computePriority assigns the triage tier, first match wins.
func computePriority(reason string, existingReports int) string {
	switch {
	case reason == models.ReasonCrisis || existingReports >= 3:
		return models.PriorityP0
	case harmfulReasons[reason] || existingReports >= 2:
		return models.PriorityP1
	case reason == models.ReasonTriggerWarning || reason == models.ReasonSpam:
		return models.PriorityP2
	default:
		return models.PriorityP3
	}
}

func reportStatusRank(status string) int {
	switch status {
	case models.ReportPending:
		return 0
	case models.ReportReviewing:
		return 1
	case models.ReportResolved:
		return 2
	default:
		return -1
	}
}
