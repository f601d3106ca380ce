package moderation

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

// DisputeService implements the dispute resolution state machine:
// open -> {accepted, rejected, withdrawn}, all terminal. A new dispute
// may be opened again later if the content is re-flagged.
type DisputeService struct {
	disputes DisputeStore
	content  ContentStore
	feed     FeedPublisher
	now      func() time.Time
}

func NewDisputeService(disputes DisputeStore, content ContentStore, feed FeedPublisher) *DisputeService {
	return &DisputeService{
		disputes: disputes,
		content:  content,
		feed:     feed,
		now:      time.Now,
	}
}

// Open creates a dispute. Only the content's author may dispute, only
// while the content is flagged or blocked, and only one dispute may be
// open per content item at a time.
func (s *DisputeService) Open(authorID uuid.UUID, req models.CreateDisputeRequest) (*models.Dispute, error) {
	post, err := s.content.GetByID(req.ContentID)
	if err != nil {
		return nil, ErrContentNotFound
	}
	if post.AuthorID != authorID {
		return nil, ErrNotContentAuthor
	}
	if post.AutoModStatus != models.StatusFlagged && post.AutoModStatus != models.StatusBlocked {
		return nil, ErrNotDisputable
	}

	open, err := s.disputes.HasOpenForContent(req.ContentID)
	if err != nil {
		return nil, &PersistenceError{Op: "check open disputes", Err: err}
	}
	if open {
		return nil, ErrDisputeExists
	}

	dispute := &models.Dispute{
		ID:          uuid.New(),
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		AuthorID:    authorID,
		ReasonText:  req.ReasonText,
		Status:      models.DisputeOpen,
		CreatedAt:   s.now(),
	}

	if err := s.disputes.Create(dispute); err != nil {
		return nil, &PersistenceError{Op: "create dispute", Err: err}
	}

	if s.feed != nil {
		if err := s.feed.PublishFeedEvent(models.FeedEvent{Event: models.EventDisputeNew, Payload: dispute}); err != nil {
			log.Printf("failed to publish dispute event: %v", err)
		}
	}

	return dispute, nil
}

// Resolve transitions an open dispute to accepted or rejected.
// Moderator-only. An accepted dispute reverts the content to approved,
// which is the one sanctioned loosening path.
func (s *DisputeService) Resolve(disputeID, moderatorID uuid.UUID, status string, notes *string) (*models.Dispute, error) {
	if status != models.DisputeAccepted && status != models.DisputeRejected {
		return nil, ErrBadTransition
	}

	dispute, err := s.disputes.GetByID(disputeID)
	if err != nil {
		return nil, &PersistenceError{Op: "load dispute", Err: err}
	}
	if dispute.Status != models.DisputeOpen {
		return nil, ErrDisputeResolved
	}

	now := s.now()
	updated, err := s.disputes.Resolve(disputeID, status, moderatorID, notes, now)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve dispute", Err: err}
	}
	if !updated {
		// Lost the race with another resolution; never overwrite.
		return nil, ErrDisputeResolved
	}

	if status == models.DisputeAccepted {
		if err := s.content.UpdateStatus(dispute.ContentID, models.StatusApproved); err != nil {
			log.Printf("accepted dispute %s but failed to revert content %s: %v", disputeID, dispute.ContentID, err)
		}
	}

	dispute.Status = status
	dispute.ResolvedBy = &moderatorID
	dispute.ResolutionNotes = notes
	dispute.ResolvedAt = &now
	return dispute, nil
}

// Withdraw lets the dispute's author (or a moderator) close an open
// dispute without a verdict.
func (s *DisputeService) Withdraw(disputeID, userID uuid.UUID, isModerator bool) (*models.Dispute, error) {
	dispute, err := s.disputes.GetByID(disputeID)
	if err != nil {
		return nil, &PersistenceError{Op: "load dispute", Err: err}
	}
	if dispute.Status != models.DisputeOpen {
		return nil, ErrDisputeResolved
	}
	if dispute.AuthorID != userID && !isModerator {
		return nil, ErrNotDisputeParty
	}

	now := s.now()
	updated, err := s.disputes.Resolve(disputeID, models.DisputeWithdrawn, userID, nil, now)
	if err != nil {
		return nil, &PersistenceError{Op: "withdraw dispute", Err: err}
	}
	if !updated {
		return nil, ErrDisputeResolved
	}

	dispute.Status = models.DisputeWithdrawn
	dispute.ResolvedBy = &userID
	dispute.ResolvedAt = &now
	return dispute, nil
}
