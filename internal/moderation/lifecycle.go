package moderation

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

// Submission is the ephemeral input to the pipeline. It is never
// persisted as-is; what gets stored is the augmented Post.
type Submission struct {
	AuthorID    uuid.UUID
	Kind        string
	ParentID    *uuid.UUID
	Title       *string
	Body        string
	TriggerTags []string
}

// LifecycleOptions carries the policy knobs for submission handling.
type LifecycleOptions struct {
	// EnforceRapidPosting turns the rapid-posting signal into a
	// rejection. The signal is always computed and persisted either way.
	EnforceRapidPosting bool
}

// Lifecycle orchestrates a submission end to end: analysis, behavior
// tracking, body augmentation, persistence, crisis logging, and the
// fire-and-forget async re-classification.
type Lifecycle struct {
	tracker    *Tracker
	content    ContentStore
	crisis     CrisisStore
	reputation ReputationStore
	queue      ClassifyQueue
	opts       LifecycleOptions
}

func NewLifecycle(
	tracker *Tracker,
	content ContentStore,
	crisis CrisisStore,
	reputation ReputationStore,
	queue ClassifyQueue,
	opts LifecycleOptions,
) *Lifecycle {
	return &Lifecycle{
		tracker:    tracker,
		content:    content,
		crisis:     crisis,
		reputation: reputation,
		queue:      queue,
		opts:       opts,
	}
}

// Submit runs the moderation pipeline for one submission. On success it
// returns the persisted post with its body already augmented. Failure
// modes are the typed errors in errors.go; handlers map them to HTTP
// responses.
func (l *Lifecycle) Submit(sub Submission) (*models.Post, error) {
	plain := StripMarkup(sub.Body)
	if plain == "" {
		return nil, &ValidationError{Message: "content cannot be empty"}
	}

	analysis := Analyze(plain)
	if analysis.Blocked {
		return nil, &PolicyBlockedError{
			Reason:      analysis.Reason,
			UserMessage: BlockedContentMessage + "\n\n" + CrisisResourcesText,
		}
	}

	signals, err := l.tracker.Track(sub.AuthorID, plain)
	if err != nil {
		// A lost behavior update only weakens duplicate/rate
		// detection; the submission itself proceeds.
		log.Printf("behavior tracking failed for author %s: %v", sub.AuthorID, err)
		signals = &BehaviorSignals{}
	}
	if signals.IsDuplicate {
		return nil, &DuplicateContentError{AuthorID: sub.AuthorID.String()}
	}
	if signals.IsRapid && l.opts.EnforceRapidPosting {
		return nil, &RateLimitError{Message: "you are posting too quickly; please wait a little while"}
	}

	body := plain
	triggers := mergeTriggers(analysis.SuggestedTriggers, sub.TriggerTags)
	if (analysis.NeedsTriggerWarning || len(sub.TriggerTags) > 0) && len(triggers) > 0 {
		body = TriggerWarningPrefix(triggers) + body
	}

	highRisk := analysis.RiskLevel == models.RiskHigh || analysis.RiskLevel == models.RiskCritical
	crisisAdded := false
	if highRisk {
		body = body + "\n\n" + CrisisResourcesText
		crisisAdded = true
	}

	status := models.StatusApproved
	if highRisk {
		status = models.StatusFlagged
	}

	now := time.Now()
	post := &models.Post{
		ID:                   uuid.New(),
		AuthorID:             sub.AuthorID,
		Kind:                 sub.Kind,
		ParentID:             sub.ParentID,
		Title:                sub.Title,
		Body:                 body,
		AutoModStatus:        status,
		RiskLevel:            analysis.RiskLevel,
		CrisisResourcesAdded: crisisAdded,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := l.content.Create(post); err != nil {
		return nil, &PersistenceError{Op: "create post", Err: err}
	}

	if highRisk {
		entry := &models.CrisisLog{
			ID:               uuid.New(),
			ContentID:        post.ID,
			ContentType:      post.Kind,
			RiskLevel:        models.CrisisRiskLevel(analysis.RiskLevel),
			Action:           models.CrisisActionAddResources,
			ResolutionStatus: models.CrisisUnresolved,
			CreatedAt:        now,
		}
		if err := l.crisis.Create(entry); err != nil {
			log.Printf("failed to write crisis log for post %s: %v", post.ID, err)
		}
		if err := l.reputation.RecordCrisisPost(sub.AuthorID, now); err != nil {
			log.Printf("failed to update reputation for author %s: %v", sub.AuthorID, err)
		}
	}
	if status == models.StatusFlagged {
		if err := l.reputation.IncrementWarnings(sub.AuthorID); err != nil {
			log.Printf("failed to record warning for author %s: %v", sub.AuthorID, err)
		}
	}

	// Fire-and-forget: the async bridge must never affect this
	// submission's outcome.
	if l.queue != nil {
		if err := l.queue.Enqueue(post.ID, post.Kind); err != nil {
			log.Printf("failed to enqueue classification for post %s: %v", post.ID, err)
		}
	}

	return post, nil
}

// UserMessage builds the author-facing note attached to an accepted
// submission, if any.
func UserMessage(post *models.Post) string {
	var parts []string
	if strings.HasPrefix(strings.ToLower(post.Body), triggerWarningMarker) {
		parts = append(parts, "A trigger warning was added to your post.")
	}
	if post.CrisisResourcesAdded {
		parts = append(parts, "Crisis resources were added to your post. You are not alone, and support is available.")
	}
	return strings.Join(parts, " ")
}
