package moderation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

type lifecycleFixture struct {
	content    *fakeContentStore
	crisis     *fakeCrisisStore
	reputation *fakeReputationStore
	queue      *fakeQueue
	lifecycle  *Lifecycle
}

func newLifecycleFixture(opts LifecycleOptions) *lifecycleFixture {
	f := &lifecycleFixture{
		content:    newFakeContentStore(),
		crisis:     &fakeCrisisStore{},
		reputation: newFakeReputationStore(),
		queue:      &fakeQueue{},
	}
	tracker := NewTracker(newFakeBehaviorStore(), 10, 5)
	f.lifecycle = NewLifecycle(tracker, f.content, f.crisis, f.reputation, f.queue, opts)
	return f
}

func topicSubmission(body string) Submission {
	title := "Looking for support"
	return Submission{
		AuthorID: uuid.New(),
		Kind:     models.KindTopic,
		Title:    &title,
		Body:     body,
	}
}

func TestSubmitEmptyContent(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	for _, body := range []string{"", "   ", "<p>   </p>"} {
		_, err := f.lifecycle.Submit(topicSubmission(body))
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("body %q: got %v, want ValidationError", body, err)
		}
	}
	if len(f.content.created) != 0 {
		t.Errorf("persisted %d posts for empty content", len(f.content.created))
	}
}

func TestSubmitBlockedContentNeverPersisted(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	_, err := f.lifecycle.Submit(topicSubmission("does anyone know how to kill myself"))

	var pbe *PolicyBlockedError
	if !errors.As(err, &pbe) {
		t.Fatalf("got %v, want PolicyBlockedError", err)
	}
	if !strings.Contains(pbe.UserMessage, "988") {
		t.Error("blocked message does not include crisis resources")
	}
	if len(f.content.created) != 0 {
		t.Error("blocked content was persisted")
	}
	if len(f.queue.enqueued) != 0 {
		t.Error("blocked content was queued for classification")
	}
}

func TestSubmitStripsMarkupBeforeAnalysis(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	// The critical phrase is split by markup; after stripping it reads
	// contiguously and must still block.
	_, err := f.lifecycle.Submit(topicSubmission("<b>how to</b> kill myself"))
	var pbe *PolicyBlockedError
	if !errors.As(err, &pbe) {
		t.Fatalf("got %v, want PolicyBlockedError", err)
	}
}

func TestSubmitApprovedContent(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	post, err := f.lifecycle.Submit(topicSubmission("Went hiking this weekend and it really helped my mood"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if post.AutoModStatus != models.StatusApproved {
		t.Errorf("status = %q, want approved", post.AutoModStatus)
	}
	if post.RiskLevel != models.RiskNone {
		t.Errorf("risk = %q, want none", post.RiskLevel)
	}
	if post.CrisisResourcesAdded {
		t.Error("crisis resources added to benign content")
	}
	if len(f.queue.enqueued) != 1 || f.queue.enqueued[0] != post.ID {
		t.Errorf("queue = %v, want one entry for %s", f.queue.enqueued, post.ID)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})
	author := uuid.New()

	sub := topicSubmission("today was a hard day but I got through it")
	sub.AuthorID = author
	if _, err := f.lifecycle.Submit(sub); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := f.lifecycle.Submit(sub)
	var dce *DuplicateContentError
	if !errors.As(err, &dce) {
		t.Fatalf("got %v, want DuplicateContentError", err)
	}
	if len(f.content.created) != 1 {
		t.Errorf("persisted %d posts, want 1", len(f.content.created))
	}
}

func TestSubmitRapidPostingEnforcement(t *testing.T) {
	run := func(enforce bool) (int, error) {
		f := newLifecycleFixture(LifecycleOptions{EnforceRapidPosting: enforce})
		author := uuid.New()
		var lastErr error
		for i := 0; i < 5; i++ {
			sub := topicSubmission("distinct message number " + string(rune('a'+i)))
			sub.AuthorID = author
			_, lastErr = f.lifecycle.Submit(sub)
		}
		return len(f.content.created), lastErr
	}

	created, err := run(true)
	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Errorf("enforced: got %v, want RateLimitError", err)
	}
	if created != 4 {
		t.Errorf("enforced: persisted %d posts, want 4", created)
	}

	created, err = run(false)
	if err != nil {
		t.Errorf("unenforced: got %v, want nil", err)
	}
	if created != 5 {
		t.Errorf("unenforced: persisted %d posts, want 5", created)
	}
}

func TestSubmitTriggerWarningPrefix(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	post, err := f.lifecycle.Submit(topicSubmission("my mom passed away last month and the grief comes in waves"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.HasPrefix(post.Body, "⚠️ Trigger Warning: Grief and loss") {
		t.Errorf("body missing warning prefix: %q", post.Body)
	}
	if post.AutoModStatus != models.StatusApproved {
		t.Errorf("status = %q, want approved", post.AutoModStatus)
	}
}

func TestSubmitMergesDeclaredTriggerTags(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	sub := topicSubmission("my mom passed away last month")
	sub.TriggerTags = []string{"Anxiety", "grief and loss"}

	post, err := f.lifecycle.Submit(sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// Suggested topic first, then the remaining declared tags; the
	// duplicate declaration is folded in case-insensitively.
	if !strings.HasPrefix(post.Body, "⚠️ Trigger Warning: Grief and loss, Anxiety\n\n") {
		t.Errorf("unexpected warning line: %q", post.Body)
	}
}

func TestSubmitHighRiskGetsCrisisResources(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})

	sub := topicSubmission("I feel hopeless and I don't know who to talk to")
	post, err := f.lifecycle.Submit(sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if post.AutoModStatus != models.StatusFlagged {
		t.Errorf("status = %q, want flagged", post.AutoModStatus)
	}
	if post.RiskLevel != models.RiskHigh {
		t.Errorf("risk = %q, want high", post.RiskLevel)
	}
	if !post.CrisisResourcesAdded {
		t.Error("CrisisResourcesAdded not set")
	}
	if !strings.Contains(post.Body, "988") {
		t.Error("crisis resources not appended to body")
	}

	if len(f.crisis.entries) != 1 {
		t.Fatalf("crisis log entries = %d, want 1", len(f.crisis.entries))
	}
	entry := f.crisis.entries[0]
	if entry.ContentID != post.ID || entry.Action != models.CrisisActionAddResources {
		t.Errorf("unexpected crisis entry: %+v", entry)
	}
	if f.reputation.crisisPosts[sub.AuthorID] != 1 {
		t.Error("crisis post not recorded in reputation")
	}
	if f.reputation.warnings[sub.AuthorID] != 1 {
		t.Error("warning not recorded in reputation")
	}
}

func TestSubmitQueueFailureDoesNotFailSubmission(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})
	f.queue.err = errors.New("broker down")

	post, err := f.lifecycle.Submit(topicSubmission("quiet evening, feeling okay"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if post == nil {
		t.Fatal("no post returned")
	}
}

func TestSubmitPersistenceFailure(t *testing.T) {
	f := newLifecycleFixture(LifecycleOptions{})
	f.content.createErr = errors.New("connection refused")

	_, err := f.lifecycle.Submit(topicSubmission("quiet evening, feeling okay"))
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PersistenceError", err)
	}
}

func TestUserMessage(t *testing.T) {
	plain := &models.Post{Body: "just a normal post"}
	if msg := UserMessage(plain); msg != "" {
		t.Errorf("unexpected message for plain post: %q", msg)
	}

	warned := &models.Post{Body: TriggerWarningPrefix([]string{"Grief and loss"}) + "body"}
	if msg := UserMessage(warned); !strings.Contains(msg, "trigger warning") {
		t.Errorf("missing trigger note: %q", msg)
	}

	crisis := &models.Post{Body: "body", CrisisResourcesAdded: true}
	if msg := UserMessage(crisis); !strings.Contains(msg, "Crisis resources") {
		t.Errorf("missing crisis note: %q", msg)
	}
}
