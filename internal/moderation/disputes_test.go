package moderation

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

type disputeFixture struct {
	disputes *fakeDisputeStore
	content  *fakeContentStore
	feed     *fakeFeed
	service  *DisputeService
}

func newDisputeFixture() *disputeFixture {
	f := &disputeFixture{
		disputes: newFakeDisputeStore(),
		content:  newFakeContentStore(),
		feed:     &fakeFeed{},
	}
	f.service = NewDisputeService(f.disputes, f.content, f.feed)
	return f
}

func (f *disputeFixture) addPost(author uuid.UUID, status string) *models.Post {
	post := &models.Post{
		ID:            uuid.New(),
		AuthorID:      author,
		Kind:          models.KindTopic,
		Body:          "flagged post body",
		AutoModStatus: status,
	}
	f.content.posts[post.ID] = post
	return post
}

func disputeReq(contentID uuid.UUID) models.CreateDisputeRequest {
	return models.CreateDisputeRequest{
		ContentID:   contentID,
		ContentType: models.KindTopic,
		ReasonText:  "this was a quote, not my own words",
	}
}

func TestOpenDispute(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	post := f.addPost(author, models.StatusFlagged)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if dispute.Status != models.DisputeOpen {
		t.Errorf("status = %q, want open", dispute.Status)
	}
	if dispute.AuthorID != author {
		t.Errorf("author = %s, want %s", dispute.AuthorID, author)
	}
	if len(f.feed.events) != 1 || f.feed.events[0].Event != models.EventDisputeNew {
		t.Errorf("feed events = %+v", f.feed.events)
	}
}

func TestOpenDisputeGuards(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()

	approved := f.addPost(author, models.StatusApproved)
	if _, err := f.service.Open(author, disputeReq(approved.ID)); !errors.Is(err, ErrNotDisputable) {
		t.Errorf("approved content: got %v, want ErrNotDisputable", err)
	}

	blocked := f.addPost(author, models.StatusBlocked)
	if _, err := f.service.Open(uuid.New(), disputeReq(blocked.ID)); !errors.Is(err, ErrNotContentAuthor) {
		t.Errorf("stranger: got %v, want ErrNotContentAuthor", err)
	}

	if _, err := f.service.Open(author, disputeReq(uuid.New())); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("missing content: got %v, want ErrContentNotFound", err)
	}

	if _, err := f.service.Open(author, disputeReq(blocked.ID)); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := f.service.Open(author, disputeReq(blocked.ID)); !errors.Is(err, ErrDisputeExists) {
		t.Errorf("second open: got %v, want ErrDisputeExists", err)
	}
}

func TestResolveDisputeAccepted(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	moderator := uuid.New()
	post := f.addPost(author, models.StatusFlagged)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	notes := "clearly a supportive quote"
	resolved, err := f.service.Resolve(dispute.ID, moderator, models.DisputeAccepted, &notes)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.Status != models.DisputeAccepted {
		t.Errorf("status = %q, want accepted", resolved.Status)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != moderator {
		t.Error("resolver not recorded")
	}
	if resolved.ResolvedAt == nil {
		t.Error("resolution time not recorded")
	}
	// Acceptance reverts the content.
	if post.AutoModStatus != models.StatusApproved {
		t.Errorf("content status = %q, want approved", post.AutoModStatus)
	}
}

func TestResolveDisputeRejected(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	post := f.addPost(author, models.StatusFlagged)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := f.service.Resolve(dispute.ID, uuid.New(), models.DisputeRejected, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Rejection leaves the content as moderated.
	if post.AutoModStatus != models.StatusFlagged {
		t.Errorf("content status = %q, want flagged", post.AutoModStatus)
	}
}

func TestResolveDisputeTerminal(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	post := f.addPost(author, models.StatusFlagged)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := f.service.Resolve(dispute.ID, uuid.New(), models.DisputeRejected, nil); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// Terminal states cannot be resolved again or withdrawn.
	if _, err := f.service.Resolve(dispute.ID, uuid.New(), models.DisputeAccepted, nil); !errors.Is(err, ErrDisputeResolved) {
		t.Errorf("second resolve: got %v, want ErrDisputeResolved", err)
	}
	if _, err := f.service.Withdraw(dispute.ID, author, false); !errors.Is(err, ErrDisputeResolved) {
		t.Errorf("withdraw after resolve: got %v, want ErrDisputeResolved", err)
	}
}

func TestResolveDisputeInvalidStatus(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	post := f.addPost(author, models.StatusFlagged)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	for _, status := range []string{models.DisputeOpen, models.DisputeWithdrawn, "escalated"} {
		if _, err := f.service.Resolve(dispute.ID, uuid.New(), status, nil); !errors.Is(err, ErrBadTransition) {
			t.Errorf("status %q: got %v, want ErrBadTransition", status, err)
		}
	}
}

func TestWithdrawDispute(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	post := f.addPost(author, models.StatusFlagged)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// A third party cannot withdraw.
	if _, err := f.service.Withdraw(dispute.ID, uuid.New(), false); !errors.Is(err, ErrNotDisputeParty) {
		t.Errorf("stranger withdraw: got %v, want ErrNotDisputeParty", err)
	}

	withdrawn, err := f.service.Withdraw(dispute.ID, author, false)
	if err != nil {
		t.Fatalf("author withdraw: %v", err)
	}
	if withdrawn.Status != models.DisputeWithdrawn {
		t.Errorf("status = %q, want withdrawn", withdrawn.Status)
	}
	// Withdrawal does not touch the content.
	if post.AutoModStatus != models.StatusFlagged {
		t.Errorf("content status = %q, want flagged", post.AutoModStatus)
	}

	// With the dispute closed, the author may open a new one.
	if _, err := f.service.Open(author, disputeReq(post.ID)); err != nil {
		t.Errorf("reopen after withdraw: %v", err)
	}
}

func TestWithdrawByModerator(t *testing.T) {
	f := newDisputeFixture()
	author := uuid.New()
	post := f.addPost(author, models.StatusBlocked)

	dispute, err := f.service.Open(author, disputeReq(post.ID))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	withdrawn, err := f.service.Withdraw(dispute.ID, uuid.New(), true)
	if err != nil {
		t.Fatalf("moderator withdraw: %v", err)
	}
	if withdrawn.Status != models.DisputeWithdrawn {
		t.Errorf("status = %q, want withdrawn", withdrawn.Status)
	}
}
