package moderation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

func TestClassifierClient(t *testing.T) {
	var gotPath string
	var gotReq classifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(RemoteVerdict{
			RiskLevel:         models.RiskHigh,
			Concerns:          []string{"suicidal_ideation"},
			RecommendedAction: ActionFlag,
		})
	}))
	defer server.Close()

	client := NewClassifierClient(server.URL, 5*time.Second)
	verdict, err := client.Classify("some text", models.KindTopic)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if gotPath != "/v1/classify" {
		t.Errorf("path = %q, want /v1/classify", gotPath)
	}
	if gotReq.Content != "some text" || gotReq.ContentType != models.KindTopic {
		t.Errorf("request = %+v", gotReq)
	}
	if verdict.RiskLevel != models.RiskHigh || verdict.RecommendedAction != ActionFlag {
		t.Errorf("verdict = %+v", verdict)
	}
}

func TestClassifierClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClassifierClient(server.URL, 5*time.Second)
	_, err := client.Classify("some text", models.KindTopic)

	var cue *ClassificationUnavailableError
	if !errors.As(err, &cue) {
		t.Fatalf("got %v, want ClassificationUnavailableError", err)
	}
}

func TestReconcileStatusForwardOnly(t *testing.T) {
	tests := []struct {
		current string
		action  string
		want    string
	}{
		{models.StatusApproved, ActionFlag, models.StatusFlagged},
		{models.StatusApproved, ActionRemove, models.StatusBlocked},
		{models.StatusFlagged, ActionRemove, models.StatusBlocked},
		// The bridge never loosens a decision.
		{models.StatusFlagged, "approve", models.StatusFlagged},
		{models.StatusBlocked, ActionFlag, models.StatusBlocked},
		{models.StatusBlocked, "approve", models.StatusBlocked},
		{models.StatusApproved, "approve", models.StatusApproved},
		// Unknown actions are treated as approve.
		{models.StatusFlagged, "escalate_to_human", models.StatusFlagged},
	}

	for _, tt := range tests {
		if got := reconcileStatus(tt.current, tt.action); got != tt.want {
			t.Errorf("reconcileStatus(%q, %q) = %q, want %q", tt.current, tt.action, got, tt.want)
		}
	}
}

func newStoredPost(content *fakeContentStore, status, risk string) *models.Post {
	post := &models.Post{
		ID:            uuid.New(),
		AuthorID:      uuid.New(),
		Kind:          models.KindTopic,
		Body:          "stored body",
		AutoModStatus: status,
		RiskLevel:     risk,
	}
	content.posts[post.ID] = post
	return post
}

func TestWorkerProcessAppliesVerdict(t *testing.T) {
	content := newFakeContentStore()
	crisis := &fakeCrisisStore{}
	post := newStoredPost(content, models.StatusApproved, models.RiskNone)

	classifier := &fakeClassifier{verdict: &RemoteVerdict{
		RiskLevel:         models.RiskHigh,
		Concerns:          []string{"suicidal_ideation"},
		RecommendedAction: ActionFlag,
	}}
	worker := NewReclassifyWorker(classifier, content, crisis)

	worker.Process(post.ID)

	if post.AutoModStatus != models.StatusFlagged {
		t.Errorf("status = %q, want flagged", post.AutoModStatus)
	}
	if post.RiskLevel != models.RiskHigh {
		t.Errorf("risk = %q, want high", post.RiskLevel)
	}
	if post.AIAnalyzedAt == nil {
		t.Error("AIAnalyzedAt not stamped")
	}
	if len(content.lastAnalysis) == 0 {
		t.Error("verdict not stored")
	}
	if len(crisis.entries) != 1 || crisis.entries[0].Action != models.CrisisActionAIDetected {
		t.Errorf("crisis entries = %+v, want one ai_detected", crisis.entries)
	}
}

func TestWorkerProcessNeverLoosens(t *testing.T) {
	content := newFakeContentStore()
	crisis := &fakeCrisisStore{}
	post := newStoredPost(content, models.StatusBlocked, models.RiskCritical)

	classifier := &fakeClassifier{verdict: &RemoteVerdict{
		RiskLevel:         models.RiskLow,
		RecommendedAction: "approve",
	}}
	worker := NewReclassifyWorker(classifier, content, crisis)

	worker.Process(post.ID)

	if post.AutoModStatus != models.StatusBlocked {
		t.Errorf("status = %q, remote verdict loosened a blocked post", post.AutoModStatus)
	}
	// The risk annotation does follow the remote verdict.
	if post.RiskLevel != models.RiskLow {
		t.Errorf("risk = %q, want low", post.RiskLevel)
	}
}

func TestWorkerProcessSkipsRemovedContent(t *testing.T) {
	content := newFakeContentStore()
	post := newStoredPost(content, models.StatusFlagged, models.RiskHigh)
	post.IsRemoved = true

	classifier := &fakeClassifier{verdict: &RemoteVerdict{RecommendedAction: ActionRemove}}
	worker := NewReclassifyWorker(classifier, content, &fakeCrisisStore{})

	worker.Process(post.ID)

	if classifier.calls != 0 {
		t.Error("classifier called for removed content")
	}
}

func TestWorkerProcessSwallowsClassifierFailure(t *testing.T) {
	content := newFakeContentStore()
	post := newStoredPost(content, models.StatusFlagged, models.RiskHigh)

	classifier := &fakeClassifier{err: errors.New("timeout")}
	worker := NewReclassifyWorker(classifier, content, &fakeCrisisStore{})

	worker.Process(post.ID)

	if post.AutoModStatus != models.StatusFlagged {
		t.Errorf("status changed on classifier failure: %q", post.AutoModStatus)
	}
	if post.AIAnalyzedAt != nil {
		t.Error("AIAnalyzedAt stamped despite failure")
	}
}

func TestWorkerProcessNoDuplicateCrisisLog(t *testing.T) {
	content := newFakeContentStore()
	crisis := &fakeCrisisStore{}
	post := newStoredPost(content, models.StatusFlagged, models.RiskHigh)

	// The synchronous layer already logged this content.
	crisis.entries = append(crisis.entries, &models.CrisisLog{
		ID:        uuid.New(),
		ContentID: post.ID,
		Action:    models.CrisisActionAddResources,
	})

	classifier := &fakeClassifier{verdict: &RemoteVerdict{
		RiskLevel:         models.RiskCritical,
		RecommendedAction: ActionRemove,
	}}
	worker := NewReclassifyWorker(classifier, content, crisis)

	worker.Process(post.ID)

	if len(crisis.entries) != 1 {
		t.Errorf("crisis entries = %d, want 1 (no duplicate)", len(crisis.entries))
	}
	if post.AutoModStatus != models.StatusBlocked {
		t.Errorf("status = %q, want blocked", post.AutoModStatus)
	}
}
