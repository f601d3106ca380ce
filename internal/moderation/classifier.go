package moderation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/havenspace/backend/internal/models"
)

// Remote recommended actions
const (
	ActionRemove = "remove"
	ActionFlag   = "flag"
)

// RemoteVerdict is the higher-fidelity classification returned by the
// out-of-process service. Treated as untrusted, best-effort input.
type RemoteVerdict struct {
	RiskLevel         string   `json:"risk_level"`
	Concerns          []string `json:"concerns"`
	RecommendedAction string   `json:"recommended_action"`
}

// Classifier abstracts the remote classification call so the worker can
// be tested without the network.
type Classifier interface {
	Classify(content, contentType string) (*RemoteVerdict, error)
}

// ClassifierClient calls the remote classification endpoint over HTTP.
type ClassifierClient struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClassifierClient builds a client for the given base URL. Transient
// failures are retried a couple of times; anything beyond that is the
// caller's problem to swallow.
func NewClassifierClient(baseURL string, timeout time.Duration) *ClassifierClient {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return &ClassifierClient{
		baseURL: baseURL,
		http:    client,
	}
}

type classifyRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// Classify sends the content to the remote service and decodes its
// verdict.
func (c *ClassifierClient) Classify(content, contentType string) (*RemoteVerdict, error) {
	payload, err := json.Marshal(classifyRequest{Content: content, ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode classify request: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ClassificationUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ClassificationUnavailableError{
			Err: fmt.Errorf("classifier returned %d: %s", resp.StatusCode, string(body)),
		}
	}

	var verdict RemoteVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, &ClassificationUnavailableError{Err: fmt.Errorf("failed to decode verdict: %w", err)}
	}

	return &verdict, nil
}

// JobSource delivers queued classification jobs. The redis-backed
// implementation lives in the cache package.
type JobSource interface {
	ClassifyJobs() <-chan models.ClassifyJob
}

// ReclassifyWorker reconciles remote verdicts with stored content. It
// runs detached from the request that scheduled it: failures are logged
// and swallowed, never propagated back to a submission.
type ReclassifyWorker struct {
	classifier Classifier
	content    ContentStore
	crisis     CrisisStore
}

func NewReclassifyWorker(classifier Classifier, content ContentStore, crisis CrisisStore) *ReclassifyWorker {
	return &ReclassifyWorker{
		classifier: classifier,
		content:    content,
		crisis:     crisis,
	}
}

// Run consumes jobs until the source channel closes.
func (w *ReclassifyWorker) Run(source JobSource) {
	log.Println("Reclassification worker started")
	for job := range source.ClassifyJobs() {
		id, err := uuid.Parse(job.ContentID)
		if err != nil {
			log.Printf("dropping classify job with bad content id %q: %v", job.ContentID, err)
			continue
		}
		go w.Process(id)
	}
}

// Process classifies one stored post and reconciles the verdict. Safe
// to call concurrently; a failure leaves the post at its
// synchronous-layer status.
func (w *ReclassifyWorker) Process(contentID uuid.UUID) {
	post, err := w.content.GetByID(contentID)
	if err != nil {
		log.Printf("reclassify: failed to load post %s: %v", contentID, err)
		return
	}
	if post.IsRemoved {
		return
	}

	verdict, err := w.classifier.Classify(post.Body, post.Kind)
	if err != nil {
		log.Printf("reclassify: post %s left at %s: %v", contentID, post.AutoModStatus, err)
		return
	}

	status := reconcileStatus(post.AutoModStatus, verdict.RecommendedAction)
	riskLevel := post.RiskLevel
	if verdict.RiskLevel != "" && verdict.RiskLevel != post.RiskLevel {
		riskLevel = verdict.RiskLevel
	}

	raw, err := json.Marshal(verdict)
	if err != nil {
		log.Printf("reclassify: failed to encode verdict for post %s: %v", contentID, err)
		return
	}

	if err := w.content.UpdateClassification(contentID, status, riskLevel, raw, time.Now()); err != nil {
		log.Printf("reclassify: failed to update post %s: %v", contentID, err)
		return
	}

	if riskLevel == models.RiskHigh || riskLevel == models.RiskCritical {
		exists, err := w.crisis.ExistsForContent(contentID)
		if err != nil {
			log.Printf("reclassify: failed to check crisis log for post %s: %v", contentID, err)
			return
		}
		if !exists {
			entry := &models.CrisisLog{
				ID:               uuid.New(),
				ContentID:        contentID,
				ContentType:      post.Kind,
				RiskLevel:        models.CrisisRiskLevel(riskLevel),
				Action:           models.CrisisActionAIDetected,
				ResolutionStatus: models.CrisisUnresolved,
				CreatedAt:        time.Now(),
			}
			if err := w.crisis.Create(entry); err != nil {
				log.Printf("reclassify: failed to write crisis log for post %s: %v", contentID, err)
			}
		}
	}
}

// InlineQueue runs classifications in a detached goroutine instead of
// a broker. Used when Redis is unavailable; the fire-and-forget
// contract is the same.
type InlineQueue struct {
	Worker *ReclassifyWorker
}

func (q *InlineQueue) Enqueue(contentID uuid.UUID, contentType string) error {
	go q.Worker.Process(contentID)
	return nil
}

// reconcileStatus maps the remote action onto an auto-mod status.
// Automated transitions are forward-only: the bridge tightens but never
// loosens; loosening is reserved for moderators and accepted disputes.
func reconcileStatus(current, action string) string {
	target := models.StatusApproved
	switch action {
	case ActionRemove:
		target = models.StatusBlocked
	case ActionFlag:
		target = models.StatusFlagged
	}
	if models.StatusRank(target) > models.StatusRank(current) {
		return target
	}
	return current
}
