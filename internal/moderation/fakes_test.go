package moderation

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

// In-memory store fakes shared by the pipeline tests. They are not
// safe for concurrent use; tests drive them from one goroutine.

type fakeBehaviorStore struct {
	records map[uuid.UUID]*models.BehaviorRecord
	getErr  error
}

func newFakeBehaviorStore() *fakeBehaviorStore {
	return &fakeBehaviorStore{records: make(map[uuid.UUID]*models.BehaviorRecord)}
}

func (s *fakeBehaviorStore) Get(authorID uuid.UUID) (*models.BehaviorRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[authorID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.RecentContentHashes = append([]int64(nil), rec.RecentContentHashes...)
	return &cp, nil
}

func (s *fakeBehaviorStore) Upsert(record *models.BehaviorRecord) error {
	cp := *record
	cp.RecentContentHashes = append([]int64(nil), record.RecentContentHashes...)
	s.records[record.AuthorID] = &cp
	return nil
}

type fakeContentStore struct {
	posts        map[uuid.UUID]*models.Post
	createErr    error
	created      []*models.Post
	statusCalls  []string
	lastAnalysis json.RawMessage
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{posts: make(map[uuid.UUID]*models.Post)}
}

func (s *fakeContentStore) Create(post *models.Post) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, post)
	s.posts[post.ID] = post
	return nil
}

func (s *fakeContentStore) GetByID(id uuid.UUID) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return post, nil
}

func (s *fakeContentStore) UpdateClassification(id uuid.UUID, status, riskLevel string, analysis json.RawMessage, analyzedAt time.Time) error {
	post, ok := s.posts[id]
	if !ok {
		return errors.New("not found")
	}
	post.AutoModStatus = status
	post.RiskLevel = riskLevel
	post.AIAnalysis = analysis
	post.AIAnalyzedAt = &analyzedAt
	s.lastAnalysis = analysis
	return nil
}

func (s *fakeContentStore) UpdateStatus(id uuid.UUID, status string) error {
	post, ok := s.posts[id]
	if !ok {
		return errors.New("not found")
	}
	post.AutoModStatus = status
	s.statusCalls = append(s.statusCalls, status)
	return nil
}

func (s *fakeContentStore) IncrementReportCount(id uuid.UUID) error {
	post, ok := s.posts[id]
	if !ok {
		return errors.New("not found")
	}
	post.ReportCount++
	return nil
}

func (s *fakeContentStore) Remove(id, moderatorID uuid.UUID, reason string) error {
	post, ok := s.posts[id]
	if !ok {
		return errors.New("not found")
	}
	post.IsRemoved = true
	post.RemovedBy = &moderatorID
	post.RemovedReason = &reason
	return nil
}

type fakeCrisisStore struct {
	entries []*models.CrisisLog
}

func (s *fakeCrisisStore) Create(entry *models.CrisisLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeCrisisStore) ExistsForContent(contentID uuid.UUID) (bool, error) {
	for _, e := range s.entries {
		if e.ContentID == contentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeReputationStore struct {
	crisisPosts     map[uuid.UUID]int
	warnings        map[uuid.UUID]int
	reportsReceived map[uuid.UUID]int
}

func newFakeReputationStore() *fakeReputationStore {
	return &fakeReputationStore{
		crisisPosts:     make(map[uuid.UUID]int),
		warnings:        make(map[uuid.UUID]int),
		reportsReceived: make(map[uuid.UUID]int),
	}
}

func (s *fakeReputationStore) RecordCrisisPost(userID uuid.UUID, at time.Time) error {
	s.crisisPosts[userID]++
	return nil
}

func (s *fakeReputationStore) IncrementWarnings(userID uuid.UUID) error {
	s.warnings[userID]++
	return nil
}

func (s *fakeReputationStore) IncrementReportsReceived(userID uuid.UUID) error {
	s.reportsReceived[userID]++
	return nil
}

type fakeReportStore struct {
	reports map[uuid.UUID]*models.Report
	filed   int
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[uuid.UUID]*models.Report)}
}

func (s *fakeReportStore) Create(report *models.Report) error {
	s.reports[report.ID] = report
	s.filed++
	return nil
}

func (s *fakeReportStore) GetByID(id uuid.UUID) (*models.Report, error) {
	report, ok := s.reports[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return report, nil
}

func (s *fakeReportStore) CountByReporterSince(reporterID uuid.UUID, since time.Time) (int, error) {
	count := 0
	for _, r := range s.reports {
		if r.ReporterID == reporterID && r.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakeReportStore) UpdateStatus(id uuid.UUID, status string, reviewedBy uuid.UUID) error {
	report, ok := s.reports[id]
	if !ok {
		return errors.New("not found")
	}
	report.Status = status
	report.ReviewedBy = &reviewedBy
	return nil
}

type fakeDisputeStore struct {
	disputes map[uuid.UUID]*models.Dispute
}

func newFakeDisputeStore() *fakeDisputeStore {
	return &fakeDisputeStore{disputes: make(map[uuid.UUID]*models.Dispute)}
}

func (s *fakeDisputeStore) Create(dispute *models.Dispute) error {
	s.disputes[dispute.ID] = dispute
	return nil
}

func (s *fakeDisputeStore) GetByID(id uuid.UUID) (*models.Dispute, error) {
	dispute, ok := s.disputes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *dispute
	return &cp, nil
}

func (s *fakeDisputeStore) HasOpenForContent(contentID uuid.UUID) (bool, error) {
	for _, d := range s.disputes {
		if d.ContentID == contentID && d.Status == models.DisputeOpen {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeDisputeStore) Resolve(id uuid.UUID, status string, resolvedBy uuid.UUID, notes *string, at time.Time) (bool, error) {
	dispute, ok := s.disputes[id]
	if !ok {
		return false, errors.New("not found")
	}
	if dispute.Status != models.DisputeOpen {
		return false, nil
	}
	dispute.Status = status
	dispute.ResolvedBy = &resolvedBy
	dispute.ResolutionNotes = notes
	dispute.ResolvedAt = &at
	return true, nil
}

type fakeQueue struct {
	enqueued []uuid.UUID
	err      error
}

func (q *fakeQueue) Enqueue(contentID uuid.UUID, contentType string) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, contentID)
	return nil
}

type fakeFeed struct {
	events []models.FeedEvent
}

func (f *fakeFeed) PublishFeedEvent(event models.FeedEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeClassifier struct {
	verdict *RemoteVerdict
	err     error
	calls   int
}

func (c *fakeClassifier) Classify(content, contentType string) (*RemoteVerdict, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.verdict, nil
}
