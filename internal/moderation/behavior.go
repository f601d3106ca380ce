package moderation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
)

const (
	defaultHashHistorySize = 10
	defaultRapidThreshold  = 5
	hashSampleLength       = 100
)

// BehaviorStore persists per-author rolling statistics. Implemented by
// repository.BehaviorRepository; tests inject an in-memory fake.
type BehaviorStore interface {
	Get(authorID uuid.UUID) (*models.BehaviorRecord, error)
	Upsert(record *models.BehaviorRecord) error
}

// BehaviorSignals is what a single Track call reports to the caller.
type BehaviorSignals struct {
	PostsInLastHour int
	PostsInLastDay  int
	IsDuplicate     bool
	IsRapid         bool
	ShouldFlag      bool
}

// Tracker maintains per-author duplicate and rate signals. The windows
// are recomputed from stored timestamps on every call; there is no
// background sweeper. Concurrent submissions by the same author can
// lose an update, which only weakens the heuristic.
type Tracker struct {
	store          BehaviorStore
	historySize    int
	rapidThreshold int
	now            func() time.Time
}

// NewTracker creates a behavior tracker. historySize and rapidThreshold
// fall back to the defaults (10 hashes, 5 posts/hour) when zero.
func NewTracker(store BehaviorStore, historySize, rapidThreshold int) *Tracker {
	if historySize <= 0 {
		historySize = defaultHashHistorySize
	}
	if rapidThreshold <= 0 {
		rapidThreshold = defaultRapidThreshold
	}
	return &Tracker{
		store:          store,
		historySize:    historySize,
		rapidThreshold: rapidThreshold,
		now:            time.Now,
	}
}

// Track records a submission for the author and returns the duplicate
// and rate signals. It upserts the author's behavior record as a side
// effect.
func (t *Tracker) Track(authorID uuid.UUID, content string) (*BehaviorSignals, error) {
	record, err := t.store.Get(authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load behavior record: %w", err)
	}
	if record == nil {
		record = &models.BehaviorRecord{AuthorID: authorID}
	}

	now := t.now()
	hash := ContentHash(content)

	isDuplicate := false
	for _, h := range record.RecentContentHashes {
		if h == hash {
			isDuplicate = true
			break
		}
	}

	// Counters reset when the last post falls outside the window,
	// otherwise increment.
	if record.LastPostAt == nil || now.Sub(*record.LastPostAt) > time.Hour {
		record.PostsInLastHour = 1
	} else {
		record.PostsInLastHour++
	}
	if record.LastPostAt == nil || now.Sub(*record.LastPostAt) > 24*time.Hour {
		record.PostsInLastDay = 1
	} else {
		record.PostsInLastDay++
	}

	isRapid := record.PostsInLastHour >= t.rapidThreshold

	// Most-recent-first, bounded history.
	hashes := append([]int64{hash}, record.RecentContentHashes...)
	if len(hashes) > t.historySize {
		hashes = hashes[:t.historySize]
	}
	record.RecentContentHashes = hashes
	record.LastPostAt = &now
	record.DuplicateDetected = isDuplicate
	record.RapidPostingDetected = isRapid
	record.UpdatedAt = now

	if err := t.store.Upsert(record); err != nil {
		return nil, fmt.Errorf("failed to save behavior record: %w", err)
	}

	return &BehaviorSignals{
		PostsInLastHour: record.PostsInLastHour,
		PostsInLastDay:  record.PostsInLastDay,
		IsDuplicate:     isDuplicate,
		IsRapid:         isRapid,
		ShouldFlag:      isDuplicate || isRapid,
	}, nil
}

// ContentHash computes the normalized duplicate-detection hash:
// lower-case, punctuation stripped, whitespace collapsed, truncated to
// the first 100 characters, then xxhash64. Non-cryptographic; collisions
// are tolerable for a heuristic signal.
func ContentHash(content string) int64 {
	normalized := normalizeContent(content)
	return int64(xxhash.Sum64String(normalized))
}

func normalizeContent(content string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(content) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
		// punctuation and symbols are dropped
	}
	normalized := strings.TrimSpace(b.String())
	// Truncate on runes so multi-byte text is never cut mid-sequence.
	if runes := []rune(normalized); len(runes) > hashSampleLength {
		normalized = string(runes[:hashSampleLength])
	}
	return normalized
}
