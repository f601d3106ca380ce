package models

import (
	"time"

	"github.com/google/uuid"
)

// BehaviorRecord holds per-author rolling posting statistics used for
// duplicate and rapid-fire detection. One record per author, upserted on
// every submission, never deleted.
type BehaviorRecord struct {
	AuthorID             uuid.UUID  `json:"author_id" db:"author_id"`
	PostsInLastHour      int        `json:"posts_in_last_hour" db:"posts_last_hour"`
	PostsInLastDay       int        `json:"posts_in_last_day" db:"posts_last_day"`
	LastPostAt           *time.Time `json:"last_post_at,omitempty" db:"last_post_at"`
	RecentContentHashes  []int64    `json:"recent_content_hashes" db:"recent_hashes"`
	DuplicateDetected    bool       `json:"duplicate_detected" db:"duplicate_detected"`
	RapidPostingDetected bool       `json:"rapid_posting_detected" db:"rapid_posting_detected"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}
