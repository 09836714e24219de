package repository

import (
	"time"

	emaildomain "inboxmind-backend/internal/email/domain"
)

// ConfidenceHistogram buckets AI confidence scores for analytics reporting.
// The bands are reporting-only; persisted state never distinguishes medium
// from low.
type ConfidenceHistogram struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

// EmailRepository defines the storage operations the reconciliation policy
// depends on.
type EmailRepository interface {
	Create(email *emaildomain.Email) error
	Update(email *emaildomain.Email) error
	// FindByID returns (nil, nil) when no active record matches.
	FindByID(userID, id string) (*emaildomain.Email, error)
	// ListActive returns active records newest-first with the total count.
	ListActive(userID string, limit, offset int) ([]*emaildomain.Email, int64, error)
	// ListActiveSince returns all active records received at or after cutoff.
	ListActiveSince(cutoff time.Time) ([]*emaildomain.Email, error)
	// ListAIGenerated returns active records still owned by the classifier
	// (is_ai_generated = true), newest-first, bounded by limit.
	ListAIGenerated(userID string, limit int) ([]*emaildomain.Email, error)
	// ListUnsummarized returns active records with no AI summary yet.
	ListUnsummarized(userID string, limit int) ([]*emaildomain.Email, error)
	// ExistsByMessageID is the dedup gate for externally sourced messages.
	ExistsByMessageID(userID, messageID string) (bool, error)
	CountByType(userID string) (map[string]int64, error)
	CountNeedsReview(userID string) (int64, error)
	ConfidenceHistogram(userID string, high, low float64) (*ConfidenceHistogram, error)
}

// DigestRepository stores memoized digests per range key.
type DigestRepository interface {
	// FindLatestByRange returns the most recently created entry for the key,
	// or (nil, nil) when none exists.
	FindLatestByRange(rangeKey string) (*emaildomain.EmailDigest, error)
	Create(digest *emaildomain.EmailDigest) error
}
