package usecase

import (
	"context"
	"errors"

	emaildomain "inboxmind-backend/internal/email/domain"
	emaildto "inboxmind-backend/internal/email/dto"
)

var (
	// ErrNotFound covers unknown or inactive record ids.
	ErrNotFound = errors.New("email not found")
	// ErrInvalidEmailType rejects override targets outside the fixed label set.
	ErrInvalidEmailType = errors.New("invalid email type: allowed values are newsletter, support, marketing")
	// ErrDuplicateEmail signals the sender/type uniqueness rule on direct creation.
	ErrDuplicateEmail = errors.New("an email with this sender and type already exists")
)

// EmailUsecase is the reconciliation policy plus the read paths built on it.
type EmailUsecase interface {
	// Create classifies and persists a manually submitted email.
	Create(ctx context.Context, userID, sender, body string) (*emaildomain.Email, error)
	// Ingest admits one externally sourced message through the dedup gate,
	// classifies it and persists it. Returns created=false for duplicates.
	Ingest(ctx context.Context, userID string, msg emaildomain.IncomingMessage) (created bool, err error)
	List(userID string, limit, offset int) ([]*emaildomain.Email, int64, error)
	// OverrideType applies a human decision. Sticky: reclassification will
	// never touch the record again.
	OverrideType(userID, id, newType string) (*emaildomain.Email, error)
	SoftDelete(userID, id string) error
	// Reclassify re-runs classification over at most limit records that are
	// still AI-owned. Idempotent; human-overridden records are skipped.
	Reclassify(ctx context.Context, userID string, limit int) (int, error)
	// Summarize fills ai_summary for at most limit records that have none.
	Summarize(ctx context.Context, userID string, limit int) (int, error)
	Analytics(userID string) (*emaildto.AnalyticsResponse, error)
	// DigestByRange returns the cached digest for the range, building and
	// memoizing one on first request.
	DigestByRange(ctx context.Context, rangeKey string) (*emaildto.DigestResponse, error)
	// SyncGmail ingests the most recent Gmail messages for the user's linked
	// Google account.
	SyncGmail(ctx context.Context, userID string) (*emaildto.SyncResponse, error)
	// SyncIMAP ingests the most recent INBOX messages from an IMAP server.
	SyncIMAP(ctx context.Context, userID string, req *emaildto.IMAPSyncRequest) (*emaildto.SyncResponse, error)
}

// GmailFetcher yields recent messages for a Google account.
type GmailFetcher interface {
	FetchRecent(ctx context.Context, accessToken, refreshToken string, max int64) ([]emaildomain.IncomingMessage, error)
}

// IMAPFetcher yields recent messages from an IMAP mailbox.
type IMAPFetcher interface {
	FetchRecent(addr, username, password string, max int) ([]emaildomain.IncomingMessage, error)
}
