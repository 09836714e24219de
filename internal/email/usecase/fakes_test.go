package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	authdomain "inboxmind-backend/internal/auth/domain"
	emaildomain "inboxmind-backend/internal/email/domain"
	"inboxmind-backend/internal/email/repository"
	"inboxmind-backend/pkg/ai"
	"inboxmind-backend/pkg/config"

	"gorm.io/gorm"
)

// fakeEmailRepo is an in-memory EmailRepository enforcing the same unique
// constraints as the Postgres schema.
type fakeEmailRepo struct {
	seq    int
	emails []*emaildomain.Email
}

func (r *fakeEmailRepo) Create(email *emaildomain.Email) error {
	for _, e := range r.emails {
		if email.GmailMessageID != nil && e.GmailMessageID != nil &&
			e.UserID == email.UserID && *e.GmailMessageID == *email.GmailMessageID {
			return gorm.ErrDuplicatedKey
		}
		if e.Sender == email.Sender && e.EmailType == email.EmailType {
			return gorm.ErrDuplicatedKey
		}
	}
	r.seq++
	if email.ID == "" {
		email.ID = fmt.Sprintf("email-%d", r.seq)
	}
	email.CreatedAt = time.Now()
	r.emails = append(r.emails, email)
	return nil
}

func (r *fakeEmailRepo) Update(email *emaildomain.Email) error {
	for i, e := range r.emails {
		if e.ID == email.ID {
			r.emails[i] = email
			return nil
		}
	}
	return errors.New("record not found")
}

func (r *fakeEmailRepo) FindByID(userID, id string) (*emaildomain.Email, error) {
	for _, e := range r.emails {
		if e.UserID == userID && e.ID == id && e.IsActive {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEmailRepo) ListActive(userID string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	active := r.activeByUser(userID)
	total := int64(len(active))
	if offset > len(active) {
		offset = len(active)
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], total, nil
}

func (r *fakeEmailRepo) ListActiveSince(cutoff time.Time) ([]*emaildomain.Email, error) {
	var result []*emaildomain.Email
	for _, e := range r.emails {
		if e.IsActive && !e.ReceivedAt.Before(cutoff) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEmailRepo) ListAIGenerated(userID string, limit int) ([]*emaildomain.Email, error) {
	var result []*emaildomain.Email
	for _, e := range r.activeByUser(userID) {
		if e.IsAIGenerated {
			result = append(result, e)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeEmailRepo) ListUnsummarized(userID string, limit int) ([]*emaildomain.Email, error) {
	var result []*emaildomain.Email
	for _, e := range r.activeByUser(userID) {
		if e.AISummary == nil {
			result = append(result, e)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeEmailRepo) ExistsByMessageID(userID, messageID string) (bool, error) {
	for _, e := range r.emails {
		if e.UserID == userID && e.GmailMessageID != nil && *e.GmailMessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmailRepo) CountByType(userID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range r.activeByUser(userID) {
		counts[e.EmailType]++
	}
	return counts, nil
}

func (r *fakeEmailRepo) CountNeedsReview(userID string) (int64, error) {
	var count int64
	for _, e := range r.activeByUser(userID) {
		if e.NeedsReview {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmailRepo) ConfidenceHistogram(userID string, high, low float64) (*repository.ConfidenceHistogram, error) {
	histogram := &repository.ConfidenceHistogram{}
	for _, e := range r.activeByUser(userID) {
		switch {
		case e.ConfidenceScore >= high:
			histogram.High++
		case e.ConfidenceScore >= low:
			histogram.Medium++
		default:
			histogram.Low++
		}
	}
	return histogram, nil
}

func (r *fakeEmailRepo) activeByUser(userID string) []*emaildomain.Email {
	var result []*emaildomain.Email
	for _, e := range r.emails {
		if e.UserID == userID && e.IsActive {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReceivedAt.After(result[j].ReceivedAt)
	})
	return result
}

type fakeDigestRepo struct {
	seq     int
	digests []*emaildomain.EmailDigest
}

func (r *fakeDigestRepo) FindLatestByRange(rangeKey string) (*emaildomain.EmailDigest, error) {
	for i := len(r.digests) - 1; i >= 0; i-- {
		if r.digests[i].RangeKey == rangeKey {
			return r.digests[i], nil
		}
	}
	return nil, nil
}

func (r *fakeDigestRepo) Create(digest *emaildomain.EmailDigest) error {
	r.seq++
	if digest.ID == "" {
		digest.ID = fmt.Sprintf("digest-%d", r.seq)
	}
	digest.CreatedAt = time.Now()
	r.digests = append(r.digests, digest)
	return nil
}

// fakeUserRepo only needs the Google account lookup for sync tests.
type fakeUserRepo struct {
	account *authdomain.GoogleAccount
}

func (r *fakeUserRepo) Create(*authdomain.User) error                   { return nil }
func (r *fakeUserRepo) Update(*authdomain.User) error                   { return nil }
func (r *fakeUserRepo) FindByEmail(string) (*authdomain.User, error)    { return nil, nil }
func (r *fakeUserRepo) FindByID(string) (*authdomain.User, error)       { return nil, nil }
func (r *fakeUserRepo) SaveRefreshToken(*authdomain.RefreshToken) error { return nil }
func (r *fakeUserRepo) FindRefreshToken(string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (r *fakeUserRepo) DeleteRefreshToken(string) error { return nil }
func (r *fakeUserRepo) FindGoogleAccountByGoogleID(string) (*authdomain.GoogleAccount, error) {
	return nil, nil
}
func (r *fakeUserRepo) FindGoogleAccountByUserID(userID string) (*authdomain.GoogleAccount, error) {
	if r.account != nil && r.account.UserID == userID {
		return r.account, nil
	}
	return nil, nil
}
func (r *fakeUserRepo) SaveGoogleAccount(*authdomain.GoogleAccount) error { return nil }

// stubAI is a deterministic ai.Client counting model calls.
type stubAI struct {
	classifyFn  func(body string) ai.Classification
	summarizeFn func(body string) ai.Summary
	digestFn    func(entries []ai.DigestEntry) ai.Digest

	classifyCalls  int
	summarizeCalls int
	digestCalls    int
}

func (s *stubAI) Classify(_ context.Context, body string) ai.Classification {
	s.classifyCalls++
	if s.classifyFn != nil {
		return s.classifyFn(body)
	}
	return ai.Classification{EmailType: ai.TypeSupport, Confidence: 0.9, Reason: "stub reason", ModelVersion: "stub-v1"}
}

func (s *stubAI) Summarize(_ context.Context, body string) ai.Summary {
	s.summarizeCalls++
	if s.summarizeFn != nil {
		return s.summarizeFn(body)
	}
	summary := "stub summary"
	return ai.Summary{Summary: &summary, ModelVersion: "stub-v1", Reason: "success"}
}

func (s *stubAI) GenerateDigest(_ context.Context, entries []ai.DigestEntry) ai.Digest {
	if len(entries) == 0 {
		return ai.Digest{Digest: "No emails found for this time period.", ModelVersion: "stub-v1"}
	}
	s.digestCalls++
	if s.digestFn != nil {
		return s.digestFn(entries)
	}
	return ai.Digest{Digest: "- stub digest", ModelVersion: "stub-v1"}
}

type fakeGmailFetcher struct {
	messages []emaildomain.IncomingMessage
	err      error
}

func (f *fakeGmailFetcher) FetchRecent(_ context.Context, _, _ string, _ int64) ([]emaildomain.IncomingMessage, error) {
	return f.messages, f.err
}

type fakeIMAPFetcher struct {
	messages []emaildomain.IncomingMessage
	err      error
	lastMax  int
}

func (f *fakeIMAPFetcher) FetchRecent(_, _, _ string, max int) ([]emaildomain.IncomingMessage, error) {
	f.lastMax = max
	return f.messages, f.err
}

type testEnv struct {
	uc         EmailUsecase
	emailRepo  *fakeEmailRepo
	digestRepo *fakeDigestRepo
	userRepo   *fakeUserRepo
	aiClient   *stubAI
	gmail      *fakeGmailFetcher
	imap       *fakeIMAPFetcher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		emailRepo:  &fakeEmailRepo{},
		digestRepo: &fakeDigestRepo{},
		userRepo:   &fakeUserRepo{},
		aiClient:   &stubAI{},
		gmail:      &fakeGmailFetcher{},
		imap:       &fakeIMAPFetcher{},
	}
	cfg := &config.Config{
		HighThreshold:  0.8,
		LowThreshold:   0.6,
		GmailSyncLimit: 50,
	}
	env.uc = NewEmailUsecase(env.emailRepo, env.digestRepo, env.userRepo, env.aiClient, env.gmail, env.imap, cfg)
	return env
}

func classification(emailType string, confidence float64) ai.Classification {
	return ai.Classification{
		EmailType:    emailType,
		Confidence:   confidence,
		Reason:       fmt.Sprintf("classified as %s", emailType),
		ModelVersion: "stub-v1",
	}
}

func message(id, sender, body string) emaildomain.IncomingMessage {
	return emaildomain.IncomingMessage{
		MessageID:  id,
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now(),
	}
}
