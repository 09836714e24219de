package usecase

import (
	"context"
	"time"

	emaildomain "inboxmind-backend/internal/email/domain"
	emaildto "inboxmind-backend/internal/email/dto"
	"inboxmind-backend/pkg/ai"
	"inboxmind-backend/pkg/timerange"

	"github.com/rs/zerolog/log"
)

func (u *emailUsecase) Analytics(userID string) (*emaildto.AnalyticsResponse, error) {
	counts, err := u.emailRepo.CountByType(userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	needsReview, err := u.emailRepo.CountNeedsReview(userID)
	if err != nil {
		return nil, err
	}

	histogram, err := u.emailRepo.ConfidenceHistogram(userID, u.cfg.HighThreshold, u.cfg.LowThreshold)
	if err != nil {
		return nil, err
	}

	return &emaildto.AnalyticsResponse{
		Total:       total,
		ByType:      counts,
		NeedsReview: needsReview,
		Confidence:  histogram,
	}, nil
}

// DigestByRange memoizes one digest per range key. A cached entry is served
// without touching the AI client; on a miss the digest is built from the
// classification reasons of every active record in the window and persisted.
func (u *emailUsecase) DigestByRange(ctx context.Context, rangeKey string) (*emaildto.DigestResponse, error) {
	cutoff, err := timerange.Cutoff(rangeKey, time.Now())
	if err != nil {
		return nil, err
	}

	emails, err := u.emailRepo.ListActiveSince(cutoff)
	if err != nil {
		return nil, err
	}

	if cached, err := u.digestRepo.FindLatestByRange(rangeKey); err != nil {
		return nil, err
	} else if cached != nil {
		return &emaildto.DigestResponse{
			Range:        rangeKey,
			EmailCount:   len(emails),
			Digest:       cached.Content,
			ModelVersion: cached.ModelVersion,
			Cached:       true,
		}, nil
	}

	entries := make([]ai.DigestEntry, 0, len(emails))
	for _, email := range emails {
		if email.AIReason == "" {
			continue
		}
		entries = append(entries, ai.DigestEntry{
			Text:     email.AIReason,
			Category: email.EmailType,
		})
	}

	result := u.aiClient.GenerateDigest(ctx, entries)

	// An empty window produces the fixed no-data message without a model
	// call; that result is not memoized, so the first window with real mail
	// still gets a digest.
	if len(entries) > 0 {
		digest := &emaildomain.EmailDigest{
			RangeKey:     rangeKey,
			Content:      result.Digest,
			ModelVersion: result.ModelVersion,
		}
		if err := u.digestRepo.Create(digest); err != nil {
			return nil, err
		}
		log.Info().Str("range", rangeKey).Int("emails", len(emails)).Msg("digest generated and cached")
	}

	return &emaildto.DigestResponse{
		Range:        rangeKey,
		EmailCount:   len(emails),
		Digest:       result.Digest,
		ModelVersion: result.ModelVersion,
		Cached:       false,
	}, nil
}
