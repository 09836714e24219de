package usecase

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Reclassify re-applies the classifier to records still owned by it.
// Human-overridden records never appear in the batch: the repository query
// filters on is_ai_generated, so override stickiness holds by construction.
// Each record is processed independently and idempotently; a failure mid-batch
// reports the true count of records committed so far.
func (u *emailUsecase) Reclassify(ctx context.Context, userID string, limit int) (int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	emails, err := u.emailRepo.ListAIGenerated(userID, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, email := range emails {
		result := u.aiClient.Classify(ctx, email.Body)
		u.applyClassification(email, result)

		if err := u.emailRepo.Update(email); err != nil {
			return processed, err
		}
		processed++
	}

	log.Info().Str("user_id", userID).Int("processed", processed).Msg("reclassify batch complete")
	return processed, nil
}

// Summarize fills ai_summary for records that have none. Records whose body is
// too short keep a null summary and are skipped again next run without a model
// call; already-summarized records never enter the batch, so re-running is a
// no-op.
func (u *emailUsecase) Summarize(ctx context.Context, userID string, limit int) (int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	emails, err := u.emailRepo.ListUnsummarized(userID, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, email := range emails {
		result := u.aiClient.Summarize(ctx, email.Body)
		if result.Summary == nil {
			continue
		}

		email.AISummary = result.Summary
		if err := u.emailRepo.Update(email); err != nil {
			return processed, err
		}
		processed++
	}

	log.Info().Str("user_id", userID).Int("processed", processed).Msg("summarize batch complete")
	return processed, nil
}
