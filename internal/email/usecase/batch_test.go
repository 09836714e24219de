package usecase

import (
	"context"
	"testing"

	"inboxmind-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclassifyClearsReviewFlagOnHigherConfidence(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeSupport, 0.5)
	}

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "body"))
	require.NoError(t, err)
	require.True(t, env.emailRepo.emails[0].NeedsReview)

	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeSupport, 0.92)
	}

	processed, err := env.uc.Reclassify(context.Background(), "user-1", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	email := env.emailRepo.emails[0]
	assert.False(t, email.NeedsReview)
	assert.InDelta(t, 0.92, email.ConfidenceScore, 1e-9)
}

func TestReclassifySkipsHumanOverriddenRecords(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeNewsletter, 0.65)
	}

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "overridden"))
	require.NoError(t, err)
	_, err = env.uc.Ingest(context.Background(), "user-1", message("msg-2", "b@example.com", "ai-owned"))
	require.NoError(t, err)

	overriddenID := env.emailRepo.emails[0].ID
	_, err = env.uc.OverrideType("user-1", overriddenID, ai.TypeMarketing)
	require.NoError(t, err)

	env.aiClient.classifyCalls = 0
	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeSupport, 0.99)
	}

	processed, err := env.uc.Reclassify(context.Background(), "user-1", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, env.aiClient.classifyCalls, "overridden record must never reach the classifier")

	overridden, err := env.emailRepo.FindByID("user-1", overriddenID)
	require.NoError(t, err)
	assert.Equal(t, ai.TypeMarketing, overridden.EmailType)
	assert.False(t, overridden.IsAIGenerated)
	assert.False(t, overridden.NeedsReview)
}

func TestReclassifyIdempotent(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeSupport, 0.9)
	}

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "body"))
	require.NoError(t, err)

	first, err := env.uc.Reclassify(context.Background(), "user-1", 50)
	require.NoError(t, err)
	second, err := env.uc.Reclassify(context.Background(), "user-1", 50)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	email := env.emailRepo.emails[0]
	assert.Equal(t, ai.TypeSupport, email.EmailType)
	assert.False(t, email.NeedsReview)
}

func TestSummarizeFillsOnlyMissingSummaries(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "needs a summary"))
	require.NoError(t, err)
	_, err = env.uc.Ingest(context.Background(), "user-1", message("msg-2", "b@example.com", "already summarized"))
	require.NoError(t, err)

	existing := "already done"
	env.emailRepo.emails[1].AISummary = &existing

	processed, err := env.uc.Summarize(context.Background(), "user-1", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, env.aiClient.summarizeCalls)

	require.NotNil(t, env.emailRepo.emails[0].AISummary)
	assert.Equal(t, "stub summary", *env.emailRepo.emails[0].AISummary)
	assert.Equal(t, "already done", *env.emailRepo.emails[1].AISummary)

	// Re-running is a no-op once everything has a summary.
	processed, err = env.uc.Summarize(context.Background(), "user-1", 50)
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Equal(t, 1, env.aiClient.summarizeCalls)
}

func TestSummarizeLeavesTooShortBodiesNull(t *testing.T) {
	env := newTestEnv()
	env.aiClient.summarizeFn = func(string) ai.Summary {
		return ai.Summary{Summary: nil, ModelVersion: "stub-v1", Reason: "Email body too short to summarize"}
	}

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "short"))
	require.NoError(t, err)

	processed, err := env.uc.Summarize(context.Background(), "user-1", 50)
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Nil(t, env.emailRepo.emails[0].AISummary)
}
