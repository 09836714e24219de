package usecase

import (
	"context"
	"testing"

	"inboxmind-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestClassifiesAndFlagsReview(t *testing.T) {
	tests := []struct {
		name            string
		confidence      float64
		wantNeedsReview bool
	}{
		{"high confidence", 0.95, false},
		{"exactly at threshold", 0.8, false},
		{"just below threshold", 0.79, true},
		{"low confidence", 0.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.aiClient.classifyFn = func(string) ai.Classification {
				return classification(ai.TypeSupport, tt.confidence)
			}

			created, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "body"))
			require.NoError(t, err)
			require.True(t, created)

			require.Len(t, env.emailRepo.emails, 1)
			email := env.emailRepo.emails[0]
			assert.Equal(t, ai.TypeSupport, email.EmailType)
			assert.Equal(t, ai.TypeSupport, email.AIEmailType)
			assert.InDelta(t, tt.confidence, email.ConfidenceScore, 1e-9)
			assert.True(t, email.IsAIGenerated)
			assert.Equal(t, tt.wantNeedsReview, email.NeedsReview)
			assert.True(t, email.IsActive)
		})
	}
}

func TestIngestDeduplicatesByMessageID(t *testing.T) {
	env := newTestEnv()

	created, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "first copy"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "second copy"))
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, env.emailRepo.emails, 1)
	assert.Equal(t, 1, env.aiClient.classifyCalls, "duplicate must be skipped before classification")
}

func TestIngestSameMessageIDDifferentUsers(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(body string) ai.Classification {
		if body == "newsletter body" {
			return classification(ai.TypeNewsletter, 0.9)
		}
		return classification(ai.TypeSupport, 0.9)
	}

	created, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "support body"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.uc.Ingest(context.Background(), "user-2", message("msg-1", "b@example.com", "newsletter body"))
	require.NoError(t, err)
	assert.True(t, created, "message id uniqueness is scoped per owner")
	assert.Len(t, env.emailRepo.emails, 2)
}

func TestIngestSkipsEmptyMessageID(t *testing.T) {
	env := newTestEnv()

	created, err := env.uc.Ingest(context.Background(), "user-1", message("", "a@example.com", "body"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, env.emailRepo.emails)
	assert.Zero(t, env.aiClient.classifyCalls)
}

func TestIngestPersistsFallbackClassification(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(string) ai.Classification {
		return ai.Classification{
			EmailType:    ai.TypeSupport,
			Confidence:   0.0,
			Reason:       "AI classification failed: connection refused",
			ModelVersion: ai.FallbackModelVersion,
		}
	}

	created, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "body"))
	require.NoError(t, err)
	require.True(t, created)

	email := env.emailRepo.emails[0]
	assert.Equal(t, ai.TypeSupport, email.EmailType)
	assert.Equal(t, ai.FallbackModelVersion, email.ModelVersion)
	assert.True(t, email.NeedsReview, "zero confidence always lands in the review queue")
}

func TestCreateRejectsDuplicateSenderType(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeMarketing, 0.9)
	}

	_, err := env.uc.Create(context.Background(), "user-1", "promo@example.com", "spring sale")
	require.NoError(t, err)

	_, err = env.uc.Create(context.Background(), "user-1", "promo@example.com", "summer sale")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, env.emailRepo.emails, 1)
}

func TestOverrideType(t *testing.T) {
	env := newTestEnv()
	env.aiClient.classifyFn = func(string) ai.Classification {
		return classification(ai.TypeNewsletter, 0.7)
	}

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "body"))
	require.NoError(t, err)
	id := env.emailRepo.emails[0].ID

	email, err := env.uc.OverrideType("user-1", id, ai.TypeMarketing)
	require.NoError(t, err)

	assert.Equal(t, ai.TypeMarketing, email.EmailType)
	assert.Equal(t, ai.TypeNewsletter, email.AIEmailType, "AI suggestion is kept for the audit trail")
	assert.False(t, email.IsAIGenerated)
	assert.False(t, email.NeedsReview)
}

func TestOverrideTypeRejectsUnknownLabel(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.OverrideType("user-1", "email-1", "spam")
	assert.ErrorIs(t, err, ErrInvalidEmailType)
}

func TestOverrideTypeUnknownID(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.OverrideType("user-1", "missing", ai.TypeSupport)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteHidesFromList(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Ingest(context.Background(), "user-1", message("msg-1", "a@example.com", "body"))
	require.NoError(t, err)
	id := env.emailRepo.emails[0].ID

	require.NoError(t, env.uc.SoftDelete("user-1", id))

	emails, total, err := env.uc.List("user-1", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, emails)
	assert.Zero(t, total)

	assert.ErrorIs(t, env.uc.SoftDelete("user-1", id), ErrNotFound)
}
