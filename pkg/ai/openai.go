package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// Client is the contract the reconciliation policy depends on. All three
// operations are total: they never return an error, collapsing every failure
// of the underlying model call into a deterministic fallback result.
type Client interface {
	Classify(ctx context.Context, body string) Classification
	Summarize(ctx context.Context, body string) Summary
	GenerateDigest(ctx context.Context, entries []DigestEntry) Digest
}

// chatCompleter is the slice of the OpenAI client the package uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const (
	DefaultModel   = "gpt-4o-mini"
	defaultTimeout = 20 * time.Second

	// Bodies shorter than this (after trimming) are not worth a model call.
	minSummarizeLength = 30
)

// Config holds OpenAI client configuration. Passed explicitly so tests can
// construct clients around stub completers instead of a process-wide singleton.
type Config struct {
	APIKey       string
	Model        string
	ModelVersion string // tag persisted on records, defaults to "<model>-v1"
	Timeout      time.Duration
}

// OpenAIClient implements Client over OpenAI chat completions with a
// per-call timeout and a circuit breaker. A tripped breaker fails fast into
// the same fallback path as a transport error.
type OpenAIClient struct {
	chat         chatCompleter
	model        string
	modelVersion string
	timeout      time.Duration
	breaker      *gobreaker.CircuitBreaker
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	return newClient(openai.NewClient(cfg.APIKey), cfg)
}

func newClient(chat chatCompleter, cfg Config) *OpenAIClient {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	modelVersion := cfg.ModelVersion
	if modelVersion == "" {
		modelVersion = model + "-v1"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &OpenAIClient{
		chat:         chat,
		model:        model,
		modelVersion: modelVersion,
		timeout:      timeout,
		breaker:      breaker,
	}
}

// Classify categorizes an email body into the fixed label set.
func (c *OpenAIClient) Classify(ctx context.Context, body string) Classification {
	result, err := c.classify(ctx, body)
	if err != nil {
		log.Warn().Err(err).Msg("classification failed, using fallback")
		return fallbackClassification("AI classification failed: " + err.Error())
	}
	return result
}

func (c *OpenAIClient) classify(ctx context.Context, body string) (Classification, error) {
	content, err := c.complete(ctx, classifySystemPrompt, classifyPrompt(body), 150)
	if err != nil {
		return Classification{}, err
	}

	var raw struct {
		EmailType  string   `json:"email_type"`
		Confidence *float64 `json:"confidence"`
		Reason     string   `json:"reason"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return Classification{}, fmt.Errorf("malformed classification response: %w", err)
	}

	if !AllowedTypes[raw.EmailType] {
		return Classification{}, fmt.Errorf("invalid email type returned by model: %q", raw.EmailType)
	}

	confidence := 0.0
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}

	return newClassification(raw.EmailType, confidence, raw.Reason, c.modelVersion), nil
}

// Summarize produces a short neutral summary, skipping trivially short bodies.
func (c *OpenAIClient) Summarize(ctx context.Context, body string) Summary {
	if len(strings.TrimSpace(body)) < minSummarizeLength {
		return Summary{Summary: nil, ModelVersion: c.modelVersion, Reason: "Email body too short to summarize"}
	}

	result, err := c.summarize(ctx, body)
	if err != nil {
		log.Warn().Err(err).Msg("summarization failed, using fallback")
		return Summary{Summary: nil, ModelVersion: FallbackModelVersion, Reason: "summarization failed: " + err.Error()}
	}
	return result
}

func (c *OpenAIClient) summarize(ctx context.Context, body string) (Summary, error) {
	content, err := c.complete(ctx, summarizeSystemPrompt, summarizePrompt(body), 80)
	if err != nil {
		return Summary{}, err
	}

	var raw struct {
		Summary *string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return Summary{}, fmt.Errorf("malformed summary response: %w", err)
	}
	if raw.Summary == nil || *raw.Summary == "" {
		return Summary{}, errors.New("no summary returned by model")
	}

	return Summary{Summary: raw.Summary, ModelVersion: c.modelVersion, Reason: "success"}, nil
}

// GenerateDigest aggregates classified summaries into a short analytical
// digest. Empty input never reaches the model.
func (c *OpenAIClient) GenerateDigest(ctx context.Context, entries []DigestEntry) Digest {
	if len(entries) == 0 {
		return Digest{Digest: "No emails found for this time period.", ModelVersion: c.modelVersion}
	}

	result, err := c.generateDigest(ctx, entries)
	if err != nil {
		log.Warn().Err(err).Msg("digest generation failed, using fallback")
		return Digest{Digest: "AI digest generation failed. Please retry later.", ModelVersion: FallbackModelVersion}
	}
	return result
}

func (c *OpenAIClient) generateDigest(ctx context.Context, entries []DigestEntry) (Digest, error) {
	content, err := c.complete(ctx, digestSystemPrompt, digestPrompt(entries), 250)
	if err != nil {
		return Digest{}, err
	}

	var raw struct {
		Digest string `json:"digest"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return Digest{}, fmt.Errorf("malformed digest response: %w", err)
	}
	if raw.Digest == "" {
		raw.Digest = "Digest could not be generated."
	}

	return Digest{Digest: raw.Digest, ModelVersion: c.modelVersion}, nil
}

// complete runs one chat completion through the breaker with a bounded
// deadline and returns the first choice's content.
func (c *OpenAIClient) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.breaker.Execute(func() (interface{}, error) {
		return c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.2,
			MaxTokens:   maxTokens,
		})
	})
	if err != nil {
		return "", err
	}

	completion := resp.(openai.ChatCompletionResponse)
	if len(completion.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// stripCodeFence removes a surrounding markdown code fence some models wrap
// around JSON output despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
