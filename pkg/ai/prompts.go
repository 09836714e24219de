package ai

import (
	"fmt"
	"strings"
)

const classifySystemPrompt = "You classify emails for a backend."

func classifyPrompt(body string) string {
	return fmt.Sprintf(`You are a strict email classification system for a backend product.

Your task is to classify the email into EXACTLY ONE of the following categories:

1. newsletter
   - Informational or recurring updates
   - Blog posts, product updates, announcements
   - No direct selling or urgency

2. marketing
   - Promotional or sales-driven content
   - Discounts, offers, pricing, upgrades
   - Strong call-to-action (buy, upgrade, limited offer)

3. support
   - User asking for help or reporting an issue
   - Account problems, bugs, errors, requests
   - Conversational or problem-solving tone

Rules:
- Choose ONLY ONE category
- Do NOT invent new categories
- If unsure between newsletter and marketing:
  - choose marketing ONLY if there is a sales or conversion intent
- If the email asks for help or reports a problem, ALWAYS choose support
- Return ONLY valid JSON
- No explanations outside JSON
- Confidence must be a number between 0 and 1

Return JSON in this format:
{
  "email_type": "<newsletter | support | marketing>",
  "confidence": <float>,
  "reason": "<short explanation referencing the rules above>"
}

Email content:
"""%s"""`, body)
}

const summarizeSystemPrompt = "You summarize emails for an inbox UI."

func summarizePrompt(body string) string {
	return fmt.Sprintf(`You are an email summarization system.

Summarize the email in one or two short sentences.
Rules:
- Be neutral and factual
- Do NOT add advice
- Do NOT add urgency
- Do NOT add interpretation
- Do NOT exceed 25 words
- Return ONLY valid JSON

JSON format:
{
  "summary": "<short summary>"
}

Email:
"""%s"""`, body)
}

const digestSystemPrompt = "You generate inbox intelligence digests."

// digestPrompt asks for a small number of aggregate analytical points, never
// a per-email restatement. That instruction is part of the digest contract.
func digestPrompt(entries []DigestEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- [%s] %s", e.Category, e.Text))
	}

	return fmt.Sprintf(`You are an inbox intelligence system.

Based on the following email summaries, extract patterns and trends.

Rules:
- 4 to 6 bullet points
- No email-by-email repetition
- Neutral, analytical tone
- Focus on patterns
- RETURN ONLY JSON

JSON format:
{
  "digest": "<digest text>"
}

Email summaries:
%s`, strings.Join(lines, "\n"))
}
