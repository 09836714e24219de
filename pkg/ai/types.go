package ai

// Allowed email categories. EmailType on every Classification is guaranteed
// to be one of these.
const (
	TypeNewsletter = "newsletter"
	TypeSupport    = "support"
	TypeMarketing  = "marketing"
)

// FallbackModelVersion tags results produced by the local failure path
// instead of a model call.
const FallbackModelVersion = "fallback-v1"

const defaultReason = "no reason provided"

// AllowedTypes is the closed label set for classification.
var AllowedTypes = map[string]bool{
	TypeNewsletter: true,
	TypeSupport:    true,
	TypeMarketing:  true,
}

// Classification is the structured result of classifying an email body.
// Invariants hold by construction: EmailType is always a member of
// AllowedTypes and Confidence is always within [0, 1].
type Classification struct {
	EmailType    string  `json:"email_type"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
	ModelVersion string  `json:"model_version"`
}

// newClassification validates and normalizes raw model output.
func newClassification(emailType string, confidence float64, reason, modelVersion string) Classification {
	if reason == "" {
		reason = defaultReason
	}
	return Classification{
		EmailType:    emailType,
		Confidence:   clampConfidence(confidence),
		Reason:       reason,
		ModelVersion: modelVersion,
	}
}

// fallbackClassification is the deterministic result used whenever the model
// call fails or returns something unusable. Unclassifiable mail defaults to
// "support" so it lands in the category most likely to get human attention.
func fallbackClassification(reason string) Classification {
	return Classification{
		EmailType:    TypeSupport,
		Confidence:   0.0,
		Reason:       reason,
		ModelVersion: FallbackModelVersion,
	}
}

// Summary is the structured result of summarizing an email body.
// Summary is nil when the body was too short or the call failed; Reason
// says which.
type Summary struct {
	Summary      *string `json:"summary"`
	ModelVersion string  `json:"model_version"`
	Reason       string  `json:"reason"`
}

// DigestEntry is one already-classified email contributed to a digest.
type DigestEntry struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Digest is the aggregate analytical digest over a time window.
type Digest struct {
	Digest       string `json:"digest"`
	ModelVersion string `json:"model_version"`
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
