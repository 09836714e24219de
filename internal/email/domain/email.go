package domain

import "time"

// Email is one inbound or manually created message together with its
// classification state.
//
// email_type is the authoritative category. ai_email_type records what the
// classifier last suggested; the two diverge once a human overrides. A record
// is never physically deleted: is_active=false marks removal.
type Email struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index;uniqueIndex:idx_owner_message;not null"`

	// GmailMessageID is set only for externally sourced messages. Nullable so
	// manual records don't collide on the owner/message unique index.
	GmailMessageID *string `json:"gmail_message_id,omitempty" gorm:"uniqueIndex:idx_owner_message"`

	Sender string `json:"sender" gorm:"uniqueIndex:idx_sender_type;not null"`
	Body   string `json:"body" gorm:"type:text"`

	EmailType string `json:"email_type" gorm:"uniqueIndex:idx_sender_type;not null;check:email_type IN ('newsletter','support','marketing')"`

	AIEmailType     string  `json:"ai_email_type"`
	ConfidenceScore float64 `json:"confidence_score"`
	AIReason        string  `json:"ai_reason"`
	AISummary       *string `json:"ai_summary,omitempty" gorm:"type:text"`
	ModelVersion    string  `json:"model_version"`

	IsAIGenerated bool `json:"is_ai_generated" gorm:"not null;default:true"`
	NeedsReview   bool `json:"needs_review" gorm:"not null;default:false"`
	IsActive      bool `json:"is_active" gorm:"not null;default:true"`

	ReceivedAt time.Time `json:"received_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Email) TableName() string {
	return "emails"
}

// IncomingMessage is the already-decoded tuple a message source yields.
type IncomingMessage struct {
	MessageID  string
	Sender     string
	Body       string
	ReceivedAt time.Time
}
