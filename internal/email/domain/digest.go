package domain

import "time"

// EmailDigest is a memoized digest for one time-range key. Entries are
// immutable; the most recently created entry per range is authoritative and
// stale ones are kept (storage economy traded for simplicity).
type EmailDigest struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	RangeKey     string    `json:"range" gorm:"column:range_key;index;not null"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	ModelVersion string    `json:"model_version" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (EmailDigest) TableName() string {
	return "email_digests"
}
