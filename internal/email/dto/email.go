package dto

import (
	emaildomain "inboxmind-backend/internal/email/domain"
	"inboxmind-backend/internal/email/repository"
)

type CreateEmailRequest struct {
	Sender string `json:"sender" binding:"required,email"`
	Body   string `json:"body"`
}

type CreateEmailResponse struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	EmailType string `json:"email_type"`
	CreatedAt string `json:"created_at"`
}

type UpdateEmailTypeRequest struct {
	EmailType string `json:"email_type" binding:"required"`
}

type EmailsResponse struct {
	Emails []*emaildomain.Email `json:"emails"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Total  int64                `json:"total"`
}

type AnalyticsResponse struct {
	Total       int64                           `json:"total"`
	ByType      map[string]int64                `json:"by_type"`
	NeedsReview int64                           `json:"needs_review"`
	Confidence  *repository.ConfidenceHistogram `json:"confidence"`
}

type DigestResponse struct {
	Range        string `json:"range"`
	EmailCount   int    `json:"email_count"`
	Digest       string `json:"digest"`
	ModelVersion string `json:"model_version"`
	Cached       bool   `json:"cached"`
}

type BatchResponse struct {
	Processed int `json:"processed"`
}

type SyncResponse struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

type IMAPSyncRequest struct {
	Addr     string `json:"addr" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Limit    int    `json:"limit"`
}
