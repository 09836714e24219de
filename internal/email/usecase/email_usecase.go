package usecase

import (
	"context"
	"time"

	authrepo "inboxmind-backend/internal/auth/repository"
	emaildomain "inboxmind-backend/internal/email/domain"
	"inboxmind-backend/internal/email/repository"
	"inboxmind-backend/pkg/ai"
	"inboxmind-backend/pkg/config"
)

// emailUsecase implements EmailUsecase
type emailUsecase struct {
	emailRepo  repository.EmailRepository
	digestRepo repository.DigestRepository
	userRepo   authrepo.UserRepository
	aiClient   ai.Client
	gmail      GmailFetcher
	imap       IMAPFetcher
	cfg        *config.Config
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(
	emailRepo repository.EmailRepository,
	digestRepo repository.DigestRepository,
	userRepo authrepo.UserRepository,
	aiClient ai.Client,
	gmail GmailFetcher,
	imap IMAPFetcher,
	cfg *config.Config,
) EmailUsecase {
	return &emailUsecase{
		emailRepo:  emailRepo,
		digestRepo: digestRepo,
		userRepo:   userRepo,
		aiClient:   aiClient,
		gmail:      gmail,
		imap:       imap,
		cfg:        cfg,
	}
}

// applyClassification merges a classification result into the record. This is
// the single place the AI-owned fields and flags are written, so the
// needs-review rule cannot drift between ingestion and reclassification.
// Confidence arrives already clamped to [0,1] by the ai package.
func (u *emailUsecase) applyClassification(email *emaildomain.Email, result ai.Classification) {
	email.EmailType = result.EmailType
	email.AIEmailType = result.EmailType
	email.ConfidenceScore = result.Confidence
	email.AIReason = result.Reason
	email.ModelVersion = result.ModelVersion
	email.IsAIGenerated = true
	email.NeedsReview = result.Confidence < u.cfg.HighThreshold
}

func (u *emailUsecase) Create(ctx context.Context, userID, sender, body string) (*emaildomain.Email, error) {
	result := u.aiClient.Classify(ctx, body)

	email := &emaildomain.Email{
		UserID:     userID,
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now(),
		IsActive:   true,
	}
	u.applyClassification(email, result)

	if err := u.emailRepo.Create(email); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return email, nil
}

func (u *emailUsecase) Ingest(ctx context.Context, userID string, msg emaildomain.IncomingMessage) (bool, error) {
	if msg.MessageID == "" {
		return false, nil
	}

	exists, err := u.emailRepo.ExistsByMessageID(userID, msg.MessageID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	result := u.aiClient.Classify(ctx, msg.Body)

	receivedAt := msg.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	messageID := msg.MessageID
	email := &emaildomain.Email{
		UserID:         userID,
		GmailMessageID: &messageID,
		Sender:         msg.Sender,
		Body:           msg.Body,
		ReceivedAt:     receivedAt,
		IsActive:       true,
	}
	u.applyClassification(email, result)

	if err := u.emailRepo.Create(email); err != nil {
		// Duplicates during automated ingestion are expected and benign:
		// a concurrent sync lost the race to the unique constraint.
		if repository.IsDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (u *emailUsecase) List(userID string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.emailRepo.ListActive(userID, limit, offset)
}

func (u *emailUsecase) OverrideType(userID, id, newType string) (*emaildomain.Email, error) {
	if !ai.AllowedTypes[newType] {
		return nil, ErrInvalidEmailType
	}

	email, err := u.emailRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, ErrNotFound
	}

	// Human decision wins unconditionally and pins the record against any
	// further automatic reclassification.
	email.EmailType = newType
	email.IsAIGenerated = false
	email.NeedsReview = false

	if err := u.emailRepo.Update(email); err != nil {
		return nil, err
	}
	return email, nil
}

func (u *emailUsecase) SoftDelete(userID, id string) error {
	email, err := u.emailRepo.FindByID(userID, id)
	if err != nil {
		return err
	}
	if email == nil {
		return ErrNotFound
	}

	email.IsActive = false
	return u.emailRepo.Update(email)
}
