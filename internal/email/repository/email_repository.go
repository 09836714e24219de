package repository

import (
	"errors"
	"time"

	emaildomain "inboxmind-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailRepository implements EmailRepository on GORM/Postgres.
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

func (r *emailRepository) Create(email *emaildomain.Email) error {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	now := time.Now()
	email.CreatedAt = now
	email.UpdatedAt = now
	return r.db.Create(email).Error
}

func (r *emailRepository) Update(email *emaildomain.Email) error {
	email.UpdatedAt = time.Now()
	return r.db.Save(email).Error
}

func (r *emailRepository) FindByID(userID, id string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("user_id = ? AND id = ? AND is_active = ?", userID, id, true).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) ListActive(userID string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	query := r.db.Model(&emaildomain.Email{}).Where("user_id = ? AND is_active = ?", userID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emails []*emaildomain.Email
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&emails).Error
	if err != nil {
		return nil, 0, err
	}
	return emails, total, nil
}

func (r *emailRepository) ListActiveSince(cutoff time.Time) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := r.db.Where("is_active = ? AND received_at >= ?", true, cutoff).
		Order("received_at DESC").
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *emailRepository) ListAIGenerated(userID string, limit int) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := r.db.Where("user_id = ? AND is_active = ? AND is_ai_generated = ?", userID, true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *emailRepository) ListUnsummarized(userID string, limit int) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := r.db.Where("user_id = ? AND is_active = ? AND ai_summary IS NULL", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *emailRepository) ExistsByMessageID(userID, messageID string) (bool, error) {
	var count int64
	err := r.db.Model(&emaildomain.Email{}).
		Where("user_id = ? AND gmail_message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailRepository) CountByType(userID string) (map[string]int64, error) {
	type typeCount struct {
		EmailType string
		Count     int64
	}

	var rows []typeCount
	err := r.db.Model(&emaildomain.Email{}).
		Select("email_type, COUNT(*) as count").
		Where("user_id = ? AND is_active = ?", userID, true).
		Group("email_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EmailType] = row.Count
	}
	return counts, nil
}

func (r *emailRepository) CountNeedsReview(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.Email{}).
		Where("user_id = ? AND is_active = ? AND needs_review = ?", userID, true, true).
		Count(&count).Error
	return count, err
}

func (r *emailRepository) ConfidenceHistogram(userID string, high, low float64) (*ConfidenceHistogram, error) {
	histogram := &ConfidenceHistogram{}

	base := func() *gorm.DB {
		return r.db.Model(&emaildomain.Email{}).Where("user_id = ? AND is_active = ?", userID, true)
	}

	if err := base().Where("confidence_score >= ?", high).Count(&histogram.High).Error; err != nil {
		return nil, err
	}
	if err := base().Where("confidence_score >= ? AND confidence_score < ?", low, high).Count(&histogram.Medium).Error; err != nil {
		return nil, err
	}
	if err := base().Where("confidence_score < ?", low).Count(&histogram.Low).Error; err != nil {
		return nil, err
	}
	return histogram, nil
}
