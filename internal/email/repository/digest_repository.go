package repository

import (
	"errors"
	"time"

	emaildomain "inboxmind-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// digestRepository implements DigestRepository on GORM/Postgres.
type digestRepository struct {
	db *gorm.DB
}

// NewDigestRepository creates a new instance of digestRepository
func NewDigestRepository(db *gorm.DB) DigestRepository {
	return &digestRepository{
		db: db,
	}
}

// FindLatestByRange reads with an explicit ordering key so "most recent entry
// wins" is a documented query property, not an accident of insertion order.
func (r *digestRepository) FindLatestByRange(rangeKey string) (*emaildomain.EmailDigest, error) {
	var digest emaildomain.EmailDigest
	err := r.db.Where("range_key = ?", rangeKey).
		Order("created_at DESC").
		First(&digest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &digest, nil
}

func (r *digestRepository) Create(digest *emaildomain.EmailDigest) error {
	if digest.ID == "" {
		digest.ID = uuid.New().String()
	}
	digest.CreatedAt = time.Now()
	return r.db.Create(digest).Error
}
