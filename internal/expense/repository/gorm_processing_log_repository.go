package repository

import (
	"time"

	"expenseflow-backend/internal/expense/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormProcessingLogRepository implements ProcessingLogRepository using GORM
type gormProcessingLogRepository struct {
	db *gorm.DB
}

// NewGormProcessingLogRepository creates a new GORM-based ProcessingLogRepository
func NewGormProcessingLogRepository(db *gorm.DB) ProcessingLogRepository {
	return &gormProcessingLogRepository{db: db}
}

func (r *gormProcessingLogRepository) Create(entry *domain.ProcessingLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

func (r *gormProcessingLogRepository) FindByEmailMessageID(emailMessageID string) ([]*domain.ProcessingLogEntry, error) {
	var entries []*domain.ProcessingLogEntry
	err := r.db.Where("email_message_id = ?", emailMessageID).
		Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *gormProcessingLogRepository) FindByUserID(userID string, limit, offset int) ([]*domain.ProcessingLogEntry, int64, error) {
	var entries []*domain.ProcessingLogEntry
	var total int64

	query := r.db.Model(&domain.ProcessingLogEntry{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}

func (r *gormProcessingLogRepository) HasCompleted(emailMessageID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ProcessingLogEntry{}).
		Where("email_message_id = ? AND status = ?", emailMessageID, domain.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
