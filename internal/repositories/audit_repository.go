package repositories

import (
	"gorm.io/gorm"

	"tradematch_backend/internal/models"
)

type AuditFilter struct {
	ActorID      string
	TargetUserID string
	Action       models.AuditAction
	Page         int
	PageSize     int
}

// AuditRepository - журнал только на добавление. Update/Delete нет намеренно.
type AuditRepository interface {
	Create(db *gorm.DB, entry *models.AuditLog) error
	List(db *gorm.DB, filter AuditFilter) ([]models.AuditLog, int64, error)
}

type AuditRepositoryImpl struct{}

func NewAuditRepository() AuditRepository {
	return &AuditRepositoryImpl{}
}

func (r *AuditRepositoryImpl) Create(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}

func (r *AuditRepositoryImpl) List(db *gorm.DB, filter AuditFilter) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	query := db.Model(&models.AuditLog{})
	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.TargetUserID != "" {
		query = query.Where("target_user_id = ?", filter.TargetUserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&entries).Error

	return entries, total, err
}
