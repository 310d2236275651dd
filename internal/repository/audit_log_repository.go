package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// AuditLogRepository 审计日志存储
type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*model.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志存储
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*model.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []*model.AuditLog
	err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
