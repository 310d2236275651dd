package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
)

// AuditLogService 审计日志服务
type AuditLogService interface {
	Record(ctx context.Context, entry AuditEntry)
	ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*model.AuditLog, error)
}

// AuditEntry 一次审计记录
type AuditEntry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	Details      string
}

type auditLogService struct {
	repo   repository.AuditLogRepository
	logger *logrus.Logger
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(repo repository.AuditLogRepository, logger *logrus.Logger) AuditLogService {
	return &auditLogService{repo: repo, logger: logger}
}

// Record 写入审计日志
// 审计失败不阻断业务流程,只记录错误日志
func (s *auditLogService) Record(ctx context.Context, entry AuditEntry) {
	log := &model.AuditLog{
		ID:           uuid.NewString(),
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		RequestID:    entry.RequestID,
		Details:      entry.Details,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":      entry.Action,
			"resource_id": entry.ResourceID,
		}).Error("Failed to write audit log")
	}
}

func (s *auditLogService) ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*model.AuditLog, error) {
	return s.repo.ListByResource(ctx, resourceType, resourceID, limit)
}
