package model

import "time"

// 审计动作
const (
	AuditActionCreate           = "create"
	AuditActionUpdate           = "update"
	AuditActionRetract          = "retract"
	AuditActionAttachmentUpload = "attachment_upload"
	AuditActionAttachmentDelete = "attachment_delete"
)

// AuditLog 审计日志
type AuditLog struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID       string    `gorm:"type:varchar(64);index" json:"userId"`
	Action       string    `gorm:"type:varchar(32);not null" json:"action"`
	ResourceType string    `gorm:"type:varchar(32);not null" json:"resourceType"`
	ResourceID   string    `gorm:"type:varchar(64);index" json:"resourceId"`
	RequestID    string    `gorm:"type:varchar(64)" json:"requestId"`
	Details      string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
