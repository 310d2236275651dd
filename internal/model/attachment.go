package model

import (
	"errors"
	"time"
)

// MimeTypePDF 创建流程仅接受的附件类型
const MimeTypePDF = "application/pdf"

// Attachment 终止请求附件
// 以 (ParentID, ID) 复合主键存储,内容与元数据同表
type Attachment struct {
	ParentID  string    `gorm:"primaryKey;column:up__id;type:varchar(64)" json:"up__ID"`
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"ID"`
	Filename  string    `gorm:"type:varchar(255);not null" json:"filename"`
	MimeType  string    `gorm:"type:varchar(128)" json:"mimeType"`
	Note      string    `gorm:"type:varchar(255)" json:"note,omitempty"`
	Size      int64     `json:"size"`
	Content   []byte    `json:"-"`
	CreatedBy string    `gorm:"type:varchar(64)" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Attachment) TableName() string {
	return "termination_attachments"
}

// Validate 落库前的完整性检查
func (a *Attachment) Validate() error {
	if a.ParentID == "" {
		return errors.New("attachment parent ID is required")
	}
	if a.ID == "" {
		return errors.New("attachment ID is required")
	}
	if a.Filename == "" {
		return errors.New("attachment filename is required")
	}
	return nil
}

// CompoundKey 父子复合键,删除标记同时登记简单键与复合键
func (a *Attachment) CompoundKey() string {
	return a.ParentID + "_" + a.ID
}
