package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// AttachmentRepository 附件存储
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) error
	Get(ctx context.Context, parentID, id string) (*model.Attachment, error)
	ListByParent(ctx context.Context, parentID string) ([]model.Attachment, error)
	UpdateContent(ctx context.Context, parentID, id string, mimeType string, content []byte) error
	Delete(ctx context.Context, parentID, id string) error
	DeleteByParent(ctx context.Context, parentID string) error
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件存储
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attachmentRepository) Get(ctx context.Context, parentID, id string) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.WithContext(ctx).First(&a, "up__id = ? AND id = ?", parentID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByParent 按父记录取全部附件元数据,不含内容
func (r *attachmentRepository) ListByParent(ctx context.Context, parentID string) ([]model.Attachment, error) {
	var list []model.Attachment
	err := r.db.WithContext(ctx).
		Select("up__id", "id", "filename", "mime_type", "note", "size", "created_by", "created_at", "updated_at").
		Where("up__id = ?", parentID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attachmentRepository) UpdateContent(ctx context.Context, parentID, id string, mimeType string, content []byte) error {
	fields := map[string]interface{}{
		"content": content,
		"size":    int64(len(content)),
	}
	if mimeType != "" {
		fields["mime_type"] = mimeType
	}
	result := r.db.WithContext(ctx).Model(&model.Attachment{}).
		Where("up__id = ? AND id = ?", parentID, id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *attachmentRepository) Delete(ctx context.Context, parentID, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Attachment{}, "up__id = ? AND id = ?", parentID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *attachmentRepository) DeleteByParent(ctx context.Context, parentID string) error {
	return r.db.WithContext(ctx).Delete(&model.Attachment{}, "up__id = ?", parentID).Error
}
