package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/attachment"
	"github.com/Srikar1995/cloudrunway-develop/internal/metrics"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
)

// AttachmentService 附件服务
type AttachmentService interface {
	Upload(ctx context.Context, terminationID string, pending attachment.Pending) (*model.Attachment, error)
	UploadContent(ctx context.Context, terminationID, id, mimeType string, content []byte) error
	Get(ctx context.Context, terminationID, id string) (*model.Attachment, error)
	ListByTermination(ctx context.Context, terminationID string) ([]model.Attachment, error)
	Delete(ctx context.Context, terminationID, id string) error
}

type attachmentService struct {
	attachments  repository.AttachmentRepository
	terminations repository.TerminationRepository
	logger       *logrus.Logger
}

// NewAttachmentService 创建附件服务
func NewAttachmentService(attachments repository.AttachmentRepository, terminations repository.TerminationRepository, logger *logrus.Logger) AttachmentService {
	return &attachmentService{
		attachments:  attachments,
		terminations: terminations,
		logger:       logger,
	}
}

// Upload 上传附件
// 先写元数据再写内容,两步中任何一步失败都直接返回错误,
// 不做自动清理,调用方据此中止后续上传
func (s *attachmentService) Upload(ctx context.Context, terminationID string, pending attachment.Pending) (*model.Attachment, error) {
	if _, err := s.terminations.GetByID(ctx, terminationID); err != nil {
		return nil, err
	}
	if pending.Filename == "" {
		return nil, fmt.Errorf("attachment filename is required")
	}

	a := &model.Attachment{
		ParentID: terminationID,
		ID:       uuid.NewString(),
		Filename: pending.Filename,
		MimeType: pending.MimeType,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		metrics.RecordAttachmentOperation("upload", false)
		return nil, fmt.Errorf("failed to create attachment %s: %w", pending.Filename, err)
	}

	if len(pending.Content) > 0 {
		if err := s.attachments.UpdateContent(ctx, terminationID, a.ID, pending.MimeType, pending.Content); err != nil {
			metrics.RecordAttachmentOperation("upload", false)
			return nil, fmt.Errorf("failed to upload content for %s: %w", pending.Filename, err)
		}
		a.Size = int64(len(pending.Content))
	}

	metrics.RecordAttachmentOperation("upload", true)
	s.logger.WithFields(logrus.Fields{
		"termination_id": terminationID,
		"attachment_id":  a.ID,
		"filename":       a.Filename,
	}).Info("Attachment uploaded")
	return a, nil
}

// UploadContent 单独写入附件内容,用于二进制直传
func (s *attachmentService) UploadContent(ctx context.Context, terminationID, id, mimeType string, content []byte) error {
	if err := s.attachments.UpdateContent(ctx, terminationID, id, mimeType, content); err != nil {
		metrics.RecordAttachmentOperation("upload_content", false)
		return err
	}
	metrics.RecordAttachmentOperation("upload_content", true)
	return nil
}

func (s *attachmentService) Get(ctx context.Context, terminationID, id string) (*model.Attachment, error) {
	return s.attachments.Get(ctx, terminationID, id)
}

func (s *attachmentService) ListByTermination(ctx context.Context, terminationID string) ([]model.Attachment, error) {
	return s.attachments.ListByParent(ctx, terminationID)
}

func (s *attachmentService) Delete(ctx context.Context, terminationID, id string) error {
	if err := s.attachments.Delete(ctx, terminationID, id); err != nil {
		metrics.RecordAttachmentOperation("delete", false)
		return err
	}
	metrics.RecordAttachmentOperation("delete", true)
	s.logger.WithFields(logrus.Fields{
		"termination_id": terminationID,
		"attachment_id":  id,
	}).Info("Attachment deleted")
	return nil
}
