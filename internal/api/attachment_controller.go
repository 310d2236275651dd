package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/attachment"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
	"github.com/Srikar1995/cloudrunway-develop/internal/service"
	"github.com/Srikar1995/cloudrunway-develop/internal/utils"
)

// maxAttachmentSize 附件大小上限
const maxAttachmentSize = 20 << 20

// AttachmentController 附件接口
type AttachmentController struct {
	attachments service.AttachmentService
	logger      *logrus.Logger
}

// NewAttachmentController 创建附件接口
func NewAttachmentController(attachments service.AttachmentService, logger *logrus.Logger) *AttachmentController {
	return &AttachmentController{attachments: attachments, logger: logger}
}

func (ctrl *AttachmentController) handleError(c *gin.Context, err error, operation string) {
	if errors.Is(err, repository.ErrNotFound) {
		Error(c, http.StatusNotFound, "attachment not found", "")
		return
	}
	ctrl.logger.WithError(err).WithField("operation", operation).Error("Attachment operation failed")
	Error(c, http.StatusInternalServerError, "operation failed", err.Error())
}

func attachmentKeys(c *gin.Context) (string, string, bool) {
	terminationID := c.Param("id")
	attachmentID := c.Param("attachmentId")
	if utils.ValidateID(terminationID) != nil || utils.ValidateID(attachmentID) != nil {
		Error(c, http.StatusBadRequest, "invalid attachment ID", "")
		return "", "", false
	}
	return terminationID, attachmentID, true
}

// List 查询附件元数据列表
// @Summary 查询附件列表
// @Tags attachments
// @Produce json
// @Param id path string true "termination ID"
// @Success 200 {object} Response
// @Router /terminations/{id}/attachments [get]
func (ctrl *AttachmentController) List(c *gin.Context) {
	id, ok := validateTerminationID(c)
	if !ok {
		return
	}
	list, err := ctrl.attachments.ListByTermination(c.Request.Context(), id)
	if err != nil {
		ctrl.handleError(c, err, "list")
		return
	}
	Success(c, http.StatusOK, list)
}

// Upload 上传附件,元数据与内容同批提交
// @Summary 上传附件
// @Tags attachments
// @Accept json
// @Produce json
// @Param id path string true "termination ID"
// @Success 201 {object} Response
// @Router /terminations/{id}/attachments [post]
func (ctrl *AttachmentController) Upload(c *gin.Context) {
	id, ok := validateTerminationID(c)
	if !ok {
		return
	}
	var payload service.AttachmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if payload.Filename == "" {
		Error(c, http.StatusBadRequest, "filename is required", "")
		return
	}

	created, err := ctrl.attachments.Upload(c.Request.Context(), id, attachment.Pending{
		Filename: payload.Filename,
		MimeType: payload.MimeType,
		Content:  payload.Content,
	})
	if err != nil {
		ctrl.handleError(c, err, "upload")
		return
	}
	Success(c, http.StatusCreated, created)
}

// UploadContent 二进制直传附件内容
// @Summary 上传附件内容
// @Tags attachments
// @Accept application/octet-stream
// @Produce json
// @Param id path string true "termination ID"
// @Param attachmentId path string true "attachment ID"
// @Success 204 "no content"
// @Router /terminations/{id}/attachments/{attachmentId}/content [put]
func (ctrl *AttachmentController) UploadContent(c *gin.Context) {
	terminationID, attachmentID, ok := attachmentKeys(c)
	if !ok {
		return
	}
	content, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAttachmentSize+1))
	if err != nil {
		Error(c, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}
	if len(content) > maxAttachmentSize {
		Error(c, http.StatusRequestEntityTooLarge, "attachment too large", "")
		return
	}

	mimeType := c.ContentType()
	if err := ctrl.attachments.UploadContent(c.Request.Context(), terminationID, attachmentID, mimeType, content); err != nil {
		ctrl.handleError(c, err, "upload_content")
		return
	}
	c.Status(http.StatusNoContent)
}

// Download 下载附件内容
// @Summary 下载附件
// @Tags attachments
// @Produce application/octet-stream
// @Param id path string true "termination ID"
// @Param attachmentId path string true "attachment ID"
// @Success 200 {file} binary
// @Router /terminations/{id}/attachments/{attachmentId}/content [get]
func (ctrl *AttachmentController) Download(c *gin.Context) {
	terminationID, attachmentID, ok := attachmentKeys(c)
	if !ok {
		return
	}
	a, err := ctrl.attachments.Get(c.Request.Context(), terminationID, attachmentID)
	if err != nil {
		ctrl.handleError(c, err, "download")
		return
	}

	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = model.MimeTypePDF
	}
	c.Header("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
	c.Data(http.StatusOK, mimeType, a.Content)
}

// Delete 删除附件
// @Summary 删除附件
// @Tags attachments
// @Produce json
// @Param id path string true "termination ID"
// @Param attachmentId path string true "attachment ID"
// @Success 204 "no content"
// @Router /terminations/{id}/attachments/{attachmentId} [delete]
func (ctrl *AttachmentController) Delete(c *gin.Context) {
	terminationID, attachmentID, ok := attachmentKeys(c)
	if !ok {
		return
	}
	if err := ctrl.attachments.Delete(c.Request.Context(), terminationID, attachmentID); err != nil {
		ctrl.handleError(c, err, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}
