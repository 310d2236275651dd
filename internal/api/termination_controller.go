package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/attachment"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
	"github.com/Srikar1995/cloudrunway-develop/internal/service"
	"github.com/Srikar1995/cloudrunway-develop/internal/utils"
)

// TerminationController 终止请求接口
type TerminationController struct {
	terminations service.TerminationService
	audit        service.AuditLogService
	logger       *logrus.Logger
}

// NewTerminationController 创建终止请求接口
func NewTerminationController(terminations service.TerminationService, audit service.AuditLogService, logger *logrus.Logger) *TerminationController {
	return &TerminationController{
		terminations: terminations,
		audit:        audit,
		logger:       logger,
	}
}

func validateTerminationID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := utils.ValidateID(id); err != nil {
		Error(c, http.StatusBadRequest, "invalid termination ID", err.Error())
		return "", false
	}
	return id, true
}

// handleServiceError 业务错误到 HTTP 状态码的映射
func (ctrl *TerminationController) handleServiceError(c *gin.Context, err error, operation string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		FieldErrors(c, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, repository.ErrNotFound):
		Error(c, http.StatusNotFound, "termination request not found", "")
	case errors.Is(err, service.ErrOpportunityNotFound):
		Error(c, http.StatusNotFound, "opportunity not found", "")
	case errors.Is(err, service.ErrInvalidStatus):
		Error(c, http.StatusBadRequest, "invalid termination status", "")
	case errors.Is(err, attachment.ErrAttachmentRequired),
		errors.Is(err, attachment.ErrNonPDFAttachment),
		errors.Is(err, attachment.ErrRetractionAttachmentRequired),
		errors.Is(err, attachment.ErrEffectiveDateAttachmentRequired):
		Error(c, http.StatusBadRequest, err.Error(), "")
	default:
		ctrl.logger.WithError(err).WithField("operation", operation).Error("Termination operation failed")
		Error(c, http.StatusInternalServerError, "operation failed", err.Error())
	}
}

// Create 创建终止请求
// @Summary 创建终止请求
// @Tags terminations
// @Accept json
// @Produce json
// @Param request body service.CreateTerminationRequest true "termination request"
// @Success 201 {object} Response
// @Router /terminations [post]
func (ctrl *TerminationController) Create(c *gin.Context) {
	var req service.CreateTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.OpportunityDisplayID == "" {
		Error(c, http.StatusBadRequest, "opportunityId is required", "")
		return
	}

	created, err := ctrl.terminations.Create(c.Request.Context(), &req)
	if err != nil {
		ctrl.handleServiceError(c, err, "create")
		return
	}
	Success(c, http.StatusCreated, created)
}

// Get 查询单个终止请求
// @Summary 查询终止请求
// @Tags terminations
// @Produce json
// @Param id path string true "termination ID"
// @Success 200 {object} Response
// @Router /terminations/{id} [get]
func (ctrl *TerminationController) Get(c *gin.Context) {
	id, ok := validateTerminationID(c)
	if !ok {
		return
	}
	t, err := ctrl.terminations.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.handleServiceError(c, err, "get")
		return
	}
	Success(c, http.StatusOK, t)
}

// List 查询终止请求列表
// @Summary 查询终止请求列表
// @Tags terminations
// @Produce json
// @Param opportunityId query string false "opportunity ID or display ID"
// @Param status query string false "status filter"
// @Success 200 {object} PaginatedResponse
// @Router /terminations [get]
func (ctrl *TerminationController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	status := model.TerminationStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		Error(c, http.StatusBadRequest, "invalid status filter", "")
		return
	}

	filter := repository.TerminationFilter{
		OpportunityID: c.Query("opportunityId"),
		Status:        status,
		Limit:         limit,
		Offset:        offset,
	}
	list, total, err := ctrl.terminations.List(c.Request.Context(), filter)
	if err != nil {
		ctrl.handleServiceError(c, err, "list")
		return
	}
	Paginated(c, http.StatusOK, list, total, limit, offset)
}

// Update 更新终止请求
// @Summary 更新终止请求
// @Tags terminations
// @Accept json
// @Produce json
// @Param id path string true "termination ID"
// @Param request body service.UpdateTerminationRequest true "update payload"
// @Success 200 {object} Response
// @Router /terminations/{id} [put]
func (ctrl *TerminationController) Update(c *gin.Context) {
	id, ok := validateTerminationID(c)
	if !ok {
		return
	}
	var req service.UpdateTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	updated, err := ctrl.terminations.Update(c.Request.Context(), id, &req)
	if err != nil {
		ctrl.handleServiceError(c, err, "update")
		return
	}
	Success(c, http.StatusOK, updated)
}

// Retract 撤回终止请求
// @Summary 撤回终止请求
// @Tags terminations
// @Accept json
// @Produce json
// @Param id path string true "termination ID"
// @Param request body service.RetractTerminationRequest true "retraction payload"
// @Success 200 {object} Response
// @Router /terminations/{id}/retract [post]
func (ctrl *TerminationController) Retract(c *gin.Context) {
	id, ok := validateTerminationID(c)
	if !ok {
		return
	}
	var req service.RetractTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	retracted, err := ctrl.terminations.Retract(c.Request.Context(), id, &req)
	if err != nil {
		ctrl.handleServiceError(c, err, "retract")
		return
	}
	Success(c, http.StatusOK, retracted)
}

// AuditTrail 查询终止请求的审计记录
// @Summary 查询审计记录
// @Tags terminations
// @Produce json
// @Param id path string true "termination ID"
// @Success 200 {object} Response
// @Router /terminations/{id}/audit [get]
func (ctrl *TerminationController) AuditTrail(c *gin.Context) {
	id, ok := validateTerminationID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := ctrl.audit.ListByResource(c.Request.Context(), "termination", id, limit)
	if err != nil {
		ctrl.handleServiceError(c, err, "audit")
		return
	}
	Success(c, http.StatusOK, logs)
}
