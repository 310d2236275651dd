package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/attachment"
	"github.com/Srikar1995/cloudrunway-develop/internal/lookup"
	"github.com/Srikar1995/cloudrunway-develop/internal/metrics"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
	"github.com/Srikar1995/cloudrunway-develop/internal/validation"
)

// resourceTypeTermination 审计日志中的资源类型
const resourceTypeTermination = "termination"

// Notifier 变更通知
type Notifier interface {
	NotifyTerminationChanged(terminationID, action string)
}

// noopNotifier 未接入 WebSocket 时的空实现
type noopNotifier struct{}

func (noopNotifier) NotifyTerminationChanged(string, string) {}

// NoopNotifier 空通知器
func NoopNotifier() Notifier { return noopNotifier{} }

// AttachmentPayload 请求负载中的待上传附件
// Content 在 JSON 线上为 base64 编码
type AttachmentPayload struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Content  []byte `json:"content"`
}

// CreateTerminationRequest 创建终止请求的负载
type CreateTerminationRequest struct {
	OpportunityDisplayID     string              `json:"opportunityId"`
	BusinessScenario         string              `json:"businessScenario"`
	TerminationOrigin        string              `json:"terminationOrigin"`
	RenewalRiskReason        string              `json:"renewalRiskReason"`
	TerminationRequester     model.PartyRef      `json:"terminationRequester"`
	TerminationResponsible   model.PartyRef      `json:"terminationResponsible"`
	TerminationReceiptDate   *model.Date         `json:"terminationReceiptDate"`
	TerminationEffectiveDate *model.Date         `json:"terminationEffectiveDate"`
	CreatedBy                string              `json:"createdBy"`
	Attachments              []AttachmentPayload `json:"attachments"`
}

// UpdateTerminationRequest 更新终止请求的负载
// 附件变更与字段变更同批提交,保存协议保证先上传、再删除、
// 最后一次性落字段
type UpdateTerminationRequest struct {
	Status                   model.TerminationStatus `json:"status"`
	BusinessScenario         string                  `json:"businessScenario"`
	TerminationOrigin        string                  `json:"terminationOrigin"`
	TerminationRequester     model.PartyRef          `json:"terminationRequester"`
	TerminationResponsible   model.PartyRef          `json:"terminationResponsible"`
	TerminationReceiptDate   *model.Date             `json:"terminationReceiptDate"`
	TerminationEffectiveDate *model.Date             `json:"terminationEffectiveDate"`
	RetractionReason         string                  `json:"retractionReason"`
	RetractionReceivedDate   *model.Date             `json:"retractionReceivedDate"`
	PendingAttachments       []AttachmentPayload     `json:"pendingAttachments"`
	DeletedAttachmentIDs     []string                `json:"deletedAttachmentIds"`
}

// RetractTerminationRequest 撤回终止请求的负载
type RetractTerminationRequest struct {
	RetractionReason       string              `json:"retractionReason"`
	RetractionReceivedDate *model.Date         `json:"retractionReceivedDate"`
	PendingAttachments     []AttachmentPayload `json:"pendingAttachments"`
}

// TerminationService 终止请求服务
type TerminationService interface {
	Create(ctx context.Context, req *CreateTerminationRequest) (*model.TerminationRequest, error)
	Get(ctx context.Context, id string) (*model.TerminationRequest, error)
	List(ctx context.Context, filter repository.TerminationFilter) ([]*model.TerminationRequest, int64, error)
	Update(ctx context.Context, id string, req *UpdateTerminationRequest) (*model.TerminationRequest, error)
	Retract(ctx context.Context, id string, req *RetractTerminationRequest) (*model.TerminationRequest, error)
}

type terminationService struct {
	terminations  repository.TerminationRepository
	attachments   AttachmentService
	audit         AuditLogService
	opportunities lookup.OpportunityClient
	notifier      Notifier
	logger        *logrus.Logger
}

// NewTerminationService 创建终止请求服务
func NewTerminationService(
	terminations repository.TerminationRepository,
	attachments AttachmentService,
	audit AuditLogService,
	opportunities lookup.OpportunityClient,
	notifier Notifier,
	logger *logrus.Logger,
) TerminationService {
	if notifier == nil {
		notifier = NoopNotifier()
	}
	return &terminationService{
		terminations:  terminations,
		attachments:   attachments,
		audit:         audit,
		opportunities: opportunities,
		notifier:      notifier,
		logger:        logger,
	}
}

// Create 创建终止请求
// 校验顺序:商机存在、必填字段与日期规则、附件规则,
// 全部通过后才落库并顺序上传附件
func (s *terminationService) Create(ctx context.Context, req *CreateTerminationRequest) (*model.TerminationRequest, error) {
	opp, err := s.opportunities.FindByDisplayID(ctx, req.OpportunityDisplayID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up opportunity %s: %w", req.OpportunityDisplayID, err)
	}
	if opp == nil {
		return nil, ErrOpportunityNotFound
	}

	draft := &model.TerminationDraft{
		Status:                   model.StatusInProcess,
		BusinessScenario:         req.BusinessScenario,
		TerminationOrigin:        req.TerminationOrigin,
		TerminationRequester:     req.TerminationRequester,
		TerminationResponsible:   req.TerminationResponsible,
		TerminationReceiptDate:   req.TerminationReceiptDate,
		TerminationEffectiveDate: req.TerminationEffectiveDate,
		ContractEndDate:          opp.ContractEndDate,
	}
	if errs := validation.Validate(draft); errs.HasErrors() {
		s.recordValidationFailures(errs)
		return nil, NewValidationError(errs)
	}

	pending := toPending(req.Attachments)
	if err := attachment.ValidateCreateAttachments(pending); err != nil {
		return nil, err
	}

	t := &model.TerminationRequest{
		ID:                       uuid.NewString(),
		DisplayID:                newDisplayID(),
		Source:                   model.SourceBTPApp,
		OpportunityID:            opp.ID,
		OpportunityDisplayID:     opp.DisplayID,
		BusinessScenario:         req.BusinessScenario,
		TerminationOrigin:        req.TerminationOrigin,
		TerminationType:          model.TerminationTypeStandard,
		RenewalType:              model.RenewalTypeAuto,
		RenewalRiskReason:        req.RenewalRiskReason,
		Status:                   model.StatusInProcess,
		TerminationRequester:     req.TerminationRequester.BackendID(),
		TerminationResponsible:   req.TerminationResponsible.BackendID(),
		TerminationReceiptDate:   req.TerminationReceiptDate,
		TerminationEffectiveDate: req.TerminationEffectiveDate,
		ContractEndDate:          opp.ContractEndDate,
		CreatedBy:                req.CreatedBy,
	}
	if err := s.terminations.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create termination request: %w", err)
	}

	// 附件顺序上传,第一个失败即中止
	// 已创建的记录保留,由调用方重试补齐剩余附件
	for _, p := range pending {
		if _, err := s.attachments.Upload(ctx, t.ID, p); err != nil {
			return nil, err
		}
	}

	metrics.RecordTerminationAction(model.AuditActionCreate)
	s.audit.Record(ctx, AuditEntry{
		UserID:       req.CreatedBy,
		Action:       model.AuditActionCreate,
		ResourceType: resourceTypeTermination,
		ResourceID:   t.ID,
		Details:      fmt.Sprintf("opportunity=%s attachments=%d", req.OpportunityDisplayID, len(pending)),
	})
	s.notifier.NotifyTerminationChanged(t.ID, model.AuditActionCreate)
	s.logger.WithFields(logrus.Fields{
		"termination_id": t.ID,
		"display_id":     t.DisplayID,
		"opportunity":    req.OpportunityDisplayID,
	}).Info("Termination request created")

	return s.terminations.GetByID(ctx, t.ID)
}

func (s *terminationService) Get(ctx context.Context, id string) (*model.TerminationRequest, error) {
	return s.terminations.GetByID(ctx, id)
}

func (s *terminationService) List(ctx context.Context, filter repository.TerminationFilter) ([]*model.TerminationRequest, int64, error) {
	return s.terminations.List(ctx, filter)
}

// Update 更新终止请求
// 保存协议:校验、附件前置检查全部通过后,按顺序执行
// 上传、删除、字段批量落库,任何一步失败即中止
func (s *terminationService) Update(ctx context.Context, id string, req *UpdateTerminationRequest) (*model.TerminationRequest, error) {
	existing, err := s.terminations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := req.Status
	if newStatus == "" {
		newStatus = existing.Status
	}
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	scenario := req.BusinessScenario
	if scenario == "" {
		scenario = existing.BusinessScenario
	}

	draft := &model.TerminationDraft{
		Status:                   newStatus,
		BusinessScenario:         scenario,
		TerminationOrigin:        req.TerminationOrigin,
		TerminationRequester:     req.TerminationRequester,
		TerminationResponsible:   req.TerminationResponsible,
		TerminationReceiptDate:   req.TerminationReceiptDate,
		TerminationEffectiveDate: req.TerminationEffectiveDate,
		ContractEndDate:          existing.ContractEndDate,
		RetractionReason:         req.RetractionReason,
		RetractionReceivedDate:   req.RetractionReceivedDate,
	}
	if errs := validation.Validate(draft); errs.HasErrors() {
		s.recordValidationFailures(errs)
		return nil, NewValidationError(errs)
	}

	stored, err := s.attachments.ListByTermination(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	rec := attachment.NewReconciler(stored)
	for _, p := range req.PendingAttachments {
		rec.AddPending(p.Filename, p.MimeType, p.Content)
	}
	for _, key := range req.DeletedAttachmentIDs {
		rec.MarkForDeletion(key)
	}

	// 附件前置检查在任何写入发生之前执行
	merged := rec.Merge()
	if err := attachment.RequiresAttachment(existing.Status, newStatus, existing.TerminationEffectiveDate, req.TerminationEffectiveDate, len(merged)); err != nil {
		return nil, err
	}

	for _, p := range rec.PendingUploads() {
		if _, err := s.attachments.Upload(ctx, id, p); err != nil {
			return nil, err
		}
	}
	for _, a := range rec.DeletedExisting() {
		if err := s.attachments.Delete(ctx, id, a.ID); err != nil {
			return nil, fmt.Errorf("failed to delete attachment %s: %w", a.ID, err)
		}
	}

	fields := map[string]interface{}{
		"status":                     newStatus,
		"termination_origin":         req.TerminationOrigin,
		"termination_requester":      req.TerminationRequester.BackendID(),
		"termination_responsible":    req.TerminationResponsible.BackendID(),
		"termination_receipt_date":   req.TerminationReceiptDate,
		"termination_effective_date": req.TerminationEffectiveDate,
	}
	if newStatus == model.StatusRetracted {
		fields["retraction_reason"] = req.RetractionReason
		fields["retraction_received_date"] = req.RetractionReceivedDate
	}
	if err := s.terminations.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update termination request: %w", err)
	}

	action := model.AuditActionUpdate
	if newStatus == model.StatusRetracted && existing.Status != model.StatusRetracted {
		action = model.AuditActionRetract
	}
	metrics.RecordTerminationAction(action)
	s.audit.Record(ctx, AuditEntry{
		Action:       action,
		ResourceType: resourceTypeTermination,
		ResourceID:   id,
		Details:      fmt.Sprintf("uploads=%d deletions=%d", len(rec.PendingUploads()), len(rec.DeletedExisting())),
	})
	s.notifier.NotifyTerminationChanged(id, action)

	return s.terminations.GetByID(ctx, id)
}

// Retract 撤回终止请求
// 等价于带撤回字段的更新,其余字段保持现值
func (s *terminationService) Retract(ctx context.Context, id string, req *RetractTerminationRequest) (*model.TerminationRequest, error) {
	existing, err := s.terminations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := &UpdateTerminationRequest{
		Status:                   model.StatusRetracted,
		BusinessScenario:         existing.BusinessScenario,
		TerminationOrigin:        existing.TerminationOrigin,
		TerminationRequester:     model.PartyRef{Raw: existing.TerminationRequester},
		TerminationResponsible:   model.PartyRef{Raw: existing.TerminationResponsible},
		TerminationReceiptDate:   existing.TerminationReceiptDate,
		TerminationEffectiveDate: existing.TerminationEffectiveDate,
		RetractionReason:         req.RetractionReason,
		RetractionReceivedDate:   req.RetractionReceivedDate,
		PendingAttachments:       req.PendingAttachments,
	}
	return s.Update(ctx, id, update)
}

func (s *terminationService) recordValidationFailures(errs validation.FieldErrorMap) {
	for field := range errs {
		metrics.RecordValidationFailure(field)
	}
}

// newDisplayID 生成展示 ID
// 时间戳之外附加随机后缀,同一毫秒内的并发创建不会撞唯一索引
func newDisplayID() string {
	return fmt.Sprintf("UI5-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func toPending(payloads []AttachmentPayload) []attachment.Pending {
	pending := make([]attachment.Pending, 0, len(payloads))
	for _, p := range payloads {
		pending = append(pending, attachment.Pending{
			Filename: p.Filename,
			MimeType: p.MimeType,
			Content:  p.Content,
		})
	}
	return pending
}
