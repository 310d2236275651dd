package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Srikar1995/cloudrunway-develop/internal/attachment"
	"github.com/Srikar1995/cloudrunway-develop/internal/database"
	"github.com/Srikar1995/cloudrunway-develop/internal/lookup"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
	"github.com/Srikar1995/cloudrunway-develop/internal/validation"
)

type stubOpportunityClient struct {
	opportunity *lookup.Opportunity
	err         error
}

func (s *stubOpportunityClient) FindByDisplayID(ctx context.Context, displayID string) (*lookup.Opportunity, error) {
	return s.opportunity, s.err
}

type fixture struct {
	db              *gorm.DB
	logger          *logrus.Logger
	terminationRepo repository.TerminationRepository
	terminations    TerminationService
	attachments     AttachmentService
	audit           AuditLogService
	opp             *stubOpportunityClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	terminationRepo := repository.NewTerminationRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	attachmentSvc := NewAttachmentService(attachmentRepo, terminationRepo, logger)
	auditSvc := NewAuditLogService(auditRepo, logger)

	contractEnd := model.MustParseDate("2025-12-31")
	opp := &stubOpportunityClient{
		opportunity: &lookup.Opportunity{
			ID:              "opp-uuid",
			DisplayID:       "OPP-123",
			ContractEndDate: &contractEnd,
		},
	}

	return &fixture{
		db:              db,
		logger:          logger,
		terminationRepo: terminationRepo,
		terminations:    NewTerminationService(terminationRepo, attachmentSvc, auditSvc, opp, nil, logger),
		attachments:     attachmentSvc,
		audit:           auditSvc,
		opp:             opp,
	}
}

func pdfPayload(filename string) AttachmentPayload {
	return AttachmentPayload{Filename: filename, MimeType: model.MimeTypePDF, Content: []byte("%PDF-1.4")}
}

func validCreateRequest() *CreateTerminationRequest {
	receipt := model.MustParseDate("2025-01-01")
	effective := model.MustParseDate("2025-06-30")
	return &CreateTerminationRequest{
		OpportunityDisplayID:     "OPP-123",
		BusinessScenario:         "Z01",
		TerminationOrigin:        "Customer",
		TerminationRequester:     model.PartyRef{Entity: &model.EntityReference{ID: "cp-1", FormattedName: "Maria Ericsson"}},
		TerminationResponsible:   model.PartyRef{Entity: &model.EntityReference{ID: "uuid-2", DisplayID: "E-4711"}},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		CreatedBy:                "tester",
		Attachments:              []AttachmentPayload{pdfPayload("notice.pdf")},
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)

	created, err := f.terminations.Create(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, model.StatusInProcess, created.Status)
	assert.Equal(t, "opp-uuid", created.OpportunityID)
	assert.Equal(t, model.SourceBTPApp, created.Source)
	assert.Equal(t, model.TerminationTypeStandard, created.TerminationType)
	assert.Equal(t, model.RenewalTypeAuto, created.RenewalType)
	assert.Contains(t, created.DisplayID, "UI5-")
	require.NotNil(t, created.ContractEndDate)
	assert.Equal(t, "2025-12-31", created.ContractEndDate.String())

	stored, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "notice.pdf", stored[0].Filename)
	assert.Equal(t, int64(8), stored[0].Size)
}

func TestCreate_OpportunityNotFound(t *testing.T) {
	f := newFixture(t)
	f.opp.opportunity = nil

	_, err := f.terminations.Create(context.Background(), validCreateRequest())

	assert.ErrorIs(t, err, ErrOpportunityNotFound)
}

func TestCreate_MissingMandatoryFields(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	req.TerminationOrigin = ""
	req.TerminationReceiptDate = nil

	_, err := f.terminations.Create(context.Background(), req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, validation.FieldTerminationOrigin)
	assert.Contains(t, vErr.Fields, validation.FieldTerminationReceiptDate)
}

func TestCreate_RejectsNonPDFAttachment(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	req.Attachments = []AttachmentPayload{{Filename: "notes.txt", MimeType: "text/plain", Content: []byte("x")}}

	_, err := f.terminations.Create(context.Background(), req)
	assert.ErrorIs(t, err, attachment.ErrNonPDFAttachment)

	req.Attachments = nil
	_, err = f.terminations.Create(context.Background(), req)
	assert.ErrorIs(t, err, attachment.ErrAttachmentRequired)
}

func TestCreate_FutureReceiptDateRejected(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	future := model.Today().AddDays(1)
	req.TerminationReceiptDate = &future
	req.TerminationEffectiveDate = nil

	_, err := f.terminations.Create(context.Background(), req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields[validation.FieldTerminationReceiptDate].ValueStateText, "future")
}

func TestUpdate_FieldBatchPersisted(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	receipt := model.MustParseDate("2025-01-15")
	effective := model.MustParseDate("2025-09-30")
	updated, err := f.terminations.Update(context.Background(), created.ID, &UpdateTerminationRequest{
		Status:                   model.StatusInProcess,
		TerminationOrigin:        "Partner",
		TerminationRequester:     model.PartyRef{Raw: "cp-1"},
		TerminationResponsible:   model.PartyRef{Raw: "E-4711"},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		PendingAttachments:       []AttachmentPayload{pdfPayload("evidence.pdf")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Partner", updated.TerminationOrigin)
	assert.Equal(t, "2025-09-30", updated.TerminationEffectiveDate.String())

	stored, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestUpdate_EffectiveDateChangeRequiresAttachment(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// 删光附件并同时改生效日期,合并视图为空时被拒
	stored, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)

	receipt := model.MustParseDate("2025-01-01")
	effective := model.MustParseDate("2025-09-30")
	_, err = f.terminations.Update(context.Background(), created.ID, &UpdateTerminationRequest{
		Status:                   model.StatusInProcess,
		TerminationOrigin:        "Customer",
		TerminationRequester:     model.PartyRef{Raw: "cp-1"},
		TerminationResponsible:   model.PartyRef{Raw: "E-4711"},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		DeletedAttachmentIDs:     []string{stored[0].ID},
	})

	assert.ErrorIs(t, err, attachment.ErrEffectiveDateAttachmentRequired)

	// 前置检查失败时不得发生任何删除
	after, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestUpdate_DeletionRemovesStoredAttachment(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	stored, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)

	receipt := model.MustParseDate("2025-01-01")
	effective := model.MustParseDate("2025-06-30")
	_, err = f.terminations.Update(context.Background(), created.ID, &UpdateTerminationRequest{
		Status:                   model.StatusInProcess,
		TerminationOrigin:        "Customer",
		TerminationRequester:     model.PartyRef{Raw: "cp-1"},
		TerminationResponsible:   model.PartyRef{Raw: "E-4711"},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		PendingAttachments:       []AttachmentPayload{pdfPayload("replacement.pdf")},
		DeletedAttachmentIDs:     []string{stored[0].ID},
	})
	require.NoError(t, err)

	after, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "replacement.pdf", after[0].Filename)
}

func TestRetract_RequiresReasonAndDate(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = f.terminations.Retract(context.Background(), created.ID, &RetractTerminationRequest{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, validation.FieldRetractionReason)
	assert.Contains(t, vErr.Fields, validation.FieldRetractionReceivedDate)
}

func TestRetract_Success(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	received := model.MustParseDate("2025-02-01")
	retracted, err := f.terminations.Retract(context.Background(), created.ID, &RetractTerminationRequest{
		RetractionReason:       "Customer decided to stay",
		RetractionReceivedDate: &received,
		PendingAttachments:     []AttachmentPayload{pdfPayload("retraction.pdf")},
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusRetracted, retracted.Status)
	assert.Equal(t, "Customer decided to stay", retracted.RetractionReason)
	require.NotNil(t, retracted.RetractionReceivedDate)
	assert.Equal(t, "2025-02-01", retracted.RetractionReceivedDate.String())
}

func TestRetract_WithoutAttachmentsRejectedBeforeWrites(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	stored, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)

	received := model.MustParseDate("2025-02-01")
	receipt := model.MustParseDate("2025-01-01")
	effective := model.MustParseDate("2025-06-30")
	_, err = f.terminations.Update(context.Background(), created.ID, &UpdateTerminationRequest{
		Status:                   model.StatusRetracted,
		TerminationOrigin:        "Customer",
		TerminationRequester:     model.PartyRef{Raw: "cp-1"},
		TerminationResponsible:   model.PartyRef{Raw: "E-4711"},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		RetractionReason:         "Changed mind",
		RetractionReceivedDate:   &received,
		DeletedAttachmentIDs:     []string{stored[0].ID},
	})

	assert.ErrorIs(t, err, attachment.ErrRetractionAttachmentRequired)

	current, err := f.terminations.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProcess, current.Status, "status must not change when the precheck fails")
}

// flakyAttachmentService 在第 failOn 次上传时失败,其余委托真实实现
type flakyAttachmentService struct {
	AttachmentService
	uploads int
	failOn  int
}

func (f *flakyAttachmentService) Upload(ctx context.Context, terminationID string, pending attachment.Pending) (*model.Attachment, error) {
	f.uploads++
	if f.uploads == f.failOn {
		return nil, errors.New("storage unavailable")
	}
	return f.AttachmentService.Upload(ctx, terminationID, pending)
}

func TestUpdate_MidSequenceUploadFailureStopsSave(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	stored, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	flaky := &flakyAttachmentService{AttachmentService: f.attachments, failOn: 2}
	svc := NewTerminationService(f.terminationRepo, flaky, f.audit, f.opp, nil, f.logger)

	receipt := model.MustParseDate("2025-01-01")
	effective := model.MustParseDate("2025-06-30")
	_, err = svc.Update(context.Background(), created.ID, &UpdateTerminationRequest{
		Status:                   model.StatusInProcess,
		TerminationOrigin:        "Partner",
		TerminationRequester:     model.PartyRef{Raw: "cp-1"},
		TerminationResponsible:   model.PartyRef{Raw: "E-4711"},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		PendingAttachments:       []AttachmentPayload{pdfPayload("first.pdf"), pdfPayload("second.pdf"), pdfPayload("third.pdf")},
		DeletedAttachmentIDs:     []string{stored[0].ID},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
	assert.Equal(t, 2, flaky.uploads, "the failing upload must stop all subsequent uploads")

	// 第一个已上传的附件保留,不做补偿回滚
	after, err := f.attachments.ListByTermination(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, after, 2)
	filenames := []string{after[0].Filename, after[1].Filename}
	assert.Contains(t, filenames, "first.pdf")
	assert.Contains(t, filenames, "notice.pdf", "deletions must not run after an upload failure")
	assert.NotContains(t, filenames, "second.pdf")
	assert.NotContains(t, filenames, "third.pdf")

	// 字段批量落库未发生
	current, err := f.terminations.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer", current.TerminationOrigin)
}

func TestCreate_DisplayIDsUnique(t *testing.T) {
	f := newFixture(t)

	first, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	second, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.DisplayID, second.DisplayID)
	assert.Contains(t, first.DisplayID, "UI5-")
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.terminations.Update(context.Background(), "missing", &UpdateTerminationRequest{})

	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestList_FiltersByOpportunity(t *testing.T) {
	f := newFixture(t)
	created, err := f.terminations.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	list, total, err := f.terminations.List(context.Background(), repository.TerminationFilter{OpportunityID: "OPP-123"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	list, total, err = f.terminations.List(context.Background(), repository.TerminationFilter{OpportunityID: "OPP-999"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}
