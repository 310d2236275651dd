package container

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Srikar1995/cloudrunway-develop/internal/config"
	"github.com/Srikar1995/cloudrunway-develop/internal/lookup"
	"github.com/Srikar1995/cloudrunway-develop/internal/repository"
	"github.com/Srikar1995/cloudrunway-develop/internal/service"
	"github.com/Srikar1995/cloudrunway-develop/internal/websocket"
)

// Container 依赖装配
type Container struct {
	DB     *gorm.DB
	Logger *logrus.Logger
	Hub    *websocket.Hub

	TerminationRepo repository.TerminationRepository
	AttachmentRepo  repository.AttachmentRepository
	AuditLogRepo    repository.AuditLogRepository

	DirectoryClient   lookup.DirectoryClient
	OpportunityClient lookup.OpportunityClient
	Resolver          *lookup.Resolver

	TerminationService service.TerminationService
	AttachmentService  service.AttachmentService
	AuditLogService    service.AuditLogService
}

// NewContainer 装配全部依赖
func NewContainer(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Container {
	hub := websocket.NewHub(logger)

	terminationRepo := repository.NewTerminationRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	directoryClient := lookup.NewDirectoryClient(cfg.Directory, logger)
	opportunityClient := lookup.NewOpportunityClient(cfg.Directory, logger)
	resolver := lookup.NewResolver(directoryClient, logger)

	attachmentService := service.NewAttachmentService(attachmentRepo, terminationRepo, logger)
	auditLogService := service.NewAuditLogService(auditLogRepo, logger)
	terminationService := service.NewTerminationService(
		terminationRepo,
		attachmentService,
		auditLogService,
		opportunityClient,
		hub,
		logger,
	)

	return &Container{
		DB:                 db,
		Logger:             logger,
		Hub:                hub,
		TerminationRepo:    terminationRepo,
		AttachmentRepo:     attachmentRepo,
		AuditLogRepo:       auditLogRepo,
		DirectoryClient:    directoryClient,
		OpportunityClient:  opportunityClient,
		Resolver:           resolver,
		TerminationService: terminationService,
		AttachmentService:  attachmentService,
		AuditLogService:    auditLogService,
	}
}
