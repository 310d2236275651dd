package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/config"
	"github.com/Srikar1995/cloudrunway-develop/internal/container"
	"github.com/Srikar1995/cloudrunway-develop/internal/websocket"
)

// SetupRouter 组装路由与中间件
func SetupRouter(cfg *config.Config, c *container.Container, logger *logrus.Logger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		ErrorHandlerMiddleware(logger),
		RequestIDMiddleware(),
		RequestLogMiddleware(logger),
		CORSMiddleware(cfg.CORS),
		SecurityHeadersMiddleware(),
		RateLimitMiddleware(100, 200),
	)

	healthCtrl := NewHealthController(c.DB)
	terminationCtrl := NewTerminationController(c.TerminationService, c.AuditLogService, logger)
	attachmentCtrl := NewAttachmentController(c.AttachmentService, logger)
	lookupCtrl := NewLookupController(c.Resolver, c.OpportunityClient, logger)

	router.GET("/health", healthCtrl.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/terminations", websocket.ServeWS(c.Hub))

	v1 := router.Group("/api/v1")
	{
		terminations := v1.Group("/terminations")
		{
			terminations.POST("", terminationCtrl.Create)
			terminations.GET("", terminationCtrl.List)
			terminations.GET("/:id", terminationCtrl.Get)
			terminations.PUT("/:id", terminationCtrl.Update)
			terminations.POST("/:id/retract", terminationCtrl.Retract)
			terminations.GET("/:id/audit", terminationCtrl.AuditTrail)

			terminations.GET("/:id/attachments", attachmentCtrl.List)
			terminations.POST("/:id/attachments", attachmentCtrl.Upload)
			terminations.GET("/:id/attachments/:attachmentId/content", attachmentCtrl.Download)
			terminations.PUT("/:id/attachments/:attachmentId/content", attachmentCtrl.UploadContent)
			terminations.DELETE("/:id/attachments/:attachmentId", attachmentCtrl.Delete)
		}

		v1.GET("/contact-persons", lookupCtrl.SearchContactPersons)
		v1.GET("/contact-persons/:id", lookupCtrl.ResolveContactPerson)
		v1.GET("/employees", lookupCtrl.SearchEmployees)
		v1.GET("/employees/:id", lookupCtrl.ResolveEmployee)
		v1.GET("/opportunities/:displayId", lookupCtrl.GetOpportunity)
		v1.DELETE("/lookup/cache", lookupCtrl.ClearCache)
	}

	return router
}
