package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Srikar1995/cloudrunway-develop/internal/database"
)

var startTime = time.Now()

// HealthController 健康检查接口
type HealthController struct {
	db *gorm.DB
}

// NewHealthController 创建健康检查接口
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health 健康检查
// @Summary 健康检查
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK

	if err := database.CheckHealth(ctrl.db); err != nil {
		status = "degraded"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(startTime).String(),
	})
}
