package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/lookup"
)

// LookupController 目录查询接口
type LookupController struct {
	resolver      *lookup.Resolver
	opportunities lookup.OpportunityClient
	logger        *logrus.Logger
}

// NewLookupController 创建目录查询接口
func NewLookupController(resolver *lookup.Resolver, opportunities lookup.OpportunityClient, logger *logrus.Logger) *LookupController {
	return &LookupController{
		resolver:      resolver,
		opportunities: opportunities,
		logger:        logger,
	}
}

// ResolveContactPerson 按 ID 解析联系人
// 无法解析时返回 null,调用方退回展示原始 ID
// @Summary 解析联系人
// @Tags lookup
// @Produce json
// @Param id path string true "contact person ID"
// @Success 200 {object} Response
// @Router /contact-persons/{id} [get]
func (ctrl *LookupController) ResolveContactPerson(c *gin.Context) {
	ref := ctrl.resolver.Resolve(c.Request.Context(), lookup.KindContactPerson, c.Param("id"))
	Success(c, http.StatusOK, ref)
}

// ResolveEmployee 按 ID 解析员工
// @Summary 解析员工
// @Tags lookup
// @Produce json
// @Param id path string true "employee ID"
// @Success 200 {object} Response
// @Router /employees/{id} [get]
func (ctrl *LookupController) ResolveEmployee(c *gin.Context) {
	ref := ctrl.resolver.Resolve(c.Request.Context(), lookup.KindEmployee, c.Param("id"))
	Success(c, http.StatusOK, ref)
}

// SearchContactPersons 搜索联系人
// @Summary 搜索联系人
// @Tags lookup
// @Produce json
// @Param search query string false "name filter"
// @Param accountId query string false "account scope"
// @Success 200 {object} Response
// @Router /contact-persons [get]
func (ctrl *LookupController) SearchContactPersons(c *gin.Context) {
	refs, err := ctrl.resolver.Search(c.Request.Context(), lookup.KindContactPerson, c.Query("search"), c.Query("accountId"))
	if err != nil {
		ctrl.logger.WithError(err).Warn("Contact person search failed")
		Error(c, http.StatusBadGateway, "directory service unavailable", err.Error())
		return
	}
	Success(c, http.StatusOK, refs)
}

// SearchEmployees 搜索员工
// @Summary 搜索员工
// @Tags lookup
// @Produce json
// @Param search query string false "name filter"
// @Success 200 {object} Response
// @Router /employees [get]
func (ctrl *LookupController) SearchEmployees(c *gin.Context) {
	refs, err := ctrl.resolver.Search(c.Request.Context(), lookup.KindEmployee, c.Query("search"), "")
	if err != nil {
		ctrl.logger.WithError(err).Warn("Employee search failed")
		Error(c, http.StatusBadGateway, "directory service unavailable", err.Error())
		return
	}
	Success(c, http.StatusOK, refs)
}

// GetOpportunity 按展示 ID 查询商机
// @Summary 查询商机
// @Tags lookup
// @Produce json
// @Param displayId path string true "opportunity display ID"
// @Success 200 {object} Response
// @Router /opportunities/{displayId} [get]
func (ctrl *LookupController) GetOpportunity(c *gin.Context) {
	opp, err := ctrl.opportunities.FindByDisplayID(c.Request.Context(), c.Param("displayId"))
	if err != nil {
		ctrl.logger.WithError(err).Warn("Opportunity lookup failed")
		Error(c, http.StatusBadGateway, "directory service unavailable", err.Error())
		return
	}
	if opp == nil {
		Error(c, http.StatusNotFound, "opportunity not found", "")
		return
	}
	Success(c, http.StatusOK, opp)
}

// ClearCache 清空目录缓存
// @Summary 清空目录缓存
// @Tags lookup
// @Produce json
// @Success 204 "no content"
// @Router /lookup/cache [delete]
func (ctrl *LookupController) ClearCache(c *gin.Context) {
	ctrl.resolver.ClearCache()
	c.Status(http.StatusNoContent)
}
