package controller

import (
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 首页数据
// @Description 今天的记录、档案、等级、统计和当前时间节点
// @Tags 首页
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Failure 503 {object} util.Response
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
