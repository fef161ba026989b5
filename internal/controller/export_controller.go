package controller

import (
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService *service.ExportService
}

func NewExportController(exportService *service.ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

type ExportRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Export godoc
// @Summary 导出每日记录
// @Description 生成 XLSX 并上传到配置的存储
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ExportRequest true "日期范围"
// @Success 200 {object} util.Response{data=service.ExportResult}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/admin/export [post]
func (c *ExportController) Export(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	var req ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ExportService.Export(ctx.Request.Context(), sess, req.From, req.To)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
