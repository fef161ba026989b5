package controller

import (
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	TemplateService *service.TemplateService
}

func NewTemplateController(templateService *service.TemplateService) *TemplateController {
	return &TemplateController{TemplateService: templateService}
}

// TemplateRequest 新建餐食模板
type TemplateRequest struct {
	Name           string `json:"name" binding:"required"`
	ScheduledTime  string `json:"scheduledTime" binding:"required"`
	PointsOnTime   int    `json:"pointsOnTime" binding:"min=0"`
	PointsLate     int    `json:"pointsLate" binding:"min=0"`
	PenaltySkipped int    `json:"penaltySkipped" binding:"min=0"`
	Order          int    `json:"order"`
	Active         *bool  `json:"active"`
}

// GetTemplates godoc
// @Summary 餐食模板列表
// @Tags 模板
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.MealTemplate}
// @Failure 503 {object} util.Response
// @Router /api/templates [get]
func (c *TemplateController) GetTemplates(ctx *gin.Context) {
	templates, err := c.TemplateService.ListTemplates(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, templates)
}

// CreateTemplate godoc
// @Summary 新建餐食模板
// @Description 只影响之后创建的每日记录
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body TemplateRequest true "模板"
// @Success 201 {object} util.Response{data=model.MealTemplate}
// @Failure 400 {object} util.Response
// @Router /api/admin/templates [post]
func (c *TemplateController) CreateTemplate(ctx *gin.Context) {
	var req TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	t, err := c.TemplateService.AddTemplate(ctx.Request.Context(), model.MealTemplate{
		Name:           req.Name,
		ScheduledTime:  req.ScheduledTime,
		PointsOnTime:   req.PointsOnTime,
		PointsLate:     req.PointsLate,
		PenaltySkipped: req.PenaltySkipped,
		Order:          req.Order,
		Active:         active,
		Type:           model.TemplateMeal,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, t)
}

// UpdateTemplate godoc
// @Summary 修改餐食模板
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模板ID"
// @Param body body model.MealTemplateUpdate true "修改字段"
// @Success 200 {object} util.Response{data=model.MealTemplate}
// @Failure 404 {object} util.Response
// @Router /api/admin/templates/{id} [put]
func (c *TemplateController) UpdateTemplate(ctx *gin.Context) {
	var upd model.MealTemplateUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	t, err := c.TemplateService.UpdateTemplate(ctx.Request.Context(), ctx.Param("id"), upd)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, t)
}

// DeleteTemplate godoc
// @Summary 删除餐食模板
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模板ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/templates/{id} [delete]
func (c *TemplateController) DeleteTemplate(ctx *gin.Context) {
	if err := c.TemplateService.DeleteTemplate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetDaySettings godoc
// @Summary 一天开始/结束设置
// @Tags 模板
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.DaySettings}
// @Router /api/settings/day [get]
func (c *TemplateController) GetDaySettings(ctx *gin.Context) {
	util.Success(ctx, c.TemplateService.GetDaySettings(ctx.Request.Context()))
}

// UpdateDaySettings godoc
// @Summary 修改一天开始/结束设置
// @Description 已创建的每日记录保持不变
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.DaySettings true "设置"
// @Success 200 {object} util.Response{data=model.DaySettings}
// @Failure 400 {object} util.Response
// @Router /api/admin/settings/day [put]
func (c *TemplateController) UpdateDaySettings(ctx *gin.Context) {
	var req model.DaySettings
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	settings, err := c.TemplateService.UpdateDaySettings(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}
