package controller

import (
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DailyController struct {
	RecordService *service.DailyRecordService
}

func NewDailyController(recordService *service.DailyRecordService) *DailyController {
	return &DailyController{RecordService: recordService}
}

// MealStatusRequest 修改餐食状态
type MealStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BonusRequest 奖励积分，可为负数
type BonusRequest struct {
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

// GetToday godoc
// @Summary 获取今天的记录
// @Description 首次访问时根据当前模板创建
// @Tags 每日记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.DailyRecord}
// @Failure 503 {object} util.Response
// @Router /api/daily/today [get]
func (c *DailyController) GetToday(ctx *gin.Context) {
	record, err := c.RecordService.InitializeToday(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// GetRecord godoc
// @Summary 获取指定日期的记录
// @Tags 每日记录
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=model.DailyRecord}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/daily/{date} [get]
func (c *DailyController) GetRecord(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	record, err := c.RecordService.GetRecord(ctx.Request.Context(), sess, ctx.Param("date"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// GetHistory godoc
// @Summary 最近的历史记录
// @Tags 每日记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.DailyRecord}
// @Router /api/daily/history [get]
func (c *DailyController) GetHistory(ctx *gin.Context) {
	util.Success(ctx, c.RecordService.GetHistory(ctx.Request.Context()))
}

// GetMonthly godoc
// @Summary 今年每月的积分与完成餐数
// @Tags 每日记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.MonthlySummary}
// @Router /api/daily/monthly [get]
func (c *DailyController) GetMonthly(ctx *gin.Context) {
	util.Success(ctx, c.RecordService.GetMonthlySummary(ctx.Request.Context()))
}

// UpdateMealStatus godoc
// @Summary 修改餐食状态
// @Description tracker 只能在今天打卡完成，guide 可以设置任意日期的任意状态
// @Tags 每日记录
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "日期 YYYY-MM-DD"
// @Param mealId path string true "餐食ID"
// @Param body body MealStatusRequest true "新状态"
// @Success 200 {object} util.Response{data=model.DailyRecord}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/daily/{date}/meals/{mealId} [patch]
func (c *DailyController) UpdateMealStatus(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	var req MealStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.RecordService.UpdateMealStatus(ctx.Request.Context(), sess, ctx.Param("date"), ctx.Param("mealId"), model.MealStatus(req.Status))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// AddBonus godoc
// @Summary 添加奖励积分
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "日期 YYYY-MM-DD"
// @Param body body BonusRequest true "奖励"
// @Success 200 {object} util.Response{data=model.DailyRecord}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/daily/{date}/bonus [post]
func (c *DailyController) AddBonus(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	var req BonusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.RecordService.AddBonusPoints(ctx.Request.Context(), sess, ctx.Param("date"), req.Points, req.Reason)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// UpdateNote godoc
// @Summary 修改当天寄语
// @Tags 每日记录
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "日期 YYYY-MM-DD"
// @Param body body NoteRequest true "寄语"
// @Success 200 {object} util.Response{data=model.DailyRecord}
// @Failure 403 {object} util.Response
// @Router /api/daily/{date}/note [put]
func (c *DailyController) UpdateNote(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	var req NoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.RecordService.UpdateNote(ctx.Request.Context(), sess, ctx.Param("date"), req.Note)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}
