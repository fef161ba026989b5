package controller

import (
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// AchievementRequest 新建成就
type AchievementRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Points      int    `json:"points" binding:"min=0"`
	Icon        string `json:"icon"`
}

// GetAchievements godoc
// @Summary 成就列表
// @Tags 成就
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements [get]
func (c *AchievementController) GetAchievements(ctx *gin.Context) {
	util.Success(ctx, c.AchievementService.List(ctx.Request.Context()))
}

// CreateAchievement godoc
// @Summary 新建成就
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AchievementRequest true "成就"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Failure 400 {object} util.Response
// @Router /api/admin/achievements [post]
func (c *AchievementController) CreateAchievement(ctx *gin.Context) {
	var req AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AchievementService.Add(ctx.Request.Context(), model.Achievement{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Icon:        req.Icon,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// UpdateAchievement godoc
// @Summary 修改成就
// @Description completed 只能从 false 变为 true
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成就ID"
// @Param body body model.AchievementUpdate true "修改字段"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Failure 404 {object} util.Response
// @Router /api/admin/achievements/{id} [put]
func (c *AchievementController) UpdateAchievement(ctx *gin.Context) {
	var upd model.AchievementUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AchievementService.Update(ctx.Request.Context(), ctx.Param("id"), upd)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// CompleteAchievement godoc
// @Summary 解锁成就
// @Description 积分作为奖励加到今天的记录，重复调用无效果
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成就ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/achievements/{id}/complete [post]
func (c *AchievementController) CompleteAchievement(ctx *gin.Context) {
	unlocked, err := c.AchievementService.Complete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unlocked": unlocked})
}

// DeleteAchievement godoc
// @Summary 删除成就
// @Description 已发放的积分不会扣回
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成就ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/achievements/{id} [delete]
func (c *AchievementController) DeleteAchievement(ctx *gin.Context) {
	if err := c.AchievementService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
