package controller

import (
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

type MarkReadRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// GetUnread godoc
// @Summary 未读通知
// @Description 按时间倒序
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Notification}
// @Router /api/notifications/unread [get]
func (c *NotificationController) GetUnread(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	util.Success(ctx, c.NotificationService.FetchUnread(ctx.Request.Context(), sess.Participant))
}

// MarkRead godoc
// @Summary 标记已读
// @Description 逐条处理，部分失败不影响其他
// @Tags 通知
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body MarkReadRequest true "通知ID"
// @Success 200 {object} util.Response
// @Router /api/notifications/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	var req MarkReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	marked := c.NotificationService.MarkRead(ctx.Request.Context(), sess.Participant, req.IDs)
	util.Success(ctx, gin.H{"marked": marked})
}
