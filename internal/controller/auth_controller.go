package controller

import (
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// LoginRequest 登录请求
// swagger:model LoginRequest
type LoginRequest struct {
	Participant string `json:"participant" binding:"required,oneof=tracker guide"`
	Password    string `json:"password"`
}

// Login godoc
// @Summary 参与者登录
// @Description tracker 无需密码，guide 需要密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), model.Participant(req.Participant), req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetProfile godoc
// @Summary 获取当前参与者档案
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProfile}
// @Failure 401 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	profile, err := c.UserService.GetProfile(ctx.Request.Context(), sess.Participant)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// session loads the caller's session or writes 401.
func session(ctx *gin.Context) (util.Session, bool) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return util.Session{}, false
	}
	return sess, true
}
