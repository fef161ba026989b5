package middleware

import (
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 JWT 并把参与者会话放入上下文
// The token is read from the Authorization header, or from ?token= for websocket upgrades.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetSession(c, util.Session{Participant: claims.Participant})
		c.Next()
	}
}

// RoleMiddleware only lets the listed participants through.
func RoleMiddleware(participants ...model.Participant) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := util.GetSessionFromContext(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, p := range participants {
			if sess.Participant == p {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}
