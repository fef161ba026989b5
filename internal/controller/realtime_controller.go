package controller

import (
	"context"
	"encoding/json"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/service"
	"meal_streak_backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RealtimeController streams topic snapshots over websocket.
type RealtimeController struct {
	Hub           *service.RecordHub
	Records       *service.DailyRecordService
	Users         *service.UserService
	Achievements  *service.AchievementService
	Notifications *service.NotificationService
}

func NewRealtimeController(
	hub *service.RecordHub,
	records *service.DailyRecordService,
	users *service.UserService,
	achievements *service.AchievementService,
	notifications *service.NotificationService,
) *RealtimeController {
	return &RealtimeController{
		Hub:           hub,
		Records:       records,
		Users:         users,
		Achievements:  achievements,
		Notifications: notifications,
	}
}

// snapshot loads the current state of topic for the caller, checking that the caller may read it.
func (c *RealtimeController) snapshot(ctx context.Context, sess util.Session, topic string) (*service.Update, error) {
	var (
		payload interface{}
		version int64
	)

	switch {
	case topic == service.TopicAchievements:
		payload = c.Achievements.List(ctx)
		version = time.Now().UnixNano()

	case strings.HasPrefix(topic, "daily:"):
		record, err := c.Records.GetRecord(ctx, sess, strings.TrimPrefix(topic, "daily:"))
		if err != nil {
			return nil, err
		}
		payload, version = record, record.Version

	case strings.HasPrefix(topic, "profile:"):
		p := model.Participant(strings.TrimPrefix(topic, "profile:"))
		if !p.Valid() {
			return nil, util.Invalid("unknown participant %q", p)
		}
		profile, err := c.Users.GetProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		payload, version = profile, profile.Version

	case strings.HasPrefix(topic, "notifications:"):
		p := model.Participant(strings.TrimPrefix(topic, "notifications:"))
		if !p.Valid() {
			return nil, util.Invalid("unknown participant %q", p)
		}
		if p != sess.Participant {
			return nil, util.ErrPermissionDenied
		}
		payload = c.Notifications.FetchUnread(ctx, p)
		version = time.Now().UnixNano()

	default:
		return nil, util.Invalid("unknown topic %q", topic)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &service.Update{Topic: topic, Version: version, Payload: data}, nil
}

// open subscribes before reading the snapshot, so a change committed while the snapshot loads still reaches sub.
func (c *RealtimeController) open(ctx context.Context, sess util.Session, topic string) (*service.Subscription, *service.Update, error) {
	sub := c.Hub.Subscribe(topic)
	initial, err := c.snapshot(ctx, sess, topic)
	if err != nil {
		sub.Close()
		return nil, nil, err
	}
	return sub, initial, nil
}

// Subscribe godoc
// @Summary 订阅实时更新
// @Description topic: daily:<date>, profile:<participant>, achievements, notifications:<participant>。先推送当前快照，之后每次变更推送完整快照
// @Tags 实时
// @Security ApiKeyAuth
// @Param topic query string true "订阅主题"
// @Param token query string false "JWT (浏览器 websocket 无法设置请求头时使用)"
// @Success 101
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/ws [get]
func (c *RealtimeController) Subscribe(ctx *gin.Context) {
	sess, ok := session(ctx)
	if !ok {
		return
	}
	topic := ctx.Query("topic")
	if topic == "" {
		util.BadRequest(ctx, "topic is required")
		return
	}

	sub, initial, err := c.open(ctx.Request.Context(), sess, topic)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	service.ServeWs(ctx.Writer, ctx.Request, sub, topic, initial)
}
