package service

import (
	"context"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"meal_streak_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

type NotificationService struct {
	Repo     *repository.NotificationRepository
	Hub      *RecordHub
	Calendar *Calendar
}

func NewNotificationService(repo *repository.NotificationRepository, hub *RecordHub, cal *Calendar) *NotificationService {
	return &NotificationService{Repo: repo, Hub: hub, Calendar: cal}
}

func validNotificationType(t model.NotificationType) bool {
	switch t {
	case model.NotificationMealCompleted, model.NotificationAchievementUnlocked,
		model.NotificationBonusPoints, model.NotificationLevelUp:
		return true
	}
	return false
}

// Enqueue appends a notification for userID. Id, timestamp and read are assigned here.
func (s *NotificationService) Enqueue(ctx context.Context, userID model.Participant, n model.Notification) (*model.Notification, error) {
	if !userID.Valid() {
		return nil, util.Invalid("unknown participant %q", userID)
	}
	if !validNotificationType(n.Type) {
		return nil, util.Invalid("unknown notification type %q", n.Type)
	}

	n.ID = model.GenerateUUID()
	n.UserID = userID
	n.Timestamp = s.Calendar.Now()
	n.Read = false

	if err := s.Repo.Create(ctx, &n); err != nil {
		return nil, err
	}
	monitoring.NotificationCounter.WithLabelValues(string(n.Type)).Inc()
	s.publish(ctx, userID)
	return &n, nil
}

// notify is the fire-and-forget form used after a mutation committed.
func (s *NotificationService) notify(ctx context.Context, userID model.Participant, n model.Notification) {
	if _, err := s.Enqueue(ctx, userID, n); err != nil {
		logger.Log.Warn("Enqueue notification failed",
			zap.String("user", string(userID)),
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
}

// FetchUnread returns unread notifications newest first. Store failures yield an empty list.
func (s *NotificationService) FetchUnread(ctx context.Context, userID model.Participant) []model.Notification {
	notifications, err := s.Repo.FindUnread(ctx, userID)
	if err != nil {
		logger.Log.Error("Fetch unread notifications failed", zap.String("user", string(userID)), zap.Error(err))
		return []model.Notification{}
	}
	return notifications
}

// MarkRead marks each id read. Unknown ids and store failures are logged and skipped.
func (s *NotificationService) MarkRead(ctx context.Context, userID model.Participant, ids []string) int {
	marked := 0
	for _, id := range ids {
		if err := s.Repo.MarkRead(ctx, userID, id); err != nil {
			logger.Log.Warn("Mark notification read failed", zap.String("id", id), zap.Error(err))
			continue
		}
		marked++
	}
	if marked > 0 {
		s.publish(ctx, userID)
	}
	return marked
}

// publish pushes the whole unread list so subscribers replace their view.
func (s *NotificationService) publish(ctx context.Context, userID model.Participant) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(ctx, NotificationTopic(userID), time.Now().UnixNano(), s.FetchUnread(ctx, userID))
}
