package service

import (
	"context"
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users *UserService
	Cfg   *config.Config
}

func NewAuthService(users *UserService, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Cfg:   cfg,
	}
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token   string             `json:"token"`
	Profile *model.UserProfile `json:"profile"`
}

// Login issues a session token. The tracker needs no password; the guide's password is checked against the configured bcrypt hash.
func (s *AuthService) Login(ctx context.Context, participant model.Participant, password string) (*LoginResult, error) {
	if !participant.Valid() {
		return nil, util.ErrInvalidCredentials
	}

	if participant == model.ParticipantGuide {
		hash := s.Cfg.Auth.GuidePasswordHash
		if hash == "" {
			logger.Log.Warn("Guide login rejected: no password hash configured")
			return nil, util.ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return nil, util.ErrInvalidCredentials
		}
	}

	profile, err := s.Users.GetProfile(ctx, participant)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(participant, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Participant logged in", zap.String("participant", string(participant)))
	return &LoginResult{Token: token, Profile: profile}, nil
}
