package util

import (
	"errors"
	"meal_streak_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionKey = "session"

type Claims struct {
	Participant model.Participant `json:"participant"`
	jwt.RegisteredClaims
}

// Session is the explicit caller identity passed to every service action.
type Session struct {
	Participant model.Participant
}

func (s Session) IsGuide() bool {
	return s.Participant == model.ParticipantGuide
}

func GenerateJWT(participant model.Participant, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		Participant: participant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(participant),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.Participant.Valid() {
		return nil, errors.New("unknown participant")
	}
	return claims, nil
}

func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

func GetSessionFromContext(c *gin.Context) (Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
