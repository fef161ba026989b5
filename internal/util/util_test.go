package util

import (
	"errors"
	"meal_streak_backend/internal/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:30", 390, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := MinutesOfDay(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDateAndDateKey(t *testing.T) {
	_, err := ParseDate("2024-02-30")
	assert.ErrorIs(t, err, ErrInvalidInput)

	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	at := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-16", DateKey(at, tokyo))
	assert.Equal(t, "2024-03-15", DateKey(at, time.UTC))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(model.ParticipantGuide, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, model.ParticipantGuide, claims.Participant)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(model.ParticipantTracker, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)

	stranger, err := GenerateJWT("stranger", "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(stranger, "secret")
	assert.Error(t, err)
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		code int
	}{
		{Invalid("bad %s", "date"), http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrMealNotFound, http.StatusNotFound},
		{Unavailable("load", errors.New("disk")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
