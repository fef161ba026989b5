package repository

import (
	"errors"
	"meal_streak_backend/internal/util"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the store error taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return util.Unavailable(op, err)
}
