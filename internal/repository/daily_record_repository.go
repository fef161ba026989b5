package repository

import (
	"context"
	"meal_streak_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyRecordRepository struct {
	DB *gorm.DB
}

func NewDailyRecordRepository(db *gorm.DB) *DailyRecordRepository {
	return &DailyRecordRepository{DB: db}
}

// WithTx binds the repository to a running transaction.
func (r *DailyRecordRepository) WithTx(tx *gorm.DB) *DailyRecordRepository {
	return &DailyRecordRepository{DB: tx}
}

func (r *DailyRecordRepository) FindByDate(ctx context.Context, date string) (*model.DailyRecord, error) {
	var record model.DailyRecord
	err := r.DB.WithContext(ctx).Where("date = ?", date).First(&record).Error
	if err != nil {
		return nil, translate("find daily record", err)
	}
	return &record, nil
}

// CreateIfAbsent inserts record unless the date already exists; it reports whether a row was written.
func (r *DailyRecordRepository) CreateIfAbsent(ctx context.Context, record *model.DailyRecord) (bool, error) {
	record.Version = 1
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record)
	if result.Error != nil {
		return false, translate("create daily record", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Save overwrites the whole record and bumps its version.
func (r *DailyRecordRepository) Save(ctx context.Context, record *model.DailyRecord) error {
	record.Version++
	if err := r.DB.WithContext(ctx).Save(record).Error; err != nil {
		record.Version--
		return translate("save daily record", err)
	}
	return nil
}

// FindRange returns records with from <= date <= to ordered by date.
func (r *DailyRecordRepository) FindRange(ctx context.Context, from, to string, desc bool) ([]model.DailyRecord, error) {
	var records []model.DailyRecord
	err := r.DB.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: desc}).
		Find(&records).Error
	if err != nil {
		return nil, translate("query daily records", err)
	}
	return records, nil
}
