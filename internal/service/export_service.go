package service

import (
	"bytes"
	"context"
	"fmt"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	daysSheet  = "Days"
	mealsSheet = "Meals"

	maxExportDays = 366
)

var (
	dayHeaders  = []string{"Date", "Total Points", "Day Begin Points", "Day End Points", "Meals Completed", "Meals", "Punctuality %", "Bonus Points", "Note"}
	mealHeaders = []string{"Date", "Meal", "Scheduled", "Status", "Completed At", "Points"}
)

// ExportResult locates a generated archive.
type ExportResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Days     int    `json:"days"`
}

// ExportService renders daily records into an XLSX archive and uploads it.
type ExportService struct {
	RecordRepo *repository.DailyRecordRepository
	Storage    *StorageService
	Calendar   *Calendar
}

func NewExportService(recordRepo *repository.DailyRecordRepository, storage *StorageService, cal *Calendar) *ExportService {
	return &ExportService{RecordRepo: recordRepo, Storage: storage, Calendar: cal}
}

func (s *ExportService) Export(ctx context.Context, sess util.Session, from, to string) (*ExportResult, error) {
	if !sess.IsGuide() {
		return nil, util.ErrPermissionDenied
	}
	start, err := util.ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := util.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, util.Invalid("export range %s..%s is reversed", from, to)
	}
	if end.Sub(start).Hours()/24 >= maxExportDays {
		return nil, util.Invalid("export range must not exceed %d days", maxExportDays)
	}

	records, err := s.RecordRepo.FindRange(ctx, from, to, false)
	if err != nil {
		return nil, err
	}

	buf, err := BuildWorkbook(records)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("meal-streak-%s-%s-%d.xlsx", from, to, s.Calendar.Now().Unix())
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimeXLSX)
	if err != nil {
		logger.Log.Error("Upload export failed", zap.String("file", filename), zap.Error(err))
		return nil, util.Unavailable("upload export", err)
	}

	logger.Log.Info("Export created", zap.String("file", filename), zap.Int("days", len(records)))
	return &ExportResult{Filename: filename, URL: url, Days: len(records)}, nil
}

// BuildWorkbook writes one row per day on the Days sheet and one row per meal on the Meals sheet.
func BuildWorkbook(records []model.DailyRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Log.Warn("Close workbook failed", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), daysSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(mealsSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, daysSheet, 1, toCells(dayHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, mealsSheet, 1, toCells(mealHeaders)); err != nil {
		return nil, err
	}

	mealRow := 2
	for i := range records {
		r := &records[i]
		completed, bonus := 0, 0
		for _, m := range r.Meals {
			if m.Status.Completed() {
				completed++
			}
		}
		for _, b := range r.BonusPoints {
			bonus += b.Points
		}

		day := []interface{}{
			r.Date, CalculateTotalPoints(r), r.DayBeginPoints, r.DayEndPoints,
			completed, len(r.Meals), CalculatePunctuality(r), bonus, r.NoteOfTheDay,
		}
		if err := writeRow(f, daysSheet, i+2, day); err != nil {
			return nil, err
		}

		for _, m := range r.Meals {
			completedAt := ""
			if m.CompletedAt != nil {
				completedAt = m.CompletedAt.Format(util.TimeFormat)
			}
			meal := []interface{}{r.Date, m.Name, m.ScheduledTime, string(m.Status), completedAt, MealContribution(m)}
			if err := writeRow(f, mealsSheet, mealRow, meal); err != nil {
				return nil, err
			}
			mealRow++
		}
	}

	return f.WriteToBuffer()
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
	}
	return nil
}

func toCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
