/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package store persists seasons, extracted events and validation runs.
// The computation core never touches the database; the store only keeps
// its inputs and outputs.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/orchesterbuero/dienstplan/internal/models"
)

// ErrRunNotFound indicates no validation run matched the query.
var ErrRunNotFound = errors.New("validation run not found")

// Season groups the events of one concert season.
type Season struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Season) TableName() string { return "seasons" }

// EventRecord is a persisted Event. Times are stored as "15:04" strings so
// the absence of a time survives round-trips.
type EventRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	SeasonID  string    `gorm:"type:uuid;index:idx_events_season;not null"`
	Date      time.Time `gorm:"index:idx_events_date;not null"`
	StartTime string    `gorm:"type:varchar(5)"`
	EndTime   string    `gorm:"type:varchar(5)"`
	DutyType  string    `gorm:"type:varchar(32);not null"`
	Formation string    `gorm:"type:varchar(64);not null"`
	Program   string    `gorm:"type:text"`
	Venue     string    `gorm:"type:varchar(255)"`
	Conductor string    `gorm:"type:varchar(255)"`
	Clothing  string    `gorm:"type:varchar(255)"`
	Notes     string    `gorm:"type:text"`
	RawText   string    `gorm:"type:text"`
	CreatedAt time.Time
}

func (EventRecord) TableName() string { return "events" }

// ValidationRun records one validation of a season range.
type ValidationRun struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	SeasonID    string    `gorm:"type:uuid;index:idx_runs_season"`
	RangeStart  time.Time `gorm:"not null"`
	RangeEnd    time.Time `gorm:"not null"`
	Mode        string    `gorm:"type:varchar(8);not null"` // "TVK" or "HTV"
	TotalDuties float64   `gorm:"not null"`
	Errors      int       `gorm:"not null"`
	Warnings    int       `gorm:"not null"`
	Infos       int       `gorm:"not null"`
	CreatedAt   time.Time
}

func (ValidationRun) TableName() string { return "validation_runs" }

// ViolationRecord is a persisted rule finding belonging to a run.
type ViolationRecord struct {
	ID            string      `gorm:"type:uuid;primaryKey"`
	RunID         string      `gorm:"type:uuid;index:idx_violations_run;not null"`
	RuleID        string      `gorm:"type:varchar(64);not null"`
	RuleName      string      `gorm:"type:varchar(255);not null"`
	Severity      string      `gorm:"type:varchar(16);not null"`
	Message       string      `gorm:"type:text;not null"`
	Paragraph     string      `gorm:"type:varchar(64)"`
	AffectedWeek  int         `gorm:"not null;default:0"`
	CurrentValue  float64     `gorm:"not null;default:0"`
	LimitValue    float64     `gorm:"not null;default:0"`
	Suggestion    string      `gorm:"type:text"`
	AffectedDates []time.Time `gorm:"serializer:json"`
}

func (ViolationRecord) TableName() string { return "violations" }

// Store wraps the database with domain conversions.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New creates a store.
func New(database *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     database,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// CreateSeason persists a season and returns its ID.
func (s *Store) CreateSeason(name string, start, end time.Time) (string, error) {
	season := Season{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.db.Create(&season).Error; err != nil {
		return "", err
	}
	return season.ID, nil
}

// SaveEvents replaces the stored events of a season.
func (s *Store) SaveEvents(seasonID string, events []models.Event) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season_id = ?", seasonID).Delete(&EventRecord{}).Error; err != nil {
			return err
		}
		for _, e := range events {
			rec := toRecord(seasonID, e)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EventsInRange loads a season's events overlapping [start, end], ordered
// by date.
func (s *Store) EventsInRange(seasonID string, start, end time.Time) ([]models.Event, error) {
	var records []EventRecord
	err := s.db.Where("season_id = ? AND date >= ? AND date <= ?", seasonID, start, end).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, fromRecord(rec))
	}
	return events, nil
}

// SaveRun persists a validation run with its violations.
func (s *Store) SaveRun(seasonID string, plan *models.Plan, mode string, violations []models.Violation) (string, error) {
	summary := models.Summarize(violations)
	run := ValidationRun{
		ID:          uuid.NewString(),
		SeasonID:    seasonID,
		RangeStart:  plan.Start,
		RangeEnd:    plan.End,
		Mode:        mode,
		TotalDuties: plan.TotalDuties(),
		Errors:      summary.Errors,
		Warnings:    summary.Warnings,
		Infos:       summary.Infos,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		for _, v := range violations {
			rec := ViolationRecord{
				ID:            uuid.NewString(),
				RunID:         run.ID,
				RuleID:        v.RuleID,
				RuleName:      v.RuleName,
				Severity:      string(v.Severity),
				Message:       v.Message,
				Paragraph:     v.Paragraph,
				AffectedWeek:  v.AffectedWeek,
				CurrentValue:  v.CurrentValue,
				LimitValue:    v.LimitValue,
				Suggestion:    v.Suggestion,
				AffectedDates: v.AffectedDates,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("run_id", run.ID).Int("violations", summary.Total).Msg("validation run saved")
	return run.ID, nil
}

// LatestRun returns the most recent validation run, or ErrRunNotFound.
func (s *Store) LatestRun() (*ValidationRun, error) {
	var run ValidationRun
	err := s.db.Order("created_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RunViolations loads the findings of a run as domain violations, in
// stored order.
func (s *Store) RunViolations(runID string) ([]models.Violation, error) {
	var records []ViolationRecord
	if err := s.db.Where("run_id = ?", runID).Find(&records).Error; err != nil {
		return nil, err
	}
	violations := make([]models.Violation, 0, len(records))
	for _, rec := range records {
		violations = append(violations, models.Violation{
			RuleID:        rec.RuleID,
			RuleName:      rec.RuleName,
			Severity:      models.Severity(rec.Severity),
			Message:       rec.Message,
			Paragraph:     rec.Paragraph,
			AffectedWeek:  rec.AffectedWeek,
			CurrentValue:  rec.CurrentValue,
			LimitValue:    rec.LimitValue,
			Suggestion:    rec.Suggestion,
			AffectedDates: rec.AffectedDates,
		})
	}
	models.SortViolations(violations)
	return violations, nil
}

func toRecord(seasonID string, e models.Event) EventRecord {
	rec := EventRecord{
		ID:        uuid.NewString(),
		SeasonID:  seasonID,
		Date:      e.Date,
		DutyType:  string(e.Type),
		Formation: string(e.Formation),
		Program:   e.Program,
		Venue:     e.Venue,
		Conductor: e.Conductor,
		Clothing:  e.Clothing,
		Notes:     e.Notes,
		RawText:   e.RawText,
	}
	if e.StartTime != nil {
		rec.StartTime = e.StartTime.Format("15:04")
	}
	if e.EndTime != nil {
		rec.EndTime = e.EndTime.Format("15:04")
	}
	return rec
}

func fromRecord(rec EventRecord) models.Event {
	e := models.Event{
		Date:      rec.Date.UTC().Truncate(24 * time.Hour),
		Type:      models.DutyType(rec.DutyType),
		Formation: models.Formation(rec.Formation),
		Program:   rec.Program,
		Venue:     rec.Venue,
		Conductor: rec.Conductor,
		Clothing:  rec.Clothing,
		Notes:     rec.Notes,
		RawText:   rec.RawText,
	}
	e.StartTime = parseStoredClock(rec.StartTime)
	e.EndTime = parseStoredClock(rec.EndTime)
	return e
}

func parseStoredClock(s string) *time.Time {
	if s == "" {
		return nil
	}
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return nil
	}
	t := models.Clock(parsed.Hour(), parsed.Minute())
	return &t
}
