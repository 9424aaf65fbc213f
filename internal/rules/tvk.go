/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rules

import (
	"fmt"
	"time"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

// MaxDutiesPerWeek flags weeks over the effective weekly limit
// (HTV 10, TVK 8).
type MaxDutiesPerWeek struct{}

func (MaxDutiesPerWeek) ID() string        { return "TVK_15_2" }
func (MaxDutiesPerWeek) Name() string      { return "Max. Dienste pro Woche" }
func (MaxDutiesPerWeek) Paragraph() string { return "§15 Abs. 2 / HTV" }

func (r MaxDutiesPerWeek) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	maxWeekly := contract.MaxWeeklyDuties()
	var violations []models.Violation
	for _, week := range plan.Weeks {
		total := week.TotalDuties()
		if total > maxWeekly {
			violations = append(violations, models.Violation{
				RuleID:        r.ID(),
				RuleName:      r.Name(),
				Severity:      models.SeverityError,
				Message:       fmt.Sprintf("KW %d: %g Dienste (max. %g)", week.WeekNumber, total, maxWeekly),
				Paragraph:     r.Paragraph(),
				AffectedWeek:  week.WeekNumber,
				AffectedDates: dutyDates(week, true),
				CurrentValue:  total,
				LimitValue:    maxWeekly,
				Suggestion:    fmt.Sprintf("%g Dienste in KW %d reduzieren", total-maxWeekly, week.WeekNumber),
			})
		}
	}
	return violations
}

// WeeklyLoadWarning warns when a week is within one duty of the limit.
type WeeklyLoadWarning struct{}

func (WeeklyLoadWarning) ID() string        { return "TVK_15_2_WARN" }
func (WeeklyLoadWarning) Name() string      { return "Dienste-Auslastung pro Woche" }
func (WeeklyLoadWarning) Paragraph() string { return "§15 Abs. 2 / HTV" }

func (r WeeklyLoadWarning) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	maxWeekly := contract.MaxWeeklyDuties()
	var violations []models.Violation
	for _, week := range plan.Weeks {
		total := week.TotalDuties()
		if total >= maxWeekly-1 && total <= maxWeekly {
			violations = append(violations, models.Violation{
				RuleID:       r.ID(),
				RuleName:     r.Name(),
				Severity:     models.SeverityWarning,
				Message:      fmt.Sprintf("KW %d: %g von %g Diensten (am Limit)", week.WeekNumber, total, maxWeekly),
				Paragraph:    r.Paragraph(),
				AffectedWeek: week.WeekNumber,
				CurrentValue: total,
				LimitValue:   maxWeekly,
				Suggestion:   "Puffer einplanen – keine weiteren Dienste möglich",
			})
		}
	}
	return violations
}

// MinFreeDayPerWeek requires at least one duty-free day per calendar week.
type MinFreeDayPerWeek struct{}

func (MinFreeDayPerWeek) ID() string        { return "TVK_16_1" }
func (MinFreeDayPerWeek) Name() string      { return "Min. 1 freier Tag/Woche" }
func (MinFreeDayPerWeek) Paragraph() string { return "§16 Abs. 1" }

func (r MinFreeDayPerWeek) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	var violations []models.Violation
	for _, week := range plan.Weeks {
		if !week.HasFreeDay() {
			violations = append(violations, models.Violation{
				RuleID:        r.ID(),
				RuleName:      r.Name(),
				Severity:      models.SeverityError,
				Message:       fmt.Sprintf("KW %d: Kein dienstfreier Tag", week.WeekNumber),
				Paragraph:     r.Paragraph(),
				AffectedWeek:  week.WeekNumber,
				AffectedDates: dutyDates(week, false),
				CurrentValue:  0,
				LimitValue:    1,
				Suggestion:    "Mindestens einen Dienst aus dieser Woche entfernen",
			})
		}
	}
	return violations
}

// FreeSundaysQuota tracks the season quota of duty-free Sundays. The
// contractual figure is per half season (26 weeks); shorter plans are
// measured against the proportional share.
type FreeSundaysQuota struct{}

func (FreeSundaysQuota) ID() string        { return "TVK_16_5" }
func (FreeSundaysQuota) Name() string      { return "Freie Sonntage pro Spielzeit" }
func (FreeSundaysQuota) Paragraph() string { return "§16 Abs. 5" }

func (r FreeSundaysQuota) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	totalWeeks := len(plan.Weeks)
	if totalWeeks == 0 {
		return nil
	}
	required := contract.TVK.FreeSundaysPerHalfSeason
	freeSundays := float64(plan.FreeSundays())
	expected := required / 26.0 * float64(totalWeeks)
	if freeSundays >= expected*0.7 {
		return nil
	}
	return []models.Violation{{
		RuleID:       r.ID(),
		RuleName:     r.Name(),
		Severity:     models.SeverityWarning,
		Message:      fmt.Sprintf("%g freie Sonntage in %d Wochen (Soll anteilig: ~%.0f)", freeSundays, totalWeeks, expected),
		Paragraph:    r.Paragraph(),
		CurrentValue: freeSundays,
		LimitValue:   expected,
		Suggestion:   "Mehr dienstfreie Sonntage einplanen",
	}}
}

// MaxDutiesPerDay caps the duty value of a single day.
type MaxDutiesPerDay struct{}

func (MaxDutiesPerDay) ID() string        { return "TVK_MAX_DAILY" }
func (MaxDutiesPerDay) Name() string      { return "Max. Dienste pro Tag" }
func (MaxDutiesPerDay) Paragraph() string { return "§15" }

func (r MaxDutiesPerDay) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	maxDaily := contract.TVK.MaxPerDay
	var violations []models.Violation
	for _, d := range plan.AllDuties() {
		if d.Count > maxDaily {
			violations = append(violations, models.Violation{
				RuleID:        r.ID(),
				RuleName:      r.Name(),
				Severity:      models.SeverityError,
				Message:       fmt.Sprintf("%s: %g Dienste (max. %g)", d.Date.Format("02.01."), d.Count, maxDaily),
				Paragraph:     r.Paragraph(),
				AffectedDates: []time.Time{d.Date},
				CurrentValue:  d.Count,
				LimitValue:    maxDaily,
				Suggestion:    "Events auf verschiedene Tage verteilen",
			})
		}
	}
	return violations
}

// dutyDates collects the dates of a week, optionally only those carrying
// duty.
func dutyDates(week models.PlanWeek, onlyWithDuty bool) []time.Time {
	var dates []time.Time
	for _, d := range week.Duties {
		if onlyWithDuty && d.Count <= 0 {
			continue
		}
		dates = append(dates, d.Date)
	}
	return dates
}
