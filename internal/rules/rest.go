/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

// DailyRestPeriod enforces the statutory rest between the last duty of one
// day and the first duty of the next. A non-positive gap means the time
// data is insufficient and is deliberately not flagged.
type DailyRestPeriod struct{}

func (DailyRestPeriod) ID() string        { return "TVK_ARBZG_5" }
func (DailyRestPeriod) Name() string      { return "Tägliche Ruhezeit (11h)" }
func (DailyRestPeriod) Paragraph() string { return "§5 ArbZG" }

func (r DailyRestPeriod) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	minRest := contract.TVK.DailyRestHours
	duties := plan.AllDuties()
	var violations []models.Violation

	for i := 0; i+1 < len(duties); i++ {
		current, next := duties[i], duties[i+1]
		if current.Count == 0 || next.Count == 0 {
			continue
		}

		lastEnd, okEnd := latestEndTime(current)
		firstStart, okStart := earliestStartTime(next)
		if !okEnd || !okStart {
			continue
		}

		endAt := models.At(current.Date, lastEnd)
		startAt := models.At(next.Date, firstStart)
		restHours := startAt.Sub(endAt).Hours()

		if restHours > 0 && restHours < minRest {
			violations = append(violations, models.Violation{
				RuleID:   r.ID(),
				RuleName: r.Name(),
				Severity: models.SeverityError,
				Message: fmt.Sprintf("%s → %s: Nur %.1fh Ruhezeit (min. %gh)",
					current.Date.Format("02.01."), next.Date.Format("02.01."), restHours, minRest),
				Paragraph:     r.Paragraph(),
				AffectedDates: []time.Time{current.Date, next.Date},
				CurrentValue:  roundTenth(restHours),
				LimitValue:    minRest,
				Suggestion:    "Abendveranstaltung früher beenden oder Morgendienst später beginnen",
			})
		}
	}
	return violations
}

// RehearsalTimeWindow warns about rehearsals outside the permitted window.
type RehearsalTimeWindow struct{}

func (RehearsalTimeWindow) ID() string        { return "TVK_TIMING" }
func (RehearsalTimeWindow) Name() string      { return "Proben-Zeitfenster" }
func (RehearsalTimeWindow) Paragraph() string { return "§12" }

func (r RehearsalTimeWindow) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	earliest, latest := parseClock(contract.TVK.EarliestRehearsalStart, 9, 30), parseClock(contract.TVK.LatestRehearsalEnd, 22, 0)
	var violations []models.Violation

	for _, d := range plan.AllDuties() {
		for _, e := range d.Events {
			if !e.Type.IsRehearsal() && e.Type != models.DutyWarmupRehearsal {
				continue
			}
			if e.StartTime != nil && clockMinutes(*e.StartTime) < clockMinutes(earliest) {
				violations = append(violations, models.Violation{
					RuleID:   r.ID(),
					RuleName: r.Name(),
					Severity: models.SeverityWarning,
					Message: fmt.Sprintf("%s: Probe beginnt %s (frühestens %s)",
						e.Date.Format("02.01."), e.StartTime.Format("15:04"), contract.TVK.EarliestRehearsalStart),
					Paragraph:     r.Paragraph(),
					AffectedDates: []time.Time{e.Date},
					Suggestion:    fmt.Sprintf("Probenbeginn auf frühestens %s Uhr legen", contract.TVK.EarliestRehearsalStart),
				})
			}
			if e.EndTime != nil && clockMinutes(*e.EndTime) > clockMinutes(latest) {
				violations = append(violations, models.Violation{
					RuleID:   r.ID(),
					RuleName: r.Name(),
					Severity: models.SeverityWarning,
					Message: fmt.Sprintf("%s: Probe endet %s (spätestens %s)",
						e.Date.Format("02.01."), e.EndTime.Format("15:04"), contract.TVK.LatestRehearsalEnd),
					Paragraph:     r.Paragraph(),
					AffectedDates: []time.Time{e.Date},
					Suggestion:    fmt.Sprintf("Probenende auf spätestens %s Uhr legen", contract.TVK.LatestRehearsalEnd),
				})
			}
		}
	}
	return violations
}

// SameDayBreak warns when the break between two timed duties on the same
// day falls under the minimum. As with the rest period, a non-positive gap
// is treated as missing data, not as a breach.
type SameDayBreak struct{}

func (SameDayBreak) ID() string        { return "TVK_PAUSE" }
func (SameDayBreak) Name() string      { return "Pause zwischen Diensten" }
func (SameDayBreak) Paragraph() string { return "§13" }

func (r SameDayBreak) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	minBreak := contract.TVK.SameDayBreakMinutes
	var violations []models.Violation

	for _, d := range plan.AllDuties() {
		if len(d.Events) < 2 {
			continue
		}
		var timed []models.Event
		for _, e := range d.Events {
			if e.HasDuration() {
				timed = append(timed, e)
			}
		}
		sort.Slice(timed, func(i, j int) bool {
			return clockMinutes(*timed[i].StartTime) < clockMinutes(*timed[j].StartTime)
		})

		for i := 0; i+1 < len(timed); i++ {
			gap := float64(clockMinutes(*timed[i+1].StartTime) - clockMinutes(*timed[i].EndTime))
			if gap > 0 && gap < minBreak {
				violations = append(violations, models.Violation{
					RuleID:   r.ID(),
					RuleName: r.Name(),
					Severity: models.SeverityWarning,
					Message: fmt.Sprintf("%s: Nur %.0f Min. Pause (min. %g Min.)",
						d.Date.Format("02.01."), gap, minBreak),
					Paragraph:     r.Paragraph(),
					AffectedDates: []time.Time{d.Date},
					CurrentValue:  gap,
					LimitValue:    minBreak,
					Suggestion:    "Mindestens 1,5h Pause zwischen Diensten einplanen",
				})
			}
		}
	}
	return violations
}

// HolidayDutyMarker flags duty on Sundays and public holidays. Purely
// informational: compensation is structural (extra vacation), not a
// per-instance surcharge.
type HolidayDutyMarker struct{}

func (HolidayDutyMarker) ID() string        { return "TVK_FEIERTAG" }
func (HolidayDutyMarker) Name() string      { return "Feiertags-/Sonntagsdienst" }
func (HolidayDutyMarker) Paragraph() string { return "§7" }

func (r HolidayDutyMarker) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	var violations []models.Violation
	for _, d := range plan.AllDuties() {
		if d.Count == 0 {
			continue
		}
		if !d.IsHoliday && !d.IsSunday() {
			continue
		}
		label := "Sonntag"
		if d.IsHoliday {
			label = d.HolidayName
		}
		violations = append(violations, models.Violation{
			RuleID:        r.ID(),
			RuleName:      r.Name(),
			Severity:      models.SeverityInfo,
			Message:       fmt.Sprintf("%s (%s): %g Dienste", d.Date.Format("02.01."), label, d.Count),
			Paragraph:     r.Paragraph(),
			AffectedDates: []time.Time{d.Date},
			CurrentValue:  d.Count,
		})
	}
	return violations
}

// latestEndTime finds the latest effective end of a day: the explicit end
// time, or start plus two hours when only a start is known, capped at
// 23:59.
func latestEndTime(d models.Duty) (time.Time, bool) {
	var latest time.Time
	found := false
	consider := func(t time.Time) {
		if !found || clockMinutes(t) > clockMinutes(latest) {
			latest = t
			found = true
		}
	}
	for _, e := range d.Events {
		switch {
		case e.EndTime != nil:
			consider(*e.EndTime)
		case e.StartTime != nil:
			h, m := e.StartTime.Hour()+2, e.StartTime.Minute()
			if h >= 24 {
				h, m = 23, 59
			}
			consider(models.Clock(h, m))
		}
	}
	return latest, found
}

// earliestStartTime finds the earliest start of a day.
func earliestStartTime(d models.Duty) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, e := range d.Events {
		if e.StartTime == nil {
			continue
		}
		if !found || clockMinutes(*e.StartTime) < clockMinutes(earliest) {
			earliest = *e.StartTime
			found = true
		}
	}
	return earliest, found
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func parseClock(s string, defHour, defMinute int) time.Time {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return models.Clock(defHour, defMinute)
	}
	return models.Clock(h, m)
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
