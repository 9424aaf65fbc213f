/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rules

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

var testMonday = models.Day(2026, time.August, 17) // first balancing-period Monday

// dutiesFrom builds one duty per day starting at start, with the given duty
// values. Zero values become free days.
func dutiesFrom(start time.Time, counts ...float64) []models.Duty {
	var duties []models.Duty
	for i, c := range counts {
		duties = append(duties, models.Duty{
			Date:   start.AddDate(0, 0, i),
			Count:  c,
			IsFree: c == 0,
		})
	}
	return duties
}

func planFrom(duties []models.Duty) *models.Plan {
	start := duties[0].Date
	end := duties[len(duties)-1].Date
	return models.NewPlan("Test", duties, start, end)
}

func htvContract() *config.Contract {
	return config.DefaultContract()
}

func TestMaxDutiesPerWeekBoundary(t *testing.T) {
	// Exactly at the limit: no error.
	plan := planFrom(dutiesFrom(testMonday, 2, 2, 2, 2, 2, 0, 0))
	if got := (MaxDutiesPerWeek{}).Evaluate(plan, htvContract()); len(got) != 0 {
		t.Fatalf("10 duties at the HTV limit flagged: %+v", got)
	}

	// Half a duty over: one error.
	plan = planFrom(dutiesFrom(testMonday, 2, 2, 2, 2, 2, 0.5, 0))
	got := (MaxDutiesPerWeek{}).Evaluate(plan, htvContract())
	if len(got) != 1 {
		t.Fatalf("got %d violations, want 1", len(got))
	}
	if got[0].Severity != models.SeverityError {
		t.Fatalf("severity = %s, want error", got[0].Severity)
	}
	if got[0].CurrentValue != 10.5 || got[0].LimitValue != 10 {
		t.Fatalf("values = %g/%g, want 10.5/10", got[0].CurrentValue, got[0].LimitValue)
	}
}

func TestWeeklyLoadWarningWindow(t *testing.T) {
	tests := []struct {
		name  string
		total []float64
		want  int
	}{
		{"below window", []float64{2, 2, 2, 2, 0, 0, 0}, 0},
		{"at limit minus one", []float64{2, 2, 2, 2, 1, 0, 0}, 1},
		{"at limit", []float64{2, 2, 2, 2, 2, 0, 0}, 1},
		{"over limit handled by the error rule", []float64{2, 2, 2, 2, 2, 1, 0}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := planFrom(dutiesFrom(testMonday, tc.total...))
			got := (WeeklyLoadWarning{}).Evaluate(plan, htvContract())
			if len(got) != tc.want {
				t.Fatalf("got %d warnings, want %d", len(got), tc.want)
			}
		})
	}
}

func TestMinFreeDayPerWeek(t *testing.T) {
	plan := planFrom(dutiesFrom(testMonday, 1, 1, 1, 1, 1, 1, 1))
	got := (MinFreeDayPerWeek{}).Evaluate(plan, htvContract())
	if len(got) != 1 || got[0].Severity != models.SeverityError {
		t.Fatalf("week without free day: got %+v", got)
	}

	plan = planFrom(dutiesFrom(testMonday, 1, 1, 1, 0, 1, 1, 1))
	if got := (MinFreeDayPerWeek{}).Evaluate(plan, htvContract()); len(got) != 0 {
		t.Fatalf("week with free Thursday flagged: %+v", got)
	}
}

func TestFreeSundaysQuota(t *testing.T) {
	// Four weeks, every Sunday occupied: below the proportional share.
	var duties []models.Duty
	for w := 0; w < 4; w++ {
		duties = append(duties, dutiesFrom(testMonday.AddDate(0, 0, w*7), 1, 1, 1, 0, 1, 1, 1)...)
	}
	plan := planFrom(duties)
	got := (FreeSundaysQuota{}).Evaluate(plan, htvContract())
	if len(got) != 1 || got[0].Severity != models.SeverityWarning {
		t.Fatalf("no free Sundays: got %+v", got)
	}

	// One free Sunday in four weeks meets 70% of the share (8/26*4 ≈ 1.23).
	duties[6].Count = 0
	duties[6].IsFree = true
	plan = planFrom(duties)
	if got := (FreeSundaysQuota{}).Evaluate(plan, htvContract()); len(got) != 0 {
		t.Fatalf("one free Sunday flagged: %+v", got)
	}
}

func TestMaxDutiesPerDay(t *testing.T) {
	plan := planFrom(dutiesFrom(testMonday, 2.5, 0, 0, 0, 0, 0, 0))
	got := (MaxDutiesPerDay{}).Evaluate(plan, htvContract())
	if len(got) != 1 || got[0].Severity != models.SeverityError {
		t.Fatalf("2.5 duties on one day: got %+v", got)
	}

	plan = planFrom(dutiesFrom(testMonday, 2, 0, 0, 0, 0, 0, 0))
	if got := (MaxDutiesPerDay{}).Evaluate(plan, htvContract()); len(got) != 0 {
		t.Fatalf("2 duties at the daily limit flagged: %+v", got)
	}
}

func TestDailyRestPeriod(t *testing.T) {
	evening := models.Event{
		Date:      testMonday,
		StartTime: models.ClockPtr(19, 30),
		EndTime:   models.ClockPtr(22, 0),
		Type:      models.DutyConcert,
	}
	morning := models.Event{
		Date:      testMonday.AddDate(0, 0, 1),
		StartTime: models.ClockPtr(8, 0),
		EndTime:   models.ClockPtr(10, 0),
		Type:      models.DutyRehearsal,
	}
	duties := []models.Duty{
		{Date: testMonday, Count: 1, Events: []models.Event{evening}},
		{Date: testMonday.AddDate(0, 0, 1), Count: 1, Events: []models.Event{morning}},
	}
	got := (DailyRestPeriod{}).Evaluate(planFrom(duties), htvContract())
	if len(got) != 1 || got[0].Severity != models.SeverityError {
		t.Fatalf("10h rest: got %+v", got)
	}
	if got[0].CurrentValue != 10 {
		t.Fatalf("rest hours = %g, want 10", got[0].CurrentValue)
	}

	// Starting an hour later satisfies the 11h minimum.
	later := morning
	later.StartTime = models.ClockPtr(9, 0)
	duties[1].Events = []models.Event{later}
	if got := (DailyRestPeriod{}).Evaluate(planFrom(duties), htvContract()); len(got) != 0 {
		t.Fatalf("11h rest flagged: %+v", got)
	}
}

func TestDailyRestPeriodStartOnlyFallback(t *testing.T) {
	// Without an end time the duty is assumed to run two hours.
	evening := models.Event{
		Date:      testMonday,
		StartTime: models.ClockPtr(21, 0),
		Type:      models.DutyConcert,
	}
	morning := models.Event{
		Date:      testMonday.AddDate(0, 0, 1),
		StartTime: models.ClockPtr(9, 0),
		EndTime:   models.ClockPtr(12, 0),
		Type:      models.DutyRehearsal,
	}
	duties := []models.Duty{
		{Date: testMonday, Count: 1, Events: []models.Event{evening}},
		{Date: testMonday.AddDate(0, 0, 1), Count: 1, Events: []models.Event{morning}},
	}
	// Assumed end 23:00, start 09:00 next day: 10h rest.
	got := (DailyRestPeriod{}).Evaluate(planFrom(duties), htvContract())
	if len(got) != 1 {
		t.Fatalf("got %d violations, want 1", len(got))
	}
}

func TestRehearsalTimeWindow(t *testing.T) {
	early := models.Event{
		Date:      testMonday,
		StartTime: models.ClockPtr(9, 0),
		EndTime:   models.ClockPtr(12, 0),
		Type:      models.DutyRehearsal,
	}
	late := models.Event{
		Date:      testMonday.AddDate(0, 0, 1),
		StartTime: models.ClockPtr(19, 30),
		EndTime:   models.ClockPtr(22, 30),
		Type:      models.DutyRehearsal,
	}
	concert := models.Event{
		Date:      testMonday.AddDate(0, 0, 2),
		StartTime: models.ClockPtr(8, 0),
		EndTime:   models.ClockPtr(23, 0),
		Type:      models.DutyConcert, // concerts are exempt
	}
	duties := []models.Duty{
		{Date: testMonday, Count: 1, Events: []models.Event{early}},
		{Date: testMonday.AddDate(0, 0, 1), Count: 1, Events: []models.Event{late}},
		{Date: testMonday.AddDate(0, 0, 2), Count: 1, Events: []models.Event{concert}},
	}
	got := (RehearsalTimeWindow{}).Evaluate(planFrom(duties), htvContract())
	if len(got) != 2 {
		t.Fatalf("got %d warnings, want 2 (early start, late end)", len(got))
	}
	for _, v := range got {
		if v.Severity != models.SeverityWarning {
			t.Fatalf("severity = %s, want warning", v.Severity)
		}
	}
}

func TestSameDayBreak(t *testing.T) {
	first := models.Event{
		Date:      testMonday,
		StartTime: models.ClockPtr(10, 0),
		EndTime:   models.ClockPtr(12, 0),
		Type:      models.DutyRehearsal,
	}
	second := models.Event{
		Date:      testMonday,
		StartTime: models.ClockPtr(13, 0),
		EndTime:   models.ClockPtr(15, 0),
		Type:      models.DutyRehearsal,
	}
	duties := []models.Duty{{Date: testMonday, Count: 2, Events: []models.Event{first, second}}}
	got := (SameDayBreak{}).Evaluate(planFrom(duties), htvContract())
	if len(got) != 1 || got[0].CurrentValue != 60 {
		t.Fatalf("60 min break: got %+v", got)
	}

	// 90 minutes meets the minimum.
	second.StartTime = models.ClockPtr(13, 30)
	duties[0].Events = []models.Event{first, second}
	if got := (SameDayBreak{}).Evaluate(planFrom(duties), htvContract()); len(got) != 0 {
		t.Fatalf("90 min break flagged: %+v", got)
	}
}

func TestHolidayDutyMarker(t *testing.T) {
	sunday := testMonday.AddDate(0, 0, 6)
	duties := []models.Duty{
		{Date: testMonday, Count: 1},
		{Date: sunday, Count: 1},
		{Date: testMonday.AddDate(0, 0, 7), Count: 1, IsHoliday: true, HolidayName: "Reformationstag"},
	}
	got := (HolidayDutyMarker{}).Evaluate(planFrom(duties), htvContract())
	if len(got) != 2 {
		t.Fatalf("got %d infos, want 2 (Sunday and holiday)", len(got))
	}
	for _, v := range got {
		if v.Severity != models.SeverityInfo {
			t.Fatalf("severity = %s, want info", v.Severity)
		}
	}
}

func TestEscalation(t *testing.T) {
	eleven := []float64{2, 2, 2, 2, 2, 1, 0}
	ten := []float64{2, 2, 2, 2, 2, 0, 0}
	nine := []float64{2, 2, 2, 2, 1, 0, 0}

	// 11 duties followed by 10: the follow-up week exceeds the reduced cap.
	var duties []models.Duty
	duties = append(duties, dutiesFrom(testMonday, eleven...)...)
	duties = append(duties, dutiesFrom(testMonday.AddDate(0, 0, 7), ten...)...)
	got := (Escalation{}).Evaluate(planFrom(duties), htvContract())
	if len(got) != 1 || got[0].Severity != models.SeverityError {
		t.Fatalf("11 then 10: got %+v", got)
	}
	if got[0].LimitValue != 9 {
		t.Fatalf("reduced cap = %g, want 9", got[0].LimitValue)
	}

	// 11 then 9 is admissible.
	duties = append(dutiesFrom(testMonday, eleven...), dutiesFrom(testMonday.AddDate(0, 0, 7), nine...)...)
	if got := (Escalation{}).Evaluate(planFrom(duties), htvContract()); len(got) != 0 {
		t.Fatalf("11 then 9 flagged: %+v", got)
	}
}

func TestEscalationInactiveWithoutHTV(t *testing.T) {
	var duties []models.Duty
	duties = append(duties, dutiesFrom(testMonday, 2, 2, 2, 2, 2, 1, 0)...)
	duties = append(duties, dutiesFrom(testMonday.AddDate(0, 0, 7), 2, 2, 2, 2, 2, 0, 0)...)

	contract := htvContract()
	contract.HTV.Active = false
	if got := (Escalation{}).Evaluate(planFrom(duties), contract); got != nil {
		t.Fatalf("escalation must be inert under plain TVK: %+v", got)
	}
}

func balancingPlan(perWeek []float64, weeks int) *models.Plan {
	var duties []models.Duty
	for w := 0; w < weeks; w++ {
		duties = append(duties, dutiesFrom(testMonday.AddDate(0, 0, w*7), perWeek...)...)
	}
	return planFrom(duties)
}

func TestBalancingPeriodAudit(t *testing.T) {
	// 24 weeks of 7 duties: 168 within the 183 cap, one INFO.
	plan := balancingPlan([]float64{1, 1, 1, 1, 1, 1, 1}, 24)
	got := (BalancingPeriodAudit{}).Evaluate(plan, htvContract())
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if got[0].Severity != models.SeverityInfo || got[0].CurrentValue != 168 {
		t.Fatalf("within cap: got %+v", got[0])
	}

	// 24 weeks of 8 duties: 192 over the cap, one ERROR.
	plan = balancingPlan([]float64{2, 1, 1, 1, 1, 1, 1}, 24)
	got = (BalancingPeriodAudit{}).Evaluate(plan, htvContract())
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if got[0].Severity != models.SeverityError || got[0].CurrentValue != 192 {
		t.Fatalf("over cap: got %+v", got[0])
	}
}

func TestBalancingPeriodSpanningBoth(t *testing.T) {
	// 30 weeks reach into the second period: one finding per period.
	plan := balancingPlan([]float64{1, 1, 1, 1, 1, 0, 0}, 30)
	got := (BalancingPeriodAudit{}).Evaluate(plan, htvContract())
	if len(got) != 2 {
		t.Fatalf("got %d findings, want 2", len(got))
	}
}

func TestValidatorOrdersBySeverityThenDate(t *testing.T) {
	// A late over-limit day (error) and an early Sunday duty (info): the
	// error must sort first despite its later date.
	duties := []models.Duty{
		{Date: testMonday.AddDate(0, 0, 6), Count: 1},   // Sunday, info
		{Date: testMonday.AddDate(0, 0, 14), Count: 2.5}, // daily max, error
	}
	validator := NewValidator(zerolog.Nop())
	contract := htvContract()
	contract.HTV.Active = false // keep the HTV period findings out

	violations := validator.Validate(planFrom(duties), contract)
	if len(violations) < 2 {
		t.Fatalf("expected at least 2 findings, got %d", len(violations))
	}
	for i := 1; i < len(violations); i++ {
		prev, cur := violations[i-1], violations[i]
		if prev.Severity.Rank() > cur.Severity.Rank() {
			t.Fatalf("severity order broken at %d: %s after %s", i, cur.Severity, prev.Severity)
		}
	}
	if violations[0].Severity != models.SeverityError {
		t.Fatalf("first finding = %s, want error", violations[0].Severity)
	}
}

func TestValidatorSummarize(t *testing.T) {
	validator := NewValidator(zerolog.Nop())
	violations := []models.Violation{
		{Severity: models.SeverityError},
		{Severity: models.SeverityWarning},
		{Severity: models.SeverityWarning},
		{Severity: models.SeverityInfo},
	}
	s := validator.Summarize(violations)
	if s.Total != 4 || s.Errors != 1 || s.Warnings != 2 || s.Infos != 1 {
		t.Fatalf("summary = %+v", s)
	}
}
