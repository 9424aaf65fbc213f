/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// WeekStatus is the traffic-light state of a plan week against the weekly
// duty limit.
type WeekStatus string

const (
	WeekStatusOK      WeekStatus = "ok"
	WeekStatusWarning WeekStatus = "warning"
	WeekStatusError   WeekStatus = "error"
)

// PlanWeek is one Monday-to-Sunday calendar week of the plan. A week may
// extend past the nominal plan boundary; duties are assigned by date-range
// containment.
type PlanWeek struct {
	WeekNumber int       `json:"week_number"`
	Year       int       `json:"year"`
	StartDate  time.Time `json:"start_date"` // Monday
	EndDate    time.Time `json:"end_date"`   // Sunday
	Duties     []Duty    `json:"duties"`
}

// TotalDuties sums the duty values of the week.
func (w PlanWeek) TotalDuties() float64 {
	var total float64
	for _, d := range w.Duties {
		total += d.Count
	}
	return total
}

// FreeDaysCount counts days carrying no duty value.
func (w PlanWeek) FreeDaysCount() int {
	n := 0
	for _, d := range w.Duties {
		if d.IsFree || d.Count == 0 {
			n++
		}
	}
	return n
}

// HasFreeDay reports whether at least one calendar day of the week carries
// no duty. Days without any Duty record count as free.
func (w PlanWeek) HasFreeDay() bool {
	occupied := make(map[time.Time]bool, len(w.Duties))
	for _, d := range w.Duties {
		if d.Count > 0 {
			occupied[d.Date] = true
		}
	}
	for i := 0; i < 7; i++ {
		if !occupied[w.StartDate.AddDate(0, 0, i)] {
			return true
		}
	}
	return false
}

// IsSundayFree reports whether the week's Sunday carries no duty.
func (w PlanWeek) IsSundayFree() bool {
	for _, d := range w.Duties {
		if d.Date.Equal(w.EndDate) && d.Count > 0 {
			return false
		}
	}
	return true
}

// Status returns the traffic-light state against maxWeekly.
func (w PlanWeek) Status(maxWeekly float64) WeekStatus {
	total := w.TotalDuties()
	switch {
	case total > maxWeekly:
		return WeekStatusError
	case total >= maxWeekly-1:
		return WeekStatusWarning
	}
	return WeekStatusOK
}

// DutyForDate returns the duty record for a date, or nil.
func (w PlanWeek) DutyForDate(date time.Time) *Duty {
	for i := range w.Duties {
		if w.Duties[i].Date.Equal(date) {
			return &w.Duties[i]
		}
	}
	return nil
}

// Contains reports whether the date falls within the week.
func (w PlanWeek) Contains(date time.Time) bool {
	return !date.Before(w.StartDate) && !date.After(w.EndDate)
}

// BuildWeeks creates empty ISO weeks covering [start, end], anchored to the
// Monday on or before start.
func BuildWeeks(start, end time.Time) []PlanWeek {
	var weeks []PlanWeek
	offset := (int(start.Weekday()) + 6) % 7 // days since Monday
	monday := start.AddDate(0, 0, -offset)
	for !monday.After(end) {
		year, week := monday.ISOWeek()
		weeks = append(weeks, PlanWeek{
			WeekNumber: week,
			Year:       year,
			StartDate:  monday,
			EndDate:    monday.AddDate(0, 0, 6),
		})
		monday = monday.AddDate(0, 0, 7)
	}
	return weeks
}
