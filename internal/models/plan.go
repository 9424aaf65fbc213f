/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"sort"
	"time"
)

// Plan is the full duty plan for a period: the ISO weeks covering the range
// plus the violations attached by the last validation run.
type Plan struct {
	OrchestraName string      `json:"orchestra_name"`
	Start         time.Time   `json:"start"`
	End           time.Time   `json:"end"`
	Weeks         []PlanWeek  `json:"weeks"`
	Violations    []Violation `json:"violations,omitempty"`
}

// NewPlan buckets a flat duty list into ISO weeks covering [start, end].
func NewPlan(orchestraName string, duties []Duty, start, end time.Time) *Plan {
	weeks := BuildWeeks(start, end)
	for _, duty := range duties {
		for i := range weeks {
			if weeks[i].Contains(duty.Date) {
				weeks[i].Duties = append(weeks[i].Duties, duty)
				break
			}
		}
	}
	return &Plan{
		OrchestraName: orchestraName,
		Start:         start,
		End:           end,
		Weeks:         weeks,
	}
}

// AllDuties returns every duty record, sorted by date.
func (p *Plan) AllDuties() []Duty {
	var duties []Duty
	for _, w := range p.Weeks {
		duties = append(duties, w.Duties...)
	}
	sort.Slice(duties, func(i, j int) bool {
		return duties[i].Date.Before(duties[j].Date)
	})
	return duties
}

// TotalDuties sums duty values across all weeks.
func (p *Plan) TotalDuties() float64 {
	var total float64
	for _, w := range p.Weeks {
		total += w.TotalDuties()
	}
	return total
}

// AvgDutiesPerWeek returns the mean weekly load.
func (p *Plan) AvgDutiesPerWeek() float64 {
	if len(p.Weeks) == 0 {
		return 0
	}
	return p.TotalDuties() / float64(len(p.Weeks))
}

// FreeSundays counts weeks whose Sunday carries no duty.
func (p *Plan) FreeSundays() int {
	n := 0
	for _, w := range p.Weeks {
		if w.IsSundayFree() {
			n++
		}
	}
	return n
}

// TotalFreeDays counts duty-free days across the plan.
func (p *Plan) TotalFreeDays() int {
	n := 0
	for _, w := range p.Weeks {
		n += w.FreeDaysCount()
	}
	return n
}

// WeeksWithErrors counts weeks exceeding the weekly limit.
func (p *Plan) WeeksWithErrors(maxWeekly float64) int {
	n := 0
	for _, w := range p.Weeks {
		if w.Status(maxWeekly) == WeekStatusError {
			n++
		}
	}
	return n
}

// DutiesByType counts duty days per primary type, skipping free days.
func (p *Plan) DutiesByType() map[DutyType]int {
	counts := make(map[DutyType]int)
	for _, d := range p.AllDuties() {
		if d.Count > 0 {
			counts[d.PrimaryType()]++
		}
	}
	return counts
}
