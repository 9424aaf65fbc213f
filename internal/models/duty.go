/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"strings"
	"time"
)

// Duty is the computed record for one calendar day: the events that occur on
// it and the contractual duty value they add up to. Count is always 0 when
// IsFree is set.
type Duty struct {
	Date        time.Time `json:"date"`
	Events      []Event   `json:"events,omitempty"`
	Count       float64   `json:"count"`
	IsFree      bool      `json:"is_free"`
	IsHoliday   bool      `json:"is_holiday,omitempty"`
	HolidayName string    `json:"holiday_name,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// primaryTypeOrder ranks duty types for picking the day's headline type.
var primaryTypeOrder = []DutyType{
	DutySubscriptionConcert, DutyConcert, DutyGuestPerformance,
	DutyDressRehearsal, DutyMainRehearsal,
	DutyRehearsal, DutyWarmupRehearsal,
	DutyChildrenConcert, DutyBabyConcert,
	DutyConductingCourse, DutyAcademy,
	DutyPodcast, DutyRecording,
	DutyMeeting, DutyAudition,
	DutyTravel, DutyTravelCompensation,
	DutyFreeDay, DutyVacation,
}

// PrimaryType returns the most significant duty type of the day.
func (d Duty) PrimaryType() DutyType {
	if len(d.Events) == 0 {
		return DutyFreeDay
	}
	for _, p := range primaryTypeOrder {
		for _, e := range d.Events {
			if e.Type == p {
				return p
			}
		}
	}
	return d.Events[0].Type
}

// Summary renders a short one-line description for calendar views.
func (d Duty) Summary() string {
	if d.IsFree {
		for _, e := range d.Events {
			switch e.Type {
			case DutyVacation:
				return "Urlaub"
			case DutyTravelCompensation:
				return "Reisezeitausgleich"
			}
		}
		return "Frei"
	}
	parts := make([]string, 0, len(d.Events))
	for _, e := range d.Events {
		desc := e.Program
		if desc == "" {
			desc = e.RawText
		}
		if desc == "" {
			desc = string(e.Type)
		}
		if e.StartTime != nil {
			ts := e.StartTime.Format("15:04")
			if e.EndTime != nil {
				ts += "-" + e.EndTime.Format("15:04")
			}
			desc += " " + ts
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, " / ")
}

// IsSunday reports whether the duty day is a Sunday.
func (d Duty) IsSunday() bool {
	return d.Date.Weekday() == time.Sunday
}
