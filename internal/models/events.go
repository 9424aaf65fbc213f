/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"time"
)

// DutyType classifies a scheduled activity. The string values match the
// labels used in the orchestra's season plan.
type DutyType string

const (
	DutyRehearsal           DutyType = "Probe"
	DutyDressRehearsal      DutyType = "GP"
	DutyMainRehearsal       DutyType = "HP"
	DutyWarmupRehearsal     DutyType = "Anspielprobe"
	DutyConcert             DutyType = "Konzert"
	DutySubscriptionConcert DutyType = "Abo-Konzert"
	DutyChildrenConcert     DutyType = "SK"
	DutyBabyConcert         DutyType = "Babykonzert"
	DutyConductingCourse    DutyType = "Dirigierkurs"
	DutyPodcast             DutyType = "Podcast"
	DutyGuestPerformance    DutyType = "Gastspiel"
	DutyTravel              DutyType = "Reise"
	DutyTravelCompensation  DutyType = "RZA"
	DutyMeeting             DutyType = "Dienstberatung"
	DutyAudition            DutyType = "Probespiel"
	DutyRecording           DutyType = "Tonaufnahme"
	DutyAcademy             DutyType = "Akademiedienst"
	DutyFreeDay             DutyType = "Frei"
	DutyVacation            DutyType = "Urlaub"
	DutyMisc                DutyType = "Sonstiges"
)

// Formation identifies the ensemble grouping an event is scored for.
type Formation string

const (
	FormationTutti        Formation = "SBP"
	FormationBrass        Formation = "Brass inkl. Schlagz."
	FormationBrassNoPerc  Formation = "Brass ohne Schlagz."
	FormationBLQ          Formation = "BLQ"
	FormationKLQ          Formation = "KLQ"
	FormationSBQ          Formation = "SBQ"
	FormationSerenades    Formation = "Serenaden"
	FormationWoodwind     Formation = "Holz"
	FormationBrassSection Formation = "Blech"
	FormationPercussion   Formation = "Schlagwerk"
	FormationDoubleBass   Formation = "Kontrabass"
	FormationCommittees   Formation = "Gremien"
	FormationStrategy     Formation = "Strategierat"
	FormationGroups       Formation = "Gruppen"
	FormationUnknown      Formation = "Unbekannt"
)

// IsRehearsal reports whether the type is a rehearsal-class duty.
func (t DutyType) IsRehearsal() bool {
	switch t {
	case DutyRehearsal, DutyDressRehearsal, DutyMainRehearsal:
		return true
	}
	return false
}

// IsConcert reports whether the type is a concert-class duty.
func (t DutyType) IsConcert() bool {
	switch t {
	case DutyConcert, DutySubscriptionConcert, DutyGuestPerformance:
		return true
	}
	return false
}

// IsChildrenConcert reports whether the type is a children's concert variant.
func (t DutyType) IsChildrenConcert() bool {
	return t == DutyChildrenConcert || t == DutyBabyConcert
}

// Event is one scheduled activity from the season plan. Events are built by
// the extraction layer and never mutated afterwards; derived plans always
// work on copies.
type Event struct {
	Date      time.Time  `json:"date" yaml:"date"`
	StartTime *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Type      DutyType   `json:"type" yaml:"type"`
	Formation Formation  `json:"formation" yaml:"formation"`
	Program   string     `json:"program,omitempty" yaml:"program,omitempty"`
	Venue     string     `json:"venue,omitempty" yaml:"venue,omitempty"`
	Conductor string     `json:"conductor,omitempty" yaml:"conductor,omitempty"`
	Clothing  string     `json:"clothing,omitempty" yaml:"clothing,omitempty"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	RawText   string     `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
}

// DurationMinutes returns the event duration, or -1 when no time pair is
// known. An end at or before the start is treated as ending the next day.
func (e Event) DurationMinutes() int {
	if e.StartTime == nil || e.EndTime == nil {
		return -1
	}
	start := At(e.Date, *e.StartTime)
	end := At(e.Date, *e.EndTime)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return int(end.Sub(start).Minutes())
}

// HasDuration reports whether a start/end pair is present.
func (e Event) HasDuration() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// IsFreeMarker reports whether the event marks the day as free of duty.
func (e Event) IsFreeMarker() bool {
	switch e.Type {
	case DutyFreeDay, DutyVacation, DutyTravelCompensation:
		return true
	}
	return false
}

// IsTravel reports whether the event is travel or travel compensation.
func (e Event) IsTravel() bool {
	return e.Type == DutyTravel || e.Type == DutyTravelCompensation
}

// Day normalizes a calendar date to midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Clock builds a time-of-day value; only hour and minute are significant.
func Clock(hour, minute int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)
}

// ClockPtr is Clock for optional event times.
func ClockPtr(hour, minute int) *time.Time {
	t := Clock(hour, minute)
	return &t
}

// At combines a calendar date with a time-of-day value.
func At(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}
