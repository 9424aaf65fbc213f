/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package planfile reads season-plan files. A plan file is the YAML handoff
// from the extraction step: an orchestra header, the plan range, and a flat
// event list with dates as 2006-01-02 and times as 15:04.
package planfile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orchesterbuero/dienstplan/internal/models"
)

// PlanFile is the parsed handoff document.
type PlanFile struct {
	Orchestra string
	State     string
	Start     time.Time
	End       time.Time
	Events    []models.Event
}

type rawFile struct {
	Orchestra string     `yaml:"orchester"`
	State     string     `yaml:"bundesland"`
	Start     string     `yaml:"von"`
	End       string     `yaml:"bis"`
	Events    []rawEvent `yaml:"termine"`
}

type rawEvent struct {
	Date      string `yaml:"datum"`
	Start     string `yaml:"beginn"`
	End       string `yaml:"ende"`
	Type      string `yaml:"art"`
	Formation string `yaml:"besetzung"`
	Program   string `yaml:"programm"`
	Venue     string `yaml:"ort"`
	Conductor string `yaml:"leitung"`
	Clothing  string `yaml:"kleidung"`
	Notes     string `yaml:"hinweis"`
	RawText   string `yaml:"rohtext"`
}

var knownTypes = func() map[string]models.DutyType {
	types := []models.DutyType{
		models.DutyRehearsal, models.DutyDressRehearsal, models.DutyMainRehearsal,
		models.DutyWarmupRehearsal, models.DutyConcert, models.DutySubscriptionConcert,
		models.DutyChildrenConcert, models.DutyBabyConcert, models.DutyConductingCourse,
		models.DutyPodcast, models.DutyGuestPerformance, models.DutyTravel,
		models.DutyTravelCompensation, models.DutyMeeting, models.DutyAudition,
		models.DutyRecording, models.DutyAcademy, models.DutyFreeDay,
		models.DutyVacation, models.DutyMisc,
	}
	m := make(map[string]models.DutyType, len(types))
	for _, t := range types {
		m[string(t)] = t
	}
	return m
}()

var knownFormations = func() map[string]models.Formation {
	formations := []models.Formation{
		models.FormationTutti, models.FormationBrass, models.FormationBrassNoPerc,
		models.FormationBLQ, models.FormationKLQ, models.FormationSBQ,
		models.FormationSerenades, models.FormationWoodwind, models.FormationBrassSection,
		models.FormationPercussion, models.FormationDoubleBass, models.FormationCommittees,
		models.FormationStrategy, models.FormationGroups, models.FormationUnknown,
	}
	m := make(map[string]models.Formation, len(formations))
	for _, f := range formations {
		m[string(f)] = f
	}
	return m
}()

// Load parses the plan file at path.
func Load(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

// Parse parses plan file contents. Unrecognized duty types map to Sonstiges
// and unrecognized formations to Unbekannt so that a new label in the season
// plan never drops an event.
func Parse(data []byte) (*PlanFile, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plan file: %w", err)
	}

	pf := &PlanFile{Orchestra: raw.Orchestra, State: raw.State}

	var err error
	if pf.Start, err = parseDate(raw.Start); err != nil {
		return nil, fmt.Errorf("plan range: %w", err)
	}
	if pf.End, err = parseDate(raw.End); err != nil {
		return nil, fmt.Errorf("plan range: %w", err)
	}
	if pf.End.Before(pf.Start) {
		return nil, fmt.Errorf("plan range: end %s before start %s", raw.End, raw.Start)
	}

	for i, re := range raw.Events {
		ev, err := convertEvent(re)
		if err != nil {
			return nil, fmt.Errorf("termin %d: %w", i+1, err)
		}
		pf.Events = append(pf.Events, ev)
	}
	return pf, nil
}

func convertEvent(re rawEvent) (models.Event, error) {
	ev := models.Event{
		Program:   re.Program,
		Venue:     re.Venue,
		Conductor: re.Conductor,
		Clothing:  re.Clothing,
		Notes:     re.Notes,
		RawText:   re.RawText,
	}

	var err error
	if ev.Date, err = parseDate(re.Date); err != nil {
		return ev, err
	}
	if ev.StartTime, err = parseClock(re.Start); err != nil {
		return ev, fmt.Errorf("beginn: %w", err)
	}
	if ev.EndTime, err = parseClock(re.End); err != nil {
		return ev, fmt.Errorf("ende: %w", err)
	}

	if t, ok := knownTypes[re.Type]; ok {
		ev.Type = t
	} else {
		ev.Type = models.DutyMisc
	}
	if f, ok := knownFormations[re.Formation]; ok {
		ev.Formation = f
	} else {
		ev.Formation = models.FormationUnknown
	}
	if ev.RawText == "" {
		ev.RawText = re.Type
	}
	return ev, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("datum %q: %w", s, err)
	}
	return models.Day(t.Year(), t.Month(), t.Day()), nil
}

func parseClock(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil, fmt.Errorf("uhrzeit %q: %w", s, err)
	}
	return models.ClockPtr(t.Hour(), t.Minute()), nil
}
