/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package duty computes the contractual duty value of a calendar day from
// its events. The branch order below is contractual: the first matching
// branch wins, and reordering changes pay-relevant results.
package duty

import (
	"strings"
	"time"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/holiday"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

// nonOverlappingChamber is the fixed set of chamber formations that share no
// musicians. A day whose events all belong to distinct formations from this
// set counts as a single duty in the collective plan.
var nonOverlappingChamber = map[models.Formation]bool{
	models.FormationBrass:       true,
	models.FormationBrassNoPerc: true,
	models.FormationBLQ:         true,
	models.FormationKLQ:         true,
	models.FormationSBQ:         true,
	models.FormationSerenades:   true,
}

// CalculateRange computes one Duty per calendar day in [start, end].
// Events outside the range are ignored.
func CalculateRange(events []models.Event, contract *config.Contract, start, end time.Time) []models.Duty {
	cal := holiday.ForRange(contract.Orchestra.State, start, end)

	byDate := make(map[time.Time][]models.Event)
	for _, e := range events {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	var duties []models.Duty
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		duties = append(duties, CalculateDay(day, byDate[day], contract, cal.Contains(day), cal.Name(day)))
	}
	return duties
}

// CalculateDay computes the duty record for a single day. It is a total
// function: any finite event list, including the empty one, yields a duty.
func CalculateDay(day time.Time, events []models.Event, contract *config.Contract, isHoliday bool, holidayName string) models.Duty {
	d := models.Duty{
		Date:        day,
		Events:      events,
		IsHoliday:   isHoliday,
		HolidayName: holidayName,
	}

	if len(events) == 0 {
		d.IsFree = true
		return d
	}

	for _, e := range events {
		if e.IsFreeMarker() {
			d.IsFree = true
			return d
		}
	}

	// Pure travel day without any performance.
	allTravel := true
	for _, e := range events {
		if e.Type != models.DutyTravel {
			allTravel = false
			break
		}
	}
	if allTravel {
		if contract.HTV.Active {
			// Travel time counts as one duty under the extended mode.
			d.Count = 1
			d.Notes = "Reisetag (HTV: 1 Dienst)"
		} else {
			d.Notes = "Reisetag"
		}
		return d
	}

	d.Count = Value(events, contract)
	return d
}

// Value computes the duty value for a day's events. Travel events are kept:
// they participate in combination rules, unlike free-day markers.
func Value(events []models.Event, contract *config.Contract) float64 {
	calc := contract.Calculation
	htv := contract.HTV.Active

	active := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !e.IsFreeMarker() {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return 0
	}

	// Untimed miscellaneous entries alone carry no duty.
	onlyUntimedMisc := true
	for _, e := range active {
		if e.Type != models.DutyMisc || e.StartTime != nil {
			onlyUntimedMisc = false
			break
		}
	}
	if onlyUntimedMisc {
		return 0
	}

	// Disjoint chamber ensembles on the same day: no musician plays in two
	// of them, so the day counts once for the collective plan.
	formations := make(map[models.Formation]bool)
	allChamber := true
	for _, e := range active {
		formations[e.Formation] = true
		if !nonOverlappingChamber[e.Formation] {
			allChamber = false
		}
	}
	if len(formations) > 1 && allChamber && !formations[models.FormationTutti] {
		return 1
	}

	// Academy duty: tiered by total duration.
	var academy []models.Event
	for _, e := range active {
		if e.Type == models.DutyAcademy {
			academy = append(academy, e)
		}
	}
	if len(academy) > 0 {
		return academyValue(academy, contract.HTV.Academy)
	}

	// Warm-up rehearsal plus concert is a discounted combination.
	hasWarmup, hasConcert := false, false
	for _, e := range active {
		if e.Type == models.DutyWarmupRehearsal {
			hasWarmup = true
		}
		if e.Type.IsConcert() {
			hasConcert = true
		}
	}
	if hasWarmup && hasConcert && len(active) <= 2 {
		return calc.WarmupPlusConcert
	}

	// Children's concerts, including the back-to-back double performance.
	var children, others []models.Event
	for _, e := range active {
		if e.Type.IsChildrenConcert() {
			children = append(children, e)
		} else {
			others = append(others, e)
		}
	}
	if len(children) > 0 {
		return childrenValue(children, others, events, contract)
	}

	for _, e := range active {
		if e.Type == models.DutyConductingCourse {
			return calc.ConductingCourseFullDay
		}
	}
	for _, e := range active {
		if e.Type == models.DutyPodcast || e.Type == models.DutyRecording {
			return calc.PodcastRecording
		}
	}

	// Extended mode: two rehearsals combined within the ceiling count as a
	// single double duty instead of being summed per event.
	if htv {
		var rehearsals []models.Event
		for _, e := range active {
			if e.Type.IsRehearsal() {
				rehearsals = append(rehearsals, e)
			}
		}
		if len(rehearsals) == 2 {
			combined := durationSum(rehearsals)
			if combined > 0 && combined <= contract.HTV.DoubleDuty.MaxCombinedMinutes {
				return 2
			}
		}
	}

	total := sumSingleEvents(active, calc)

	if total > 0 && anyRawContains(events, "Bus") {
		total += calc.BusSurcharge
	}
	return total
}

// academyValue applies the tiered duration rule.
func academyValue(events []models.Event, cfg config.AcademyConfig) float64 {
	hours := durationSum(events) / 60
	switch {
	case hours <= cfg.Tier1MaxHours:
		return cfg.Tier1Duties
	case hours <= cfg.Tier2MaxHours:
		return cfg.Tier2Duties
	}
	return cfg.Tier3Duties
}

// childrenValue handles children's-concert days. The double-performance
// detection matches literal source-text markers; it is a deliberate
// heuristic and must not be generalized without a contract review.
func childrenValue(children, others, allEvents []models.Event, contract *config.Contract) float64 {
	calc := contract.Calculation

	var raw strings.Builder
	for i, e := range children {
		if i > 0 {
			raw.WriteString(" ")
		}
		raw.WriteString(e.RawText)
	}
	text := raw.String()

	if !strings.Contains(text, "&") && !strings.Contains(text, "11:30") {
		// Single performance.
		return 1
	}

	base := calc.ChildrenConcertDouble
	if contract.HTV.Active {
		// Identical back-to-back performances within the ceiling count as
		// one duty; an unknown duration is treated as within.
		total := durationSum(children)
		if total <= contract.HTV.ChildrenConcert.BackToBackMaxMinutes {
			base = contract.HTV.ChildrenConcert.BackToBackDuties
		}
	}

	for _, e := range allEvents {
		t := e.RawText
		if strings.Contains(t, "Bus") || strings.Contains(t, "07:") || strings.Contains(t, "08:") {
			base += calc.BusSurcharge
			break
		}
	}

	if len(others) > 0 {
		base += sumSingleEvents(others, calc)
	}
	return base
}

// sumSingleEvents values each event independently.
func sumSingleEvents(events []models.Event, calc config.CalculationConfig) float64 {
	var total float64
	for _, e := range events {
		switch {
		case e.Type == models.DutyMeeting || e.Type == models.DutyAudition:
			total++
		case e.HasDuration():
			if float64(e.DurationMinutes()) <= calc.ShortRehearsalMaxMinutes {
				total++
			} else {
				total += 2
			}
		case e.Type.IsConcert() || e.Type.IsRehearsal() || e.Type == models.DutyBabyConcert:
			total++
		case e.Type == models.DutyWarmupRehearsal:
			total += 0.5
		case e.Type == models.DutyMisc:
			if !matchesKeyword(e.RawText, calc.MiscExcludeKeywords) {
				total++
			}
		default:
			total++
		}
	}
	return total
}

func durationSum(events []models.Event) float64 {
	var total float64
	for _, e := range events {
		if d := e.DurationMinutes(); d > 0 {
			total += float64(d)
		}
	}
	return total
}

func anyRawContains(events []models.Event, marker string) bool {
	for _, e := range events {
		if strings.Contains(e.RawText, marker) {
			return true
		}
	}
	return false
}

func matchesKeyword(raw string, keywords []string) bool {
	lower := strings.ToLower(raw)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
