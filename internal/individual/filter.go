/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package individual derives per-musician plans from the collective plan.
// Validation stays collective; individual plans carry no rule findings.
package individual

import (
	"sync"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/duty"
	"github.com/orchesterbuero/dienstplan/internal/models"
	"github.com/orchesterbuero/dienstplan/internal/roster"
)

// Filter reduces the collective plan to the events one musician takes part
// in and recomputes duty values over the reduced event sets.
func Filter(collective *models.Plan, musician *roster.Musician, contract *config.Contract) *models.Plan {
	var duties []models.Duty
	for _, d := range collective.AllDuties() {
		duties = append(duties, filterDuty(d, musician, contract))
	}
	plan := models.NewPlan(collective.OrchestraName, duties, collective.Start, collective.End)
	return plan
}

// FilterAll computes every musician's plan. The computations are
// independent and share only the read-only contract, so they run
// concurrently.
func FilterAll(collective *models.Plan, musicians []*roster.Musician, contract *config.Contract) map[string]*models.Plan {
	plans := make(map[string]*models.Plan, len(musicians))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, m := range musicians {
		wg.Add(1)
		go func(m *roster.Musician) {
			defer wg.Done()
			plan := Filter(collective, m, contract)
			mu.Lock()
			plans[m.DisplayName()] = plan
			mu.Unlock()
		}(m)
	}
	wg.Wait()
	return plans
}

func filterDuty(d models.Duty, musician *roster.Musician, contract *config.Contract) models.Duty {
	// Free days apply to everyone unchanged.
	if d.IsFree || d.Count == 0 {
		return d
	}

	var relevant []models.Event
	for _, e := range d.Events {
		if e.IsFreeMarker() || e.IsTravel() || musician.ParticipatesIn(e.Formation) {
			relevant = append(relevant, e)
		}
	}

	if len(relevant) == 0 {
		return models.Duty{
			Date:        d.Date,
			IsFree:      true,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
		}
	}

	onlyFreeOrTravel := true
	for _, e := range relevant {
		if !e.IsFreeMarker() && !e.IsTravel() {
			onlyFreeOrTravel = false
			break
		}
	}
	if onlyFreeOrTravel {
		// Same value as the collective plan; travel binds everyone.
		return models.Duty{
			Date:        d.Date,
			Events:      relevant,
			Count:       d.Count,
			IsFree:      d.IsFree,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
			Notes:       d.Notes,
		}
	}

	return models.Duty{
		Date:        d.Date,
		Events:      relevant,
		Count:       duty.Value(relevant, contract),
		IsHoliday:   d.IsHoliday,
		HolidayName: d.HolidayName,
		Notes:       d.Notes,
	}
}
