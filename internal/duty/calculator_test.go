/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package duty

import (
	"testing"
	"time"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

var monday = models.Day(2026, time.September, 7)

func timedEvent(t models.DutyType, startH, startM, endH, endM int) models.Event {
	return models.Event{
		Date:      monday,
		StartTime: models.ClockPtr(startH, startM),
		EndTime:   models.ClockPtr(endH, endM),
		Type:      t,
		Formation: models.FormationTutti,
		RawText:   string(t),
	}
}

func untimedEvent(t models.DutyType) models.Event {
	return models.Event{
		Date:      monday,
		Type:      t,
		Formation: models.FormationTutti,
		RawText:   string(t),
	}
}

func htvContract() *config.Contract {
	return config.DefaultContract()
}

func tvkContract() *config.Contract {
	c := config.DefaultContract()
	c.HTV.Active = false
	return c
}

func TestValueSingleEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []models.Event
		want   float64
	}{
		{
			name:   "short rehearsal is one duty",
			events: []models.Event{timedEvent(models.DutyRehearsal, 10, 0, 12, 30)},
			want:   1,
		},
		{
			name:   "rehearsal at the 180 minute boundary is one duty",
			events: []models.Event{timedEvent(models.DutyRehearsal, 10, 0, 13, 0)},
			want:   1,
		},
		{
			name:   "long rehearsal counts double",
			events: []models.Event{timedEvent(models.DutyRehearsal, 10, 0, 14, 30)},
			want:   2,
		},
		{
			name:   "untimed concert is one duty",
			events: []models.Event{untimedEvent(models.DutyConcert)},
			want:   1,
		},
		{
			name:   "meeting counts once regardless of duration",
			events: []models.Event{timedEvent(models.DutyMeeting, 9, 0, 16, 0)},
			want:   1,
		},
		{
			name:   "lone warm-up rehearsal is half a duty",
			events: []models.Event{untimedEvent(models.DutyWarmupRehearsal)},
			want:   0.5,
		},
		{
			name:   "untimed misc alone carries no duty",
			events: []models.Event{untimedEvent(models.DutyMisc)},
			want:   0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Value(tc.events, htvContract())
			if got != tc.want {
				t.Fatalf("Value() = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestValueWarmupPlusConcert(t *testing.T) {
	events := []models.Event{
		timedEvent(models.DutyWarmupRehearsal, 18, 0, 18, 45),
		timedEvent(models.DutyConcert, 19, 30, 21, 30),
	}
	if got := Value(events, htvContract()); got != 1.5 {
		t.Fatalf("warm-up plus concert = %g, want 1.5", got)
	}

	// A third event breaks the discounted combination.
	events = append(events, timedEvent(models.DutyRehearsal, 10, 0, 12, 0))
	if got := Value(events, htvContract()); got == 1.5 {
		t.Fatalf("three events must not use the combination value")
	}
}

func TestValueChildrenConcerts(t *testing.T) {
	single := timedEvent(models.DutyChildrenConcert, 9, 30, 10, 15)
	single.RawText = "SK Waldheim"

	double := timedEvent(models.DutyChildrenConcert, 9, 30, 10, 15)
	double.RawText = "SK 9:30 & 11:30"

	if got := Value([]models.Event{single}, htvContract()); got != 1 {
		t.Fatalf("single children's concert = %g, want 1", got)
	}

	// Back-to-back marker: the extended mode caps the pair at one duty,
	// the standard mode values it at 1.5.
	if got := Value([]models.Event{double}, htvContract()); got != 1 {
		t.Fatalf("double children's concert under HTV = %g, want 1", got)
	}
	if got := Value([]models.Event{double}, tvkContract()); got != 1.5 {
		t.Fatalf("double children's concert under TVK = %g, want 1.5", got)
	}
}

func TestValueChildrenConcertBusSurcharge(t *testing.T) {
	double := timedEvent(models.DutyChildrenConcert, 9, 30, 10, 15)
	double.RawText = "SK 9:30 & 11:30, Abfahrt 07:45 Bus"

	if got := Value([]models.Event{double}, htvContract()); got != 1.5 {
		t.Fatalf("double children's concert with bus = %g, want 1.5", got)
	}
}

func TestValueAcademyTiers(t *testing.T) {
	tests := []struct {
		name string
		ev   models.Event
		want float64
	}{
		{"two hours", timedEvent(models.DutyAcademy, 9, 0, 11, 0), 1},
		{"three hour boundary", timedEvent(models.DutyAcademy, 9, 0, 12, 0), 1},
		{"five hours", timedEvent(models.DutyAcademy, 9, 0, 14, 0), 2},
		{"seven hours", timedEvent(models.DutyAcademy, 9, 0, 16, 0), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Value([]models.Event{tc.ev}, htvContract()); got != tc.want {
				t.Fatalf("academy value = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestValueConductingCourseAndRecordings(t *testing.T) {
	if got := Value([]models.Event{untimedEvent(models.DutyConductingCourse)}, htvContract()); got != 2 {
		t.Fatalf("conducting course = %g, want 2", got)
	}
	if got := Value([]models.Event{untimedEvent(models.DutyPodcast)}, htvContract()); got != 2 {
		t.Fatalf("podcast = %g, want 2", got)
	}
	if got := Value([]models.Event{untimedEvent(models.DutyRecording)}, htvContract()); got != 2 {
		t.Fatalf("recording = %g, want 2", got)
	}
}

func TestValueDoubleDuty(t *testing.T) {
	// One hour plus 200 minutes: combined 260 min stays within the 270 min
	// ceiling, so the extended mode counts a double duty. The standard mode
	// sums per event (1 + 2).
	events := []models.Event{
		timedEvent(models.DutyRehearsal, 9, 0, 10, 0),
		timedEvent(models.DutyRehearsal, 11, 0, 14, 20),
	}
	if got := Value(events, htvContract()); got != 2 {
		t.Fatalf("combined rehearsals under HTV = %g, want 2", got)
	}
	if got := Value(events, tvkContract()); got != 3 {
		t.Fatalf("combined rehearsals under TVK = %g, want 3", got)
	}

	// Beyond the ceiling both modes sum per event.
	events = []models.Event{
		timedEvent(models.DutyRehearsal, 9, 0, 12, 30),
		timedEvent(models.DutyRehearsal, 14, 0, 17, 30),
	}
	if got := Value(events, htvContract()); got != 4 {
		t.Fatalf("over-ceiling rehearsals under HTV = %g, want 4", got)
	}
}

func TestValueChamberFormations(t *testing.T) {
	blq := timedEvent(models.DutyConcert, 17, 0, 18, 0)
	blq.Formation = models.FormationBLQ
	klq := timedEvent(models.DutyConcert, 19, 0, 20, 0)
	klq.Formation = models.FormationKLQ

	if got := Value([]models.Event{blq, klq}, htvContract()); got != 1 {
		t.Fatalf("disjoint chamber ensembles = %g, want 1", got)
	}

	// A tutti event on the same day disables the collapse.
	tutti := timedEvent(models.DutyConcert, 12, 0, 13, 0)
	if got := Value([]models.Event{blq, klq, tutti}, htvContract()); got == 1 {
		t.Fatalf("tutti day must not collapse to a single chamber duty")
	}
}

func TestValueBusSurcharge(t *testing.T) {
	concert := timedEvent(models.DutyConcert, 19, 0, 21, 0)
	concert.RawText = "Konzert Leipzig, Bus 17:00"
	if got := Value([]models.Event{concert}, htvContract()); got != 1.5 {
		t.Fatalf("concert with bus = %g, want 1.5", got)
	}
}

func TestValueMiscExclusions(t *testing.T) {
	misc := untimedEvent(models.DutyMisc)
	misc.RawText = "Stadtmusik Bad Lausick"
	concert := timedEvent(models.DutyConcert, 19, 0, 21, 0)

	// The excluded entry contributes nothing on top of the concert.
	if got := Value([]models.Event{concert, misc}, htvContract()); got != 1 {
		t.Fatalf("concert plus excluded misc = %g, want 1", got)
	}

	plain := untimedEvent(models.DutyMisc)
	plain.RawText = "Notenausgabe 14:00"
	if got := Value([]models.Event{concert, plain}, htvContract()); got != 2 {
		t.Fatalf("concert plus counting misc = %g, want 2", got)
	}
}

func TestCalculateDayFreeMarkers(t *testing.T) {
	for _, typ := range []models.DutyType{models.DutyFreeDay, models.DutyVacation, models.DutyTravelCompensation} {
		d := CalculateDay(monday, []models.Event{untimedEvent(typ)}, htvContract(), false, "")
		if !d.IsFree || d.Count != 0 {
			t.Fatalf("%s: IsFree=%v Count=%g, want free with zero duty", typ, d.IsFree, d.Count)
		}
	}

	empty := CalculateDay(monday, nil, htvContract(), false, "")
	if !empty.IsFree || empty.Count != 0 {
		t.Fatalf("empty day must be free")
	}
}

func TestCalculateDayTravel(t *testing.T) {
	travel := untimedEvent(models.DutyTravel)

	d := CalculateDay(monday, []models.Event{travel}, htvContract(), false, "")
	if d.Count != 1 || d.IsFree {
		t.Fatalf("travel day under HTV: Count=%g IsFree=%v, want 1 duty", d.Count, d.IsFree)
	}
	if d.Notes == "" {
		t.Fatalf("travel day under HTV should carry a note")
	}

	d = CalculateDay(monday, []models.Event{travel}, tvkContract(), false, "")
	if d.Count != 0 {
		t.Fatalf("travel day under TVK: Count=%g, want 0", d.Count)
	}
}

func TestCalculateRangeCoversEveryDay(t *testing.T) {
	start := models.Day(2026, time.September, 7)
	end := models.Day(2026, time.September, 13)
	events := []models.Event{
		timedEvent(models.DutyRehearsal, 10, 0, 12, 0),
		// Outside the range, must be dropped.
		{Date: models.Day(2026, time.October, 1), Type: models.DutyConcert, Formation: models.FormationTutti},
	}

	duties := CalculateRange(events, htvContract(), start, end)
	if len(duties) != 7 {
		t.Fatalf("got %d duties, want 7", len(duties))
	}
	if duties[0].Count != 1 {
		t.Fatalf("monday duty = %g, want 1", duties[0].Count)
	}
	for _, d := range duties[1:] {
		if !d.IsFree {
			t.Fatalf("%s should be free", d.Date.Format("2006-01-02"))
		}
	}
}

func TestCalculateRangeMarksHolidays(t *testing.T) {
	day := models.Day(2026, time.October, 3)
	events := []models.Event{{
		Date:      day,
		Type:      models.DutyConcert,
		Formation: models.FormationTutti,
		RawText:   "Konzert",
	}}

	duties := CalculateRange(events, htvContract(), day, day)
	if len(duties) != 1 {
		t.Fatalf("got %d duties, want 1", len(duties))
	}
	if !duties[0].IsHoliday || duties[0].HolidayName == "" {
		t.Fatalf("October 3rd must be marked as a holiday, got %+v", duties[0])
	}
}
