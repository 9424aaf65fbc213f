/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package holiday provides the German public-holiday calendar used to mark
// duty days. Movable feasts are derived from the Gregorian Easter date.
package holiday

import "time"

// Calendar resolves public holidays for one federal state over a fixed set
// of years. The zero value recognizes nothing; use New.
type Calendar struct {
	names map[time.Time]string
}

// New builds a calendar for a federal state code ("SN", "BY", ...) covering
// the given years. Unknown state codes fall back to the nationwide set.
func New(state string, years ...int) *Calendar {
	cal := &Calendar{names: make(map[time.Time]string)}
	for _, year := range years {
		cal.addYear(state, year)
	}
	return cal
}

// ForRange builds a calendar covering every year touched by [start, end].
func ForRange(state string, start, end time.Time) *Calendar {
	var years []int
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	return New(state, years...)
}

// Contains reports whether the date is a public holiday.
func (c *Calendar) Contains(date time.Time) bool {
	_, ok := c.names[day(date)]
	return ok
}

// Name returns the holiday name for a date, or "".
func (c *Calendar) Name(date time.Time) string {
	return c.names[day(date)]
}

func (c *Calendar) addYear(state string, year int) {
	add := func(d time.Time, name string) { c.names[d] = name }
	easter := easterSunday(year)

	add(date(year, time.January, 1), "Neujahr")
	add(easter.AddDate(0, 0, -2), "Karfreitag")
	add(easter.AddDate(0, 0, 1), "Ostermontag")
	add(date(year, time.May, 1), "Tag der Arbeit")
	add(easter.AddDate(0, 0, 39), "Christi Himmelfahrt")
	add(easter.AddDate(0, 0, 50), "Pfingstmontag")
	add(date(year, time.October, 3), "Tag der Deutschen Einheit")
	add(date(year, time.December, 25), "1. Weihnachtstag")
	add(date(year, time.December, 26), "2. Weihnachtstag")

	switch state {
	case "SN":
		add(date(year, time.October, 31), "Reformationstag")
		add(repentanceDay(year), "Buß- und Bettag")
	case "BB", "MV", "ST", "TH", "HB", "HH", "NI", "SH":
		add(date(year, time.October, 31), "Reformationstag")
	case "BW":
		add(date(year, time.January, 6), "Heilige Drei Könige")
		add(easter.AddDate(0, 0, 60), "Fronleichnam")
		add(date(year, time.November, 1), "Allerheiligen")
	case "BY":
		add(date(year, time.January, 6), "Heilige Drei Könige")
		add(easter.AddDate(0, 0, 60), "Fronleichnam")
		add(date(year, time.August, 15), "Mariä Himmelfahrt")
		add(date(year, time.November, 1), "Allerheiligen")
	case "NW", "RP", "SL":
		add(easter.AddDate(0, 0, 60), "Fronleichnam")
		add(date(year, time.November, 1), "Allerheiligen")
	case "HE":
		add(easter.AddDate(0, 0, 60), "Fronleichnam")
	case "BE":
		add(date(year, time.March, 8), "Internationaler Frauentag")
	}
}

// easterSunday computes the Gregorian Easter date (Gauss algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dayOfMonth := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), dayOfMonth)
}

// repentanceDay is the Wednesday before November 23.
func repentanceDay(year int) time.Time {
	d := date(year, time.November, 22)
	for d.Weekday() != time.Wednesday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
