/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package export renders a duty plan as an iCalendar feed for musicians'
// calendar apps. It reproduces computed values verbatim and performs no
// further computation.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orchesterbuero/dienstplan/internal/models"
)

// ICSResult contains the rendered calendar.
type ICSResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ToICal renders the plan. Timed events become regular VEVENTs; free days
// become all-day entries so musicians see guaranteed rest in their
// calendars.
func ToICal(plan *models.Plan) *ICSResult {
	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//Orchesterbuero//Dienstplan Export//DE\r\n")
	fmt.Fprintf(&buf, "X-WR-CALNAME:%s Dienstplan\r\n", escapeText(plan.OrchestraName))
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatUTC(time.Now())

	for _, d := range plan.AllDuties() {
		if d.IsFree {
			writeAllDay(&buf, stamp, d.Date, d.Summary())
			continue
		}
		for _, e := range d.Events {
			if e.StartTime == nil {
				writeAllDay(&buf, stamp, d.Date, eventSummary(e))
				continue
			}
			start := models.At(e.Date, *e.StartTime)
			end := start.Add(2 * time.Hour)
			if e.EndTime != nil {
				end = models.At(e.Date, *e.EndTime)
				if !end.After(start) {
					end = end.Add(24 * time.Hour)
				}
			}
			buf.WriteString("BEGIN:VEVENT\r\n")
			fmt.Fprintf(&buf, "UID:%s@dienstplan\r\n", uuid.NewString())
			fmt.Fprintf(&buf, "DTSTAMP:%s\r\n", stamp)
			fmt.Fprintf(&buf, "DTSTART:%s\r\n", formatUTC(start))
			fmt.Fprintf(&buf, "DTEND:%s\r\n", formatUTC(end))
			fmt.Fprintf(&buf, "SUMMARY:%s\r\n", escapeText(eventSummary(e)))
			if e.Venue != "" {
				fmt.Fprintf(&buf, "LOCATION:%s\r\n", escapeText(e.Venue))
			}
			if desc := eventDescription(e, d); desc != "" {
				fmt.Fprintf(&buf, "DESCRIPTION:%s\r\n", escapeText(desc))
			}
			buf.WriteString("END:VEVENT\r\n")
		}
	}

	buf.WriteString("END:VCALENDAR\r\n")

	filename := fmt.Sprintf("dienstplan-%s-bis-%s.ics",
		plan.Start.Format("2006-01-02"), plan.End.Format("2006-01-02"))

	return &ICSResult{
		Data:        buf.Bytes(),
		Filename:    filename,
		ContentType: "text/calendar; charset=utf-8",
	}
}

func writeAllDay(buf *bytes.Buffer, stamp string, day time.Time, summary string) {
	buf.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(buf, "UID:%s@dienstplan\r\n", uuid.NewString())
	fmt.Fprintf(buf, "DTSTAMP:%s\r\n", stamp)
	fmt.Fprintf(buf, "DTSTART;VALUE=DATE:%s\r\n", day.Format("20060102"))
	fmt.Fprintf(buf, "DTEND;VALUE=DATE:%s\r\n", day.AddDate(0, 0, 1).Format("20060102"))
	fmt.Fprintf(buf, "SUMMARY:%s\r\n", escapeText(summary))
	buf.WriteString("END:VEVENT\r\n")
}

func eventSummary(e models.Event) string {
	if e.Program != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Program)
	}
	if e.RawText != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.RawText)
	}
	return string(e.Type)
}

func eventDescription(e models.Event, d models.Duty) string {
	var parts []string
	if e.Conductor != "" {
		parts = append(parts, "Leitung: "+e.Conductor)
	}
	if e.Clothing != "" {
		parts = append(parts, "Kleidung: "+e.Clothing)
	}
	if d.IsHoliday {
		parts = append(parts, "Feiertag: "+d.HolidayName)
	}
	if d.Count > 0 {
		parts = append(parts, fmt.Sprintf("Dienste: %g", d.Count))
	}
	return strings.Join(parts, "\n")
}

func formatUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
