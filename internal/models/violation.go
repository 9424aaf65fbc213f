/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"sort"
	"time"
)

// Severity grades a rule violation. Error marks a hard contractual breach,
// Warning an approached limit, Info an audit-only finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities, most severe first.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Label returns the display label used in CLI output.
func (s Severity) Label() string {
	switch s {
	case SeverityError:
		return "FEHLER"
	case SeverityWarning:
		return "WARNUNG"
	}
	return "INFO"
}

// Violation is a single finding produced by a rule evaluator. Violations are
// immutable once returned.
type Violation struct {
	RuleID        string      `json:"rule_id"`
	RuleName      string      `json:"rule_name"`
	Severity      Severity    `json:"severity"`
	Message       string      `json:"message"`
	Paragraph     string      `json:"paragraph,omitempty"` // contractual citation
	AffectedDates []time.Time `json:"affected_dates,omitempty"`
	AffectedWeek  int         `json:"affected_week,omitempty"` // ISO week, 0 = none
	CurrentValue  float64     `json:"current_value,omitempty"`
	LimitValue    float64     `json:"limit_value,omitempty"`
	Suggestion    string      `json:"suggestion,omitempty"`
}

// sortDate is the ordering key; violations without dates sort last within
// their severity.
func (v Violation) sortDate() time.Time {
	if len(v.AffectedDates) == 0 {
		return time.Unix(1<<62, 0)
	}
	earliest := v.AffectedDates[0]
	for _, d := range v.AffectedDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	return earliest
}

// SortViolations orders by severity rank, then earliest affected date.
func SortViolations(violations []Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		ri, rj := violations[i].Severity.Rank(), violations[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return violations[i].sortDate().Before(violations[j].sortDate())
	})
}

// ViolationSummary counts violations by severity.
type ViolationSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Summarize tallies a violation list.
func Summarize(violations []Violation) ViolationSummary {
	s := ViolationSummary{Total: len(violations)}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Infos++
		}
	}
	return s
}
