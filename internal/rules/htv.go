/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rules

import (
	"fmt"
	"time"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

// Escalation enforces the HTV follow-up cap: a week above the trigger
// threshold reduces the admissible total of the immediately following week.
// Checked pairwise across the whole week sequence.
type Escalation struct{}

func (Escalation) ID() string        { return "HTV_ESKALATION" }
func (Escalation) Name() string      { return "HTV-Eskalation" }
func (Escalation) Paragraph() string { return "5. HTV" }

func (r Escalation) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	if !contract.HTV.Active {
		return nil
	}
	trigger := contract.HTV.Escalation.TriggerThreshold
	reducedMax := contract.HTV.Escalation.ReducedMaxNextWeek

	var violations []models.Violation
	for i := 0; i+1 < len(plan.Weeks); i++ {
		week, next := plan.Weeks[i], plan.Weeks[i+1]
		if week.TotalDuties() <= trigger {
			continue
		}
		nextTotal := next.TotalDuties()
		if nextTotal > reducedMax {
			violations = append(violations, models.Violation{
				RuleID:   r.ID(),
				RuleName: r.Name(),
				Severity: models.SeverityError,
				Message: fmt.Sprintf("KW %d: %g Dienste → KW %d muss max %g haben, hat aber %g",
					week.WeekNumber, week.TotalDuties(), next.WeekNumber, reducedMax, nextTotal),
				Paragraph:    r.Paragraph(),
				AffectedWeek: next.WeekNumber,
				CurrentValue: nextTotal,
				LimitValue:   reducedMax,
				Suggestion:   fmt.Sprintf("Dienste in KW %d auf max %g reduzieren", next.WeekNumber, reducedMax),
			})
		}
	}
	return violations
}

// BalancingPeriodAudit evaluates the two fixed 24-week balancing periods
// against the period duty cap. Every period that overlaps any plan week
// yields exactly one finding: INFO with the remaining buffer when within
// the cap, ERROR with the overage when exceeded. The inter-period transfer
// allowance is reported, never auto-applied.
type BalancingPeriodAudit struct{}

func (BalancingPeriodAudit) ID() string        { return "HTV_AUSGLEICH" }
func (BalancingPeriodAudit) Name() string      { return "Ausgleichszeitraum (§12,2)" }
func (BalancingPeriodAudit) Paragraph() string { return "HTV §12,2" }

func (r BalancingPeriodAudit) Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation {
	if !contract.HTV.Active {
		return nil
	}
	cfg := contract.HTV.BalancingPeriod

	period1Start, err := time.ParseInLocation("2006-01-02", cfg.Period1Start, time.UTC)
	if err != nil {
		return nil
	}
	period1End := period1Start.AddDate(0, 0, cfg.Weeks*7-1)
	period2Start := period1End.AddDate(0, 0, 1)
	period2End := period2Start.AddDate(0, 0, cfg.Weeks*7-1)

	periods := []struct {
		label      string
		start, end time.Time
	}{
		{"Periode 1", period1Start, period1End},
		{"Periode 2", period2Start, period2End},
	}

	var violations []models.Violation
	for _, p := range periods {
		var total float64
		var matching []models.PlanWeek
		for _, week := range plan.Weeks {
			if !week.EndDate.Before(p.start) && !week.StartDate.After(p.end) {
				total += week.TotalDuties()
				matching = append(matching, week)
			}
		}
		if len(matching) == 0 {
			continue
		}

		firstKW := matching[0].WeekNumber
		lastKW := matching[len(matching)-1].WeekNumber

		if total > cfg.MaxDuties {
			violations = append(violations, models.Violation{
				RuleID:   r.ID(),
				RuleName: r.Name(),
				Severity: models.SeverityError,
				Message: fmt.Sprintf("%s (KW %d–%d, %d Wo.): %g Dienste (max %g). Übertrag bis %g Dienste möglich.",
					p.label, firstKW, lastKW, len(matching), total, cfg.MaxDuties, cfg.TransferDuties),
				Paragraph:    r.Paragraph(),
				AffectedWeek: firstKW,
				CurrentValue: total,
				LimitValue:   cfg.MaxDuties,
				Suggestion:   fmt.Sprintf("%g Dienste zu viel im Zeitraum", total-cfg.MaxDuties),
			})
		} else {
			violations = append(violations, models.Violation{
				RuleID:   r.ID(),
				RuleName: r.Name(),
				Severity: models.SeverityInfo,
				Message: fmt.Sprintf("%s (KW %d–%d, %d Wo.): %g von %g Diensten (%g Puffer)",
					p.label, firstKW, lastKW, len(matching), total, cfg.MaxDuties, cfg.MaxDuties-total),
				Paragraph:    r.Paragraph(),
				AffectedWeek: firstKW,
				CurrentValue: total,
				LimitValue:   cfg.MaxDuties,
			})
		}
	}
	return violations
}
