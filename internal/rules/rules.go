/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package rules implements the TVK/HTV constraint engine. Each rule is an
// independent, side-effect-free evaluator; the validator runs the fixed
// registry in order and attaches the merged, sorted findings to the plan.
package rules

import (
	"github.com/rs/zerolog"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/models"
)

// Rule checks one contractual constraint against a plan. Rules that are
// inactive under the current mode return an empty list rather than being
// removed from the registry.
type Rule interface {
	ID() string
	Name() string
	Paragraph() string
	Evaluate(plan *models.Plan, contract *config.Contract) []models.Violation
}

// Validator drives the full rule registry against a plan.
type Validator struct {
	rules  []Rule
	logger zerolog.Logger
}

// NewValidator creates a validator with the fixed rule registry. The order
// is stable but carries no semantics; results are sorted afterwards.
func NewValidator(logger zerolog.Logger) *Validator {
	return &Validator{
		logger: logger.With().Str("component", "rule_validator").Logger(),
		rules: []Rule{
			MaxDutiesPerWeek{},
			WeeklyLoadWarning{},
			MinFreeDayPerWeek{},
			FreeSundaysQuota{},
			MaxDutiesPerDay{},
			DailyRestPeriod{},
			RehearsalTimeWindow{},
			SameDayBreak{},
			HolidayDutyMarker{},
			// Extended-mode rules; they no-op when HTV is inactive.
			Escalation{},
			BalancingPeriodAudit{},
		},
	}
}

// Rules returns the registry, for introspection.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// Validate runs every rule, sorts the merged findings by severity and
// earliest affected date, and attaches them to the plan.
func (v *Validator) Validate(plan *models.Plan, contract *config.Contract) []models.Violation {
	var all []models.Violation
	for _, rule := range v.rules {
		found := rule.Evaluate(plan, contract)
		if len(found) > 0 {
			v.logger.Debug().Str("rule", rule.ID()).Int("violations", len(found)).Msg("rule evaluated")
		}
		all = append(all, found...)
	}
	models.SortViolations(all)
	plan.Violations = all
	return all
}

// Summarize counts a validation result by severity.
func (v *Validator) Summarize(violations []models.Violation) models.ViolationSummary {
	return models.Summarize(violations)
}
