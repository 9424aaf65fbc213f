/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/orchesterbuero/dienstplan/internal/individual"
	"github.com/orchesterbuero/dienstplan/internal/roster"
	"github.com/orchesterbuero/dienstplan/internal/rules"
)

var individualCmd = &cobra.Command{
	Use:   "individual",
	Short: "Compute per-musician duty plans",
	Long:  "Filter the collective plan down to the events each musician actually plays and re-validate the result",
	RunE:  runIndividual,
}

var individualName string

func init() {
	individualCmd.Flags().StringVar(&individualName, "musician", "", "limit output to one musician (default: whole roster)")
}

func runIndividual(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if rosterPath == "" {
		return fmt.Errorf("--roster is required")
	}
	contract, err := loadContract()
	if err != nil {
		return err
	}
	_, plan, err := loadPlan(contract)
	if err != nil {
		return err
	}
	ros, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	validator := rules.NewValidator(logger)

	if individualName != "" {
		musician := ros.Find(individualName)
		if musician == nil {
			return fmt.Errorf("musician %q not in roster", individualName)
		}
		p := individual.Filter(plan, musician, contract)
		p.Violations = validator.Validate(p, contract)
		summary := validator.Summarize(p.Violations)
		printReport(p, contract.ModeLabel(), contract.MaxWeeklyDuties(), summary)
		return nil
	}

	musicians := ros.Active()
	plans := individual.FilterAll(plan, musicians, contract)

	names := make([]string, 0, len(plans))
	for name := range plans {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Einzeldienstpläne %s (%s), %d Musiker\n\n",
		plan.OrchestraName, contract.ModeLabel(), len(names))
	for _, name := range names {
		p := plans[name]
		p.Violations = validator.Validate(p, contract)
		summary := validator.Summarize(p.Violations)
		fmt.Printf("%-35s %6.1f Dienste  %2d freie So  %d Fehler %d Warnungen\n",
			name, p.TotalDuties(), p.FreeSundays(), summary.Errors, summary.Warnings)
	}
	return nil
}
