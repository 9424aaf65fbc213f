/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orchesterbuero/dienstplan/internal/db"
	"github.com/orchesterbuero/dienstplan/internal/models"
	"github.com/orchesterbuero/dienstplan/internal/rules"
	"github.com/orchesterbuero/dienstplan/internal/store"
	"github.com/orchesterbuero/dienstplan/internal/telemetry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a season plan",
	Long:  "Compute duty values for a season plan and report every rule violation",
	RunE:  runValidate,
}

var validateSave bool

func init() {
	validateCmd.Flags().BoolVar(&validateSave, "save", false, "persist events and the validation run to the database")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	contract, err := loadContract()
	if err != nil {
		return err
	}
	pf, plan, err := loadPlan(contract)
	if err != nil {
		return err
	}

	validator := rules.NewValidator(logger)
	plan.Violations = validator.Validate(plan, contract)
	summary := validator.Summarize(plan.Violations)
	telemetry.RecordValidation(plan.TotalDuties(), summary.Errors, summary.Warnings, summary.Infos)

	printReport(plan, contract.ModeLabel(), contract.MaxWeeklyDuties(), summary)

	if validateSave {
		if cfg.DBPath == "" {
			return fmt.Errorf("--save requires DIENSTPLAN_DB_PATH")
		}
		runID, err := persistRun(pf.Orchestra, plan, contract.ModeLabel())
		if err != nil {
			return err
		}
		logger.Info().Str("run_id", runID).Msg("validation run saved")
	}

	if summary.Errors > 0 {
		return fmt.Errorf("%d rule violation(s) with severity FEHLER", summary.Errors)
	}
	return nil
}

func printReport(plan *models.Plan, mode string, maxWeekly float64, summary models.ViolationSummary) {
	fmt.Printf("Dienstplan %s (%s)\n", plan.OrchestraName, mode)
	fmt.Printf("Zeitraum: %s bis %s, %d Wochen\n",
		plan.Start.Format("02.01.2006"), plan.End.Format("02.01.2006"), len(plan.Weeks))
	fmt.Printf("Dienste gesamt: %g (Ø %.2f pro Woche), freie Sonntage: %d\n\n",
		plan.TotalDuties(), plan.AvgDutiesPerWeek(), plan.FreeSundays())

	for i := range plan.Weeks {
		week := &plan.Weeks[i]
		fmt.Printf("KW %02d/%d  %s - %s  %5.1f Dienste  [%s]\n",
			week.WeekNumber, week.Year,
			week.StartDate.Format("02.01."), week.EndDate.Format("02.01."),
			week.TotalDuties(), week.Status(maxWeekly))
	}
	fmt.Println()

	if len(plan.Violations) == 0 {
		fmt.Println("Keine Regelverstöße.")
		return
	}
	for _, v := range plan.Violations {
		fmt.Printf("[%s] %s: %s\n", v.Severity.Label(), v.RuleName, v.Message)
		if v.Suggestion != "" {
			fmt.Printf("         → %s\n", v.Suggestion)
		}
	}
	fmt.Printf("\n%d Befunde: %d Fehler, %d Warnungen, %d Hinweise\n",
		summary.Total, summary.Errors, summary.Warnings, summary.Infos)
}

func persistRun(orchestra string, plan *models.Plan, mode string) (string, error) {
	database, err := db.Connect(cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close(database) }()
	if err := db.Migrate(database); err != nil {
		return "", err
	}

	st := store.New(database, logger)
	seasonID, err := st.CreateSeason(orchestra, plan.Start, plan.End)
	if err != nil {
		return "", err
	}
	if err := st.SaveEvents(seasonID, planEvents(plan)); err != nil {
		return "", err
	}
	return st.SaveRun(seasonID, plan, mode, plan.Violations)
}

func planEvents(plan *models.Plan) []models.Event {
	var events []models.Event
	for _, d := range plan.AllDuties() {
		events = append(events, d.Events...)
	}
	return events
}
