/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orchesterbuero/dienstplan/internal/export"
	"github.com/orchesterbuero/dienstplan/internal/individual"
	"github.com/orchesterbuero/dienstplan/internal/roster"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a duty plan as iCalendar",
	Long:  "Render the collective plan, or one musician's individual plan, as an .ics file",
	RunE:  runExport,
}

var (
	exportOut      string
	exportMusician string
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: generated name in the working directory)")
	exportCmd.Flags().StringVar(&exportMusician, "musician", "", "export this musician's individual plan instead of the collective one")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	contract, err := loadContract()
	if err != nil {
		return err
	}
	_, plan, err := loadPlan(contract)
	if err != nil {
		return err
	}

	if exportMusician != "" {
		if rosterPath == "" {
			return fmt.Errorf("--musician requires --roster")
		}
		ros, err := roster.Load(rosterPath)
		if err != nil {
			return err
		}
		musician := ros.Find(exportMusician)
		if musician == nil {
			return fmt.Errorf("musician %q not in roster", exportMusician)
		}
		plan = individual.Filter(plan, musician, contract)
	}

	result := export.ToICal(plan)
	out := exportOut
	if out == "" {
		out = result.Filename
	}
	if err := os.WriteFile(out, result.Data, 0644); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	logger.Info().Str("file", out).Int("bytes", len(result.Data)).Msg("calendar written")
	return nil
}
