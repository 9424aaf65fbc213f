/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orchesterbuero/dienstplan/internal/roster"
	"github.com/orchesterbuero/dienstplan/internal/rules"
	"github.com/orchesterbuero/dienstplan/internal/server"
	"github.com/orchesterbuero/dienstplan/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validated plan over HTTP",
	Long:  "Compute and validate the plan once, then expose plan, violations and summary as a read-only JSON API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
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

	validator := rules.NewValidator(logger)
	plan.Violations = validator.Validate(plan, contract)
	summary := validator.Summarize(plan.Violations)
	telemetry.RecordValidation(plan.TotalDuties(), summary.Errors, summary.Warnings, summary.Infos)

	var ros *roster.Roster
	if rosterPath != "" {
		if ros, err = roster.Load(rosterPath); err != nil {
			return err
		}
	}

	srv, err := server.New(cfg, contract, plan, ros, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	httpServer := srv.HTTPServer()

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := srv.Close(); err != nil {
		logger.Error().Err(err).Msg("shutdown cleanup failed")
	}

	logger.Info().Msg("dienstplan stopped")
	return nil
}
