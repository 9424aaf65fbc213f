/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server bundles the HTTP surface: router, middleware, health and
// metrics endpoints, and the plan API.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/orchesterbuero/dienstplan/internal/api"
	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/db"
	"github.com/orchesterbuero/dienstplan/internal/models"
	"github.com/orchesterbuero/dienstplan/internal/roster"
	"github.com/orchesterbuero/dienstplan/internal/rules"
	"github.com/orchesterbuero/dienstplan/internal/store"
	"github.com/orchesterbuero/dienstplan/internal/telemetry"
)

// Server wires the HTTP stack around a validated plan.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server

	db      *gorm.DB
	closers []func() error
}

// New constructs the server. plan must already be validated; ros may be nil
// when no roster file is configured.
func New(cfg *config.Config, contract *config.Contract, plan *models.Plan, ros *roster.Roster, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	var st *store.Store
	if cfg.DBPath != "" {
		database, err := db.Connect(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(database); err != nil {
			return nil, err
		}
		srv.db = database
		srv.DeferClose(func() error { return db.Close(database) })
		st = store.New(database, logger)
	}

	validator := rules.NewValidator(logger)
	planAPI := api.New(plan, contract, validator, st, ros, logger)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", telemetry.Handler())
	planAPI.Routes(router)

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
