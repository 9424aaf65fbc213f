/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/db"
	"github.com/orchesterbuero/dienstplan/internal/duty"
	"github.com/orchesterbuero/dienstplan/internal/models"
	"github.com/orchesterbuero/dienstplan/internal/planfile"
	"github.com/orchesterbuero/dienstplan/internal/rules"
	"github.com/orchesterbuero/dienstplan/internal/server"
	"github.com/orchesterbuero/dienstplan/internal/store"
)

const planYAML = `
orchester: Testorchester
bundesland: SN
von: 2026-09-07
bis: 2026-09-13
termine:
  - datum: 2026-09-07
    beginn: "10:00"
    ende: "12:30"
    art: Probe
    besetzung: Tutti
    programm: Sinfonie Nr. 5
  - datum: 2026-09-12
    beginn: "19:30"
    ende: "22:00"
    art: Konzert
    besetzung: Tutti
    programm: Sinfoniekonzert
    ort: Stadthalle
  - datum: 2026-09-09
    art: Frei
    besetzung: Tutti
`

// buildPlan parses the plan file, computes duties and validates, the same
// path the serve command takes.
func buildPlan(t *testing.T) (*models.Plan, *config.Contract) {
	t.Helper()

	contract := config.DefaultContract()
	pf, err := planfile.Parse([]byte(planYAML))
	if err != nil {
		t.Fatalf("parse plan file: %v", err)
	}
	contract.Orchestra.State = pf.State

	duties := duty.CalculateRange(pf.Events, contract, pf.Start, pf.End)
	plan := models.NewPlan(pf.Orchestra, duties, pf.Start, pf.End)

	validator := rules.NewValidator(zerolog.Nop())
	plan.Violations = validator.Validate(plan, contract)
	return plan, contract
}

// seedRun persists one validation run into the database file the server
// will open, so /api/v1/runs/latest has something to return.
func seedRun(t *testing.T, dbPath string, plan *models.Plan, contract *config.Contract) {
	t.Helper()

	database, err := db.Connect(dbPath)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(database, zerolog.Nop())
	seasonID, err := st.CreateSeason(plan.OrchestraName, plan.Start, plan.End)
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	if _, err := st.SaveRun(seasonID, plan, contract.ModeLabel(), plan.Violations); err != nil {
		t.Fatalf("save run: %v", err)
	}
}

func getJSON(t *testing.T, client *http.Client, url string, out any) int {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestServerEndToEnd(t *testing.T) {
	plan, contract := buildPlan(t)
	dbPath := filepath.Join(t.TempDir(), "dienstplan.db")
	seedRun(t, dbPath, plan, contract)

	cfg := &config.Config{
		Environment: "test",
		HTTPBind:    "127.0.0.1",
		HTTPPort:    0,
		DBPath:      dbPath,
	}
	srv, err := server.New(cfg, contract, plan, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	defer srv.Close()

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()
	client := ts.Client()

	t.Run("healthz", func(t *testing.T) {
		var body map[string]string
		if status := getJSON(t, client, ts.URL+"/healthz", &body); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if body["status"] != "ok" {
			t.Fatalf("status field = %q, want ok", body["status"])
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("plan", func(t *testing.T) {
		var body struct {
			Orchestra string `json:"orchestra"`
			Mode      string `json:"mode"`
			Weeks     []struct {
				WeekNumber int `json:"week_number"`
				Duties     []struct {
					Date   string  `json:"date"`
					Count  float64 `json:"count"`
					IsFree bool    `json:"is_free"`
				} `json:"duties"`
			} `json:"weeks"`
		}
		if status := getJSON(t, client, ts.URL+"/api/v1/plan", &body); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if body.Orchestra != "Testorchester" {
			t.Fatalf("orchestra = %q", body.Orchestra)
		}
		if body.Mode != contract.ModeLabel() {
			t.Fatalf("mode = %q, want %q", body.Mode, contract.ModeLabel())
		}
		if len(body.Weeks) != 1 {
			t.Fatalf("weeks = %d, want 1", len(body.Weeks))
		}
		if got := len(body.Weeks[0].Duties); got != 7 {
			t.Fatalf("duties = %d, want 7", got)
		}
		var free bool
		for _, d := range body.Weeks[0].Duties {
			if d.Date == "2026-09-09" {
				free = d.IsFree
			}
		}
		if !free {
			t.Fatalf("expected 2026-09-09 to be free")
		}
	})

	t.Run("week lookup", func(t *testing.T) {
		if status := getJSON(t, client, ts.URL+"/api/v1/plan/weeks/2026-37", nil); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if status := getJSON(t, client, ts.URL+"/api/v1/plan/weeks/2026-01", nil); status != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", status)
		}
	})

	t.Run("summary", func(t *testing.T) {
		var body map[string]any
		if status := getJSON(t, client, ts.URL+"/api/v1/summary", &body); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if body["orchestra"] != "Testorchester" {
			t.Fatalf("orchestra = %v", body["orchestra"])
		}
	})

	t.Run("export", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/v1/plan/export.ics")
		if err != nil {
			t.Fatalf("GET export: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/calendar") {
			t.Fatalf("content type = %q", ct)
		}
	})

	t.Run("latest run", func(t *testing.T) {
		var body struct {
			Run struct {
				Mode        string  `json:"Mode"`
				TotalDuties float64 `json:"TotalDuties"`
			} `json:"run"`
		}
		if status := getJSON(t, client, ts.URL+"/api/v1/runs/latest", &body); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if body.Run.Mode != contract.ModeLabel() {
			t.Fatalf("mode = %q, want %q", body.Run.Mode, contract.ModeLabel())
		}
		if body.Run.TotalDuties != plan.TotalDuties() {
			t.Fatalf("total duties = %v, want %v", body.Run.TotalDuties, plan.TotalDuties())
		}
	})

	t.Run("musicians without roster", func(t *testing.T) {
		if status := getJSON(t, client, ts.URL+"/api/v1/musicians", nil); status != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", status)
		}
	})
}
