/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the computed duty plan over HTTP. The surface is
// read-only: plans are computed at startup (or per request from the store)
// and the API only serves results.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/export"
	"github.com/orchesterbuero/dienstplan/internal/individual"
	"github.com/orchesterbuero/dienstplan/internal/models"
	"github.com/orchesterbuero/dienstplan/internal/roster"
	"github.com/orchesterbuero/dienstplan/internal/rules"
	"github.com/orchesterbuero/dienstplan/internal/store"
)

// API exposes HTTP handlers for a validated plan.
type API struct {
	plan      *models.Plan
	contract  *config.Contract
	validator *rules.Validator
	store     *store.Store
	roster    *roster.Roster
	logger    zerolog.Logger
}

// New creates the API. store and roster may be nil; the corresponding
// endpoints then answer 404.
func New(plan *models.Plan, contract *config.Contract, validator *rules.Validator, st *store.Store, ros *roster.Roster, logger zerolog.Logger) *API {
	return &API{
		plan:      plan,
		contract:  contract,
		validator: validator,
		store:     st,
		roster:    ros,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Routes mounts all endpoints on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plan", a.handlePlan)
		r.Get("/plan/weeks/{week}", a.handleWeek)
		r.Get("/plan/export.ics", a.handleExport)
		r.Get("/violations", a.handleViolations)
		r.Get("/summary", a.handleSummary)
		r.Get("/musicians", a.handleMusicians)
		r.Get("/musicians/{name}/plan", a.handleIndividualPlan)
		r.Get("/runs/latest", a.handleLatestRun)
	})
}

type dutyResponse struct {
	Date        string         `json:"date"`
	Count       float64        `json:"count"`
	IsFree      bool           `json:"is_free"`
	IsHoliday   bool           `json:"is_holiday"`
	HolidayName string         `json:"holiday_name,omitempty"`
	PrimaryType string         `json:"primary_type,omitempty"`
	Summary     string         `json:"summary"`
	Notes       string         `json:"notes,omitempty"`
	Events      []models.Event `json:"events,omitempty"`
}

type weekResponse struct {
	WeekNumber  int            `json:"week_number"`
	Year        int            `json:"year"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	TotalDuties float64        `json:"total_duties"`
	FreeDays    int            `json:"free_days"`
	SundayFree  bool           `json:"sunday_free"`
	Status      string         `json:"status"`
	Duties      []dutyResponse `json:"duties"`
}

type planResponse struct {
	Orchestra string         `json:"orchestra"`
	Mode      string         `json:"mode"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Weeks     []weekResponse `json:"weeks"`
}

func (a *API) handlePlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.planResponse(a.plan))
}

func (a *API) handleWeek(w http.ResponseWriter, r *http.Request) {
	week := chi.URLParam(r, "week")
	for i := range a.plan.Weeks {
		resp := a.weekResponse(&a.plan.Weeks[i])
		if week == weekParam(resp.Year, resp.WeekNumber) {
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	writeError(w, http.StatusNotFound, "week_not_found")
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	result := export.ToICal(a.plan)
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

type violationResponse struct {
	RuleID        string   `json:"rule_id"`
	RuleName      string   `json:"rule_name"`
	Severity      string   `json:"severity"`
	Message       string   `json:"message"`
	Paragraph     string   `json:"paragraph,omitempty"`
	AffectedDates []string `json:"affected_dates,omitempty"`
	AffectedWeek  int      `json:"affected_week,omitempty"`
	CurrentValue  float64  `json:"current_value,omitempty"`
	LimitValue    float64  `json:"limit_value,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
}

func (a *API) handleViolations(w http.ResponseWriter, r *http.Request) {
	resp := make([]violationResponse, 0, len(a.plan.Violations))
	for _, v := range a.plan.Violations {
		resp = append(resp, toViolationResponse(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":    models.Summarize(a.plan.Violations),
		"violations": resp,
	})
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	byType := map[string]int{}
	for t, n := range a.plan.DutiesByType() {
		byType[string(t)] = n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orchestra":           a.plan.OrchestraName,
		"mode":                a.contract.ModeLabel(),
		"weeks":               len(a.plan.Weeks),
		"total_duties":        a.plan.TotalDuties(),
		"avg_duties_per_week": a.plan.AvgDutiesPerWeek(),
		"free_sundays":        a.plan.FreeSundays(),
		"free_days":           a.plan.TotalFreeDays(),
		"weeks_with_errors":   a.plan.WeeksWithErrors(a.contract.MaxWeeklyDuties()),
		"duties_by_type":      byType,
		"violations":          models.Summarize(a.plan.Violations),
	})
}

func (a *API) handleMusicians(w http.ResponseWriter, r *http.Request) {
	if a.roster == nil {
		writeError(w, http.StatusNotFound, "roster_not_loaded")
		return
	}
	type entry struct {
		Name     string `json:"name"`
		Position string `json:"position"`
		Register string `json:"register"`
		Section  string `json:"section"`
		Vacant   bool   `json:"vacant"`
	}
	var resp []entry
	for _, m := range a.roster.Active() {
		resp = append(resp, entry{
			Name:     m.DisplayName(),
			Position: m.Position,
			Register: m.Register,
			Section:  m.Section,
			Vacant:   m.IsVacant(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"musicians": resp})
}

func (a *API) handleIndividualPlan(w http.ResponseWriter, r *http.Request) {
	if a.roster == nil {
		writeError(w, http.StatusNotFound, "roster_not_loaded")
		return
	}
	name := chi.URLParam(r, "name")
	musician := a.roster.Find(name)
	if musician == nil {
		writeError(w, http.StatusNotFound, "musician_not_found")
		return
	}
	plan := individual.Filter(a.plan, musician, a.contract)
	plan.Violations = a.validator.Validate(plan, a.contract)
	writeJSON(w, http.StatusOK, a.planResponse(plan))
}

func (a *API) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusNotFound, "store_not_configured")
		return
	}
	run, err := a.store.LatestRun()
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "no_runs")
			return
		}
		a.logger.Error().Err(err).Msg("load latest run")
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	violations, err := a.store.RunViolations(run.ID)
	if err != nil {
		a.logger.Error().Err(err).Msg("load run violations")
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	resp := make([]violationResponse, 0, len(violations))
	for _, v := range violations {
		resp = append(resp, toViolationResponse(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run":        run,
		"violations": resp,
	})
}

func (a *API) planResponse(p *models.Plan) planResponse {
	resp := planResponse{
		Orchestra: p.OrchestraName,
		Mode:      a.contract.ModeLabel(),
		Start:     p.Start.Format("2006-01-02"),
		End:       p.End.Format("2006-01-02"),
	}
	for i := range p.Weeks {
		resp.Weeks = append(resp.Weeks, a.weekResponse(&p.Weeks[i]))
	}
	return resp
}

func (a *API) weekResponse(week *models.PlanWeek) weekResponse {
	resp := weekResponse{
		WeekNumber:  week.WeekNumber,
		Year:        week.Year,
		StartDate:   week.StartDate.Format("2006-01-02"),
		EndDate:     week.EndDate.Format("2006-01-02"),
		TotalDuties: week.TotalDuties(),
		FreeDays:    week.FreeDaysCount(),
		SundayFree:  week.IsSundayFree(),
		Status:      string(week.Status(a.contract.MaxWeeklyDuties())),
	}
	for _, d := range week.Duties {
		resp.Duties = append(resp.Duties, dutyResponse{
			Date:        d.Date.Format("2006-01-02"),
			Count:       d.Count,
			IsFree:      d.IsFree,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
			PrimaryType: string(d.PrimaryType()),
			Summary:     d.Summary(),
			Notes:       d.Notes,
			Events:      d.Events,
		})
	}
	return resp
}

func toViolationResponse(v models.Violation) violationResponse {
	resp := violationResponse{
		RuleID:       v.RuleID,
		RuleName:     v.RuleName,
		Severity:     string(v.Severity),
		Message:      v.Message,
		Paragraph:    v.Paragraph,
		AffectedWeek: v.AffectedWeek,
		CurrentValue: v.CurrentValue,
		LimitValue:   v.LimitValue,
		Suggestion:   v.Suggestion,
	}
	for _, d := range v.AffectedDates {
		resp.AffectedDates = append(resp.AffectedDates, d.Format("2006-01-02"))
	}
	return resp
}

func weekParam(year, week int) string {
	return fmt.Sprintf("%d-%02d", year, week)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
