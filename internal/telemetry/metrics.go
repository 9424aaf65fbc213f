/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry exposes Prometheus metrics for the validation service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	// ValidationsTotal counts completed validation runs.
	ValidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dienstplan_validations_total",
		Help: "Total number of plan validations performed.",
	})

	// ViolationsTotal counts findings by severity.
	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dienstplan_violations_total",
		Help: "Total number of rule violations found, by severity.",
	}, []string{"severity"})

	// PlanDuties observes the total duty value of validated plans.
	PlanDuties = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dienstplan_plan_duties",
		Help:    "Total duty value of validated plans.",
		Buckets: prometheus.LinearBuckets(0, 25, 12),
	})
)

// RecordValidation updates all validation metrics for one run.
func RecordValidation(totalDuties float64, errors, warnings, infos int) {
	ValidationsTotal.Inc()
	PlanDuties.Observe(totalDuties)
	ViolationsTotal.WithLabelValues("error").Add(float64(errors))
	ViolationsTotal.WithLabelValues("warning").Add(float64(warnings))
	ViolationsTotal.WithLabelValues("info").Add(float64(infos))
}
