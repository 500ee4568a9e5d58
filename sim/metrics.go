// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the solver metrics
type Metrics struct {
	Solves     *prometheus.CounterVec   // solves by stage and status
	Duration   *prometheus.HistogramVec // solve duration by stage
	Iterations *prometheus.HistogramVec // Newton iterations per block by stage
	Unknowns   prometheus.Gauge         // unknowns of the last solve
}

// NewMetrics creates the metrics and registers them with reg; nil reg => not registered
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Solves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cats_solves_total",
			Help: "Total solves by stage and status",
		}, []string{"stage", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cats_solve_duration_seconds",
			Help:    "Solve duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"stage"}),
		Iterations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cats_newton_iterations",
			Help:    "Number of nonlinear iterations per block",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		}, []string{"stage"}),
		Unknowns: f.NewGauge(prometheus.GaugeOpts{
			Name: "cats_solve_unknowns",
			Help: "Number of unknowns of the last solve",
		}),
	}
}
