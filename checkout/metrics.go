/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Global metrics with consistent dimensions
	checkoutCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simplegit_checkouts_total",
			Help: "Total number of completed checkouts by terminal status",
		},
		[]string{"status"},
	)

	attemptCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simplegit_checkout_attempts_total",
			Help: "Total number of reconciliation attempts, including retries",
		},
	)

	wipeCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simplegit_workspace_wipes_total",
			Help: "Total number of workspace content deletions",
		},
	)

	durationHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simplegit_checkout_duration_seconds",
			Help:    "Time taken to reconcile a workspace end to end",
			Buckets: prometheus.DefBuckets,
		},
	)
)
