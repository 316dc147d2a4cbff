package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	draftFlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_flushes_total",
			Help: "Draft flushes by backing store and outcome",
		},
		[]string{"target", "result"},
	)

	draftSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_submissions_total",
			Help: "Draft submissions by content type and outcome",
		},
		[]string{"content_type", "result"},
	)

	activeDraftSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "draft_sessions_active",
			Help: "Number of in-memory draft sessions",
		},
	)
)
