package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DependencyUp is 1 when the last check of a dependency returned OK, 0 otherwise
	DependencyUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orthanc_health_dependency_up",
			Help: "Whether the last check of the dependency succeeded",
		},
		[]string{"dependency"},
	)

	// CheckDuration tracks the latency of each dependency check
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orthanc_health_check_duration_seconds",
			Help:    "Dependency check latency in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 3, 5, 10},
		},
		[]string{"dependency"},
	)

	// ReportsTotal counts health reports by overall status
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orthanc_health_reports_total",
			Help: "Total number of health reports computed",
		},
		[]string{"status"},
	)
)
