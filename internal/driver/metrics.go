package driver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricStatement = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecdb_statement_duration_seconds",
			Help:    "Statement execution duration.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.100, 0.5, 1, 5},
		},
		[]string{
			"dialect",
			"op",     // select, insert, modify, delete, ddl
			"result", // ok, error
		},
	)
	metricRowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecdb_rows_fetched_total",
			Help: "Number of rows returned by select statements.",
		},
		[]string{"dialect"},
	)
)
