package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dicemath_solves_total",
		Help: "Solve requests by outcome (found, none, timeout).",
	}, []string{"outcome"})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dicemath_solve_duration_seconds",
		Help:    "Time spent answering solve requests.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dicemath_answers_total",
		Help: "Submitted answers by result (correct, wrong, invalid).",
	}, []string{"result"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dicemath_sessions",
		Help: "Sessions currently held in memory.",
	})
)
