package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fitbot",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	repliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbot",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Replies generated, by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	replyFirstByte = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fitbot",
			Subsystem: "chat",
			Name:      "reply_first_byte_seconds",
			Help:      "Time until the first reply byte was written",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"backend"},
	)

	replyBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbot",
			Subsystem: "chat",
			Name:      "reply_bytes_total",
			Help:      "Reply bytes streamed to clients",
		},
		[]string{"backend"},
	)
)

const (
	outcomeComplete = "complete"
	outcomeFailed   = "failed"
	outcomeCanceled = "canceled"
	outcomeRejected = "rejected"
)
