package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	PathClient  = "client"
	PathGateway = "gateway"

	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
	OutcomeIgnored   = "ignored"
)

var (
	TicketIssuance = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_issuance_total",
			Help: "Issuance attempts per trigger path and outcome",
		},
		[]string{"path", "outcome"},
	)

	SignatureRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_signature_rejections_total",
			Help: "Triggers rejected for an invalid signature",
		},
		[]string{"path"},
	)

	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_checkins_total",
			Help: "Gate check-in outcomes per day",
		},
		[]string{"day", "outcome"},
	)

	Dispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_dispatch_total",
			Help: "Ticket notification dispatch results",
		},
		[]string{"result"},
	)

	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketing_dispatch_queue_depth",
			Help: "Notifications waiting in the dispatch queue",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketing_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
