// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the bot. Metrics are registered against an injectable Registerer so
// tests can use a private registry (or none at all).
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors shared across the application.
// A single instance is created at startup and handed to the router, the
// Beckn client, and the provider chain via the service registry.
type Metrics struct {
	MessagesReceived  *prometheus.CounterVec
	MessagesProcessed *prometheus.CounterVec
	ProcessingSeconds *prometheus.HistogramVec
	BecknRequests     *prometheus.CounterVec
	BecknSeconds      *prometheus.HistogramVec
	ProviderRequests  *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge
	TradesExecuted    *prometheus.CounterVec
	EnergyTradedKWh   *prometheus.CounterVec
	NFTsMinted        *prometheus.CounterVec
}

// Outcome labels for MessagesProcessed.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeDropped  = "dropped"
	OutcomeFiltered = "filtered"
)

// NewMetrics creates the collector set and registers it with reg.
// A nil reg leaves the collectors unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_messages_received_total",
				Help: "Inbound messages accepted by the router.",
			},
			[]string{"channel"},
		),
		MessagesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_messages_processed_total",
				Help: "Messages that completed the pipeline, by outcome.",
			},
			[]string{"channel", "outcome"},
		),
		ProcessingSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solarbot_message_processing_seconds",
				Help:    "Wall time spent handling a single message.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"channel"},
		),
		BecknRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_beckn_requests_total",
				Help: "Beckn gateway calls, by domain, action, and outcome.",
			},
			[]string{"domain", "action", "outcome"},
		),
		BecknSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solarbot_beckn_request_seconds",
				Help:    "Beckn gateway round-trip time.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"domain", "action"},
		),
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_provider_requests_total",
				Help: "LLM provider calls, by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "solarbot_sessions_active",
				Help: "Sessions currently held in the store.",
			},
		),
		TradesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_trades_executed_total",
				Help: "Energy trades confirmed on the network, by mode.",
			},
			[]string{"mode"},
		),
		EnergyTradedKWh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_energy_traded_kwh_total",
				Help: "Total kWh moved through executed trades, by mode.",
			},
			[]string{"mode"},
		),
		NFTsMinted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarbot_nfts_minted_total",
				Help: "Energy tokens minted, by token type.",
			},
			[]string{"type"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.MessagesReceived,
			m.MessagesProcessed,
			m.ProcessingSeconds,
			m.BecknRequests,
			m.BecknSeconds,
			m.ProviderRequests,
			m.ActiveSessions,
			m.TradesExecuted,
			m.EnergyTradedKWh,
			m.NFTsMinted,
		)
	}

	return m
}
