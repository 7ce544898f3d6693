// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Calculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kudicore",
		Name:      "calculations_total",
		Help:      "Tax calculations served, by tax type.",
	}, []string{"tax_type"})

	ExchangeRateFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kudicore",
		Name:      "exchange_rate_fallbacks_total",
		Help:      "Rate refreshes that fell back to the static table, by currency.",
	}, []string{"currency"})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kudicore",
		Name:      "tool_calls_total",
		Help:      "Tool executions, by tool and outcome.",
	}, []string{"tool", "status"})
)
