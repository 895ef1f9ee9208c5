package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the auth counters exported on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	Logins    *prometheus.CounterVec
	Refreshes *prometheus.CounterVec
}

// NewMetrics builds a dedicated registry with process/Go collectors plus
// the auth outcome counters. A dedicated registry keeps tests hermetic.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parley",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by result (success, unauthenticated, error).",
	}, []string{"result"})

	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parley",
		Subsystem: "auth",
		Name:      "token_refresh_total",
		Help:      "Token refresh decisions by outcome (refreshed, not_needed, invalid).",
	}, []string{"outcome"})

	reg.MustRegister(logins, refreshes)

	return &Metrics{
		Registry:  reg,
		Logins:    logins,
		Refreshes: refreshes,
	}
}

// ObserveLogin counts one login attempt with the given result label.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// ObserveRefresh counts one token refresh decision with the given outcome label.
func (m *Metrics) ObserveRefresh(outcome string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
}
