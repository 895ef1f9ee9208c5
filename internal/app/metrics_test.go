package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetrics_ObserveAndExpose(t *testing.T) {
	m := NewMetrics()

	m.ObserveLogin("success")
	m.ObserveLogin("success")
	m.ObserveLogin("unauthenticated")
	m.ObserveRefresh("refreshed")
	m.ObserveRefresh("not_needed")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		`parley_auth_logins_total{result="success"} 2`,
		`parley_auth_logins_total{result="unauthenticated"} 1`,
		`parley_auth_token_refresh_total{outcome="refreshed"} 1`,
		`parley_auth_token_refresh_total{outcome="not_needed"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveLogin("success")
	m.ObserveRefresh("refreshed")
}
