package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTelephonyMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTelephonyMetrics(reg)
	m.ObserveWebhook("call_started", "ok")
	m.ObserveWebhookLatency("call_started", 0.25)
	m.ObserveLeadCreated()
}

func TestTelephonyMetricsNilSafe(t *testing.T) {
	var m *TelephonyMetrics
	m.ObserveWebhook("event", "status")
	m.ObserveWebhookLatency("event", 0.1)
	m.ObserveLeadCreated()
}
