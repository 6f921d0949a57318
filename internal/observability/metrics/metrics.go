package metrics

import "github.com/prometheus/client_golang/prometheus"

// TelephonyMetrics exposes counters/histograms for inbound call webhooks.
type TelephonyMetrics struct {
	webhookTotal   *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
	leadsCreated   prometheus.Counter
}

func NewTelephonyMetrics(reg prometheus.Registerer) *TelephonyMetrics {
	m := &TelephonyMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pestcrm",
			Subsystem: "telephony",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound Retell webhooks",
		}, []string{"event_type", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pestcrm",
			Subsystem: "telephony",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of Retell webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
		leadsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pestcrm",
			Subsystem: "telephony",
			Name:      "leads_created_total",
			Help:      "Leads opened from inbound calls",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.webhookLatency, m.leadsCreated)
	return m
}

func (m *TelephonyMetrics) ObserveWebhook(eventType, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(eventType, status).Inc()
}

func (m *TelephonyMetrics) ObserveWebhookLatency(eventType string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(eventType).Observe(seconds)
}

func (m *TelephonyMetrics) ObserveLeadCreated() {
	if m == nil {
		return
	}
	m.leadsCreated.Inc()
}
