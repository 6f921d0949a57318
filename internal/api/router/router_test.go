package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apexpest/crm-platform/internal/http/handlers"
)

func testRouter() http.Handler {
	reg := prometheus.NewRegistry()
	return New(&Config{
		RetellWebhook: handlers.NewRetellWebhookHandler(handlers.RetellWebhookConfig{
			Secret: "whsec_test",
		}),
		WebhookRateLimit:  2,
		WebhookRateWindow: time.Minute,
		MetricsHandler:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWebhookRouteWired(t *testing.T) {
	r := testRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/retell/inbound", strings.NewReader("{}"))
	r.ServeHTTP(rec, req)

	// Unsigned request reaching the handler proves the route is wired.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookRouteRateLimited(t *testing.T) {
	r := testRouter()

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/retell/inbound", strings.NewReader("{}"))
		req.Header.Set("X-Real-Ip", "3.3.3.3")
		r.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last)
	}
}
