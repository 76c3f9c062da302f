package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tpreviews/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("trustpilot", "feed", 200, 30*time.Millisecond)
	observability.ObserveFeedLoad("ok")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"tpreviews_http_requests_total",
		"tpreviews_external_requests_total",
		`tpreviews_feed_loads_total{result="ok"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if l := observability.NewLogger("prod", "debug"); l.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %s", l.GetLevel())
	}
	if l := observability.NewLogger("dev", "bogus"); l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", l.GetLevel())
	}
	if l := observability.NewLogger("prod", ""); l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %s", l.GetLevel())
	}
}
