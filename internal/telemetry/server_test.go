package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHandlerServesRegisteredCollectors(t *testing.T) {
	s := NewServer(":0", log.New(io.Discard))

	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flappy_test_hits_total",
		Help: "Test counter.",
	})
	s.Registry().MustRegister(hits)
	hits.Add(3)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"flappy_test_hits_total 3", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestHealthz(t *testing.T) {
	s := NewServer(":0", log.New(io.Discard))

	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
