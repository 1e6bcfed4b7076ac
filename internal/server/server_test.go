package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/observability"
	"github.com/julianstephens/tachoplan/internal/planner"
)

func newTestRouter(t *testing.T) (http.Handler, *observability.PlanCollector) {
	t.Helper()
	collector, err := observability.NewPlanCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewPlanCollector: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	return NewRouter(planner.New(settings, nil), collector), collector
}

func TestPlanEndpoint(t *testing.T) {
	router, collector := newTestRouter(t)

	body := `{"distance_km": 1600, "speed_kmh": 80, "start_time": "2023-01-01T00:00:00Z"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/trips/plan", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp PlanResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Segments) != 3 || len(resp.Rests) != 2 {
		t.Fatalf("got %d segments and %d rests, want 3 and 2", len(resp.Segments), len(resp.Rests))
	}
	want := time.Date(2023, 1, 2, 19, 30, 0, 0, time.UTC)
	if !resp.FinalTime.Equal(want) {
		t.Errorf("final time = %v, want %v", resp.FinalTime, want)
	}
	if resp.TotalDisplay != "43h 30m" {
		t.Errorf("total display = %q", resp.TotalDisplay)
	}
	if resp.Input.DistanceKm != 1600 {
		t.Errorf("echoed input distance = %v", resp.Input.DistanceKm)
	}

	if got := testutil.ToFloat64(collector.Requests.WithLabelValues(observability.ResultOK)); got != 1 {
		t.Errorf("ok requests = %v, want 1", got)
	}
}

func TestPlanEndpointForcedRest(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"distance_km": 1600, "speed_kmh": 80, "start_time": "2023-01-01T00:00:00Z", "forced_rests": [1]}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/trips/plan", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp PlanResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rests[0].Duration != 9 {
		t.Errorf("first rest = %vh, want 9h", resp.Rests[0].Duration)
	}
	if resp.TotalHours != 41.5 {
		t.Errorf("total hours = %v, want 41.5", resp.TotalHours)
	}
}

func TestPlanEndpointRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, `{"distance_km":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"distance_km": 100, "speed_kmh": 80, "colour": "red"}`, http.StatusBadRequest},
		{"two objects", http.MethodPost, `{"distance_km": 100, "speed_kmh": 80}{}`, http.StatusBadRequest},
		{"zero distance", http.MethodPost, `{"distance_km": 0, "speed_kmh": 80}`, http.StatusBadRequest},
		{"bad driver", http.MethodPost, `{"distance_km": 100, "speed_kmh": 80, "driver_type": "three"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/v1/trips/plan", strings.NewReader(tt.body)))

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp["error"] == "" {
				t.Error("error body has no message")
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router, collector := newTestRouter(t)
	collector.ObservePlan(observability.ResultInvalid, time.Millisecond, 0)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `tachoplan_plan_requests_total{result="invalid"} 1`) {
		t.Errorf("metrics output missing invalid counter:\n%s", rr.Body.String())
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	router, _ := newTestRouter(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := New(ln.Addr().String(), router)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
