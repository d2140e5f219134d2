package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/tools"
)

func newTestRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r, err := tools.NewRegistry(quietLogger(), nil)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if s == nil || s.GetMCPServer() == nil {
		t.Fatal("NewServer() returned no MCP server")
	}

	// Shutdown before Run is a no-op
	s.Shutdown()
}

func waitRunning(t *testing.T, s *Server) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server did not start")
}

func TestServerRunStopsOnCancel(t *testing.T) {
	s, err := NewServer(newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	// stdin stays open, so only the context can stop the server
	in, w := io.Pipe()
	defer w.Close()
	s.SetStdio(in, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunWithContext(ctx) }()

	waitRunning(t, s)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunWithContext() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
	s.WaitForShutdown()
}

func TestServerRunStopsOnShutdown(t *testing.T) {
	s, err := NewServer(newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	in, w := io.Pipe()
	defer w.Close()
	s.SetStdio(in, io.Discard)

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	waitRunning(t, s)
	s.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestServerRunEndsAtEOF(t *testing.T) {
	s, err := NewServer(newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	s.SetStdio(strings.NewReader(""), io.Discard)

	if err := s.Run(); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))
	rec := serve(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health body %s", rec.Body.String())
	}
}

func TestHandler_Groups(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))

	tests := []struct {
		name     string
		target   string
		expected float64
	}{
		{"computing", "/footprint/computing?daily_online_hours=4&daily_phone_hours=2&new_light_devices=2&new_medium_devices=1&new_heavy_devices=1", 3.7304},
		{"diet", "/footprint/diet?daily_meat_g=126&daily_cheese_g=293.52&daily_milk_l=1&daily_eggs=1", 3.7827},
		{"vegan diet", "/footprint/diet", 1.0556},
		{"transportation", "/footprint/transportation?weekly_bus_rides=1&weekly_rail_rides=2&weekly_uber_rides=3&weekly_km_driven=4", 0.3571},
		{"travel", "/footprint/travel?annual_long_flights=6&annual_short_flights=4&annual_train_rides=24&annual_coach_rides=2&annual_hotel_spend=2000", 15.4034},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %s", ct)
			}

			var out tools.GroupOutput
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatal(err)
			}
			if got := footprint.Round(out.Tonnes, 4); got != tt.expected {
				t.Errorf("expected %v tonnes, got %v", tt.expected, got)
			}
		})
	}
}

func TestHandler_Activity(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))

	rec := serve(t, h, http.MethodGet, "/footprint/activity?activity=long_flights&quantity=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out tools.ActivityOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if got := footprint.Round(out.Tonnes, 4); got != 3.9916 {
		t.Errorf("expected 3.9916 tonnes, got %v", got)
	}
}

func TestHandler_Report(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))

	check := func(t *testing.T, rec *httptest.ResponseRecorder) {
		t.Helper()
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var out tools.ReportOutput
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatal(err)
		}
		if out.Rounded["travel"] != 0.499 {
			t.Errorf("expected travel 0.499, got %v", out.Rounded["travel"])
		}
		if out.Rounded["diet"] != 1.0556 {
			t.Errorf("expected vegan diet 1.0556, got %v", out.Rounded["diet"])
		}
	}

	t.Run("GET", func(t *testing.T) {
		check(t, serve(t, h, http.MethodGet, "/footprint/report?travel.annual_short_flights=1", ""))
	})
	t.Run("POST", func(t *testing.T) {
		check(t, serve(t, h, http.MethodPost, "/footprint/report", `{"travel":{"annual_short_flights":1}}`))
	})
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		status   int
		code     core.ErrorCode
		hasField string
	}{
		{"negative quantity", http.MethodGet, "/footprint/diet?daily_meat_g=-5", "", http.StatusBadRequest, core.ErrInvalidQuantity, "daily_meat_g"},
		{"not a number", http.MethodGet, "/footprint/travel?annual_long_flights=many", "", http.StatusBadRequest, core.ErrInvalidInput, ""},
		{"unknown activity", http.MethodGet, "/footprint/activity?activity=sailing&quantity=1", "", http.StatusBadRequest, core.ErrUnknownActivity, "activity"},
		{"unknown group", http.MethodGet, "/footprint/heating", "", http.StatusNotFound, core.ErrInvalidParameter, ""},
		{"bad JSON body", http.MethodPost, "/footprint/report", "{", http.StatusBadRequest, core.ErrInvalidInput, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}

			var mcpErr core.MCPError
			if err := json.Unmarshal(rec.Body.Bytes(), &mcpErr); err != nil {
				t.Fatalf("error body is not an MCPError: %v", err)
			}
			if mcpErr.Code != string(tt.code) {
				t.Errorf("expected code %s, got %s", tt.code, mcpErr.Code)
			}
			if tt.hasField != "" && mcpErr.Field != tt.hasField {
				t.Errorf("expected field %s, got %s", tt.hasField, mcpErr.Field)
			}
		})
	}
}

func TestHandler_NotFoundAndMethod(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))

	if rec := serve(t, h, http.MethodGet, "/emissions", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec := serve(t, h, http.MethodDelete, "/footprint/diet", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") == "" {
		t.Error("expected Allow header")
	}
}

func TestHandler_Coefficients(t *testing.T) {
	h := NewHandler(quietLogger(), newTestRegistry(t))

	rec := serve(t, h, http.MethodGet, "/coefficients?group=travel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out tools.CoefficientsOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Coefficients) == 0 {
		t.Fatal("expected travel coefficients")
	}
	for _, c := range out.Coefficients {
		if c.Group != footprint.GroupTravel {
			t.Errorf("coefficient %s is in group %s", c.Name, c.Group)
		}
	}
}

func TestQueryArguments(t *testing.T) {
	q := url.Values{
		"daily_meat_g":              {"25"},
		"activity":                  {"meat"},
		"diet.daily_eggs":           {"1"},
		"diet.daily_milk_l":         {"0.5"},
		"travel.annual_hotel_spend": {"300"},
	}

	expected := map[string]any{
		"daily_meat_g": 25.0,
		"activity":     "meat",
		"diet": map[string]any{
			"daily_eggs":   1.0,
			"daily_milk_l": 0.5,
		},
		"travel": map[string]any{
			"annual_hotel_spend": 300.0,
		},
	}

	if got := queryArguments(q); !reflect.DeepEqual(got, expected) {
		t.Errorf("queryArguments() = %v, want %v", got, expected)
	}
}
