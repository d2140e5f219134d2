package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// freeAddr returns a loopback address with a port that was free a moment ago
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

// waitForEndpoint polls the given URL until it returns 200 OK or timeout
func waitForEndpoint(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url) // #nosec G107 -- test helper
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("endpoint %s did not become ready", url)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) // #nosec G107 -- test request
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestRunHTTPOnly(t *testing.T) {
	httpAddr := freeAddr(t)
	monitoringAddr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx, []string{
			"--enable-http",
			"--http-only",
			"--http-addr", httpAddr,
			"--monitoring-addr", monitoringAddr,
			"--self-check-interval", "1h",
		}, io.Discard, io.Discard)
	}()

	base := "http://" + httpAddr
	if err := waitForEndpoint(base+"/health", 5*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v (run: %v)", err, <-errCh)
	}

	t.Run("Health", func(t *testing.T) {
		status, body := get(t, base+"/health")
		if status != http.StatusOK {
			t.Fatalf("unexpected status: %d", status)
		}
		var health map[string]interface{}
		if err := json.Unmarshal([]byte(body), &health); err != nil {
			t.Fatal(err)
		}
		if health["status"] != "healthy" {
			t.Errorf("expected healthy service, got %v", health["status"])
		}
	})

	t.Run("Footprint", func(t *testing.T) {
		status, body := get(t, base+"/footprint/travel?annual_long_flights=6&annual_short_flights=4&annual_train_rides=24&annual_coach_rides=2&annual_hotel_spend=2000")
		if status != http.StatusOK {
			t.Fatalf("unexpected status: %d: %s", status, body)
		}
		if !strings.Contains(body, `"group":"travel"`) {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		if err := waitForEndpoint("http://"+monitoringAddr+"/metrics", 5*time.Second); err != nil {
			t.Fatal(err)
		}
		_, body := get(t, "http://"+monitoringAddr+"/metrics")
		if !strings.Contains(body, "footprintmcp_mcp_requests_total") {
			t.Error("expected tool request metrics")
		}
	})

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunHTTPBindFailureWithStdio(t *testing.T) {
	// keep the port taken for the whole test
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// an open pipe stands in for a connected client that never closes stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	stdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = stdin }()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(context.Background(), []string{
			"--enable-http",
			"--http-addr", ln.Addr().String(),
			"--enable-monitoring=false",
		}, io.Discard, io.Discard)
	}()

	select {
	case err := <-errCh:
		if err == nil || !strings.Contains(err.Error(), "HTTP transport") {
			t.Errorf("expected the HTTP bind error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the HTTP transport failed to bind")
	}
}

func TestRunVersion(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &stdout, io.Discard); err != nil {
		t.Fatalf("run --version: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "footprintmcp ") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	err := run(context.Background(), []string{"--http-only"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "requires --enable-http") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	if err := run(context.Background(), []string{"--user-agent", "x"}, io.Discard, io.Discard); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestRunGenerateConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := run(context.Background(), []string{"--generate-config", "client/config.json"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run --generate-config: %v", err)
	}

	data, err := os.ReadFile("client/config.json")
	if err != nil {
		t.Fatal(err)
	}
	var cfg struct {
		MCPServers map[string]struct {
			Command string   `json:"command"`
			Args    []string `json:"args"`
		} `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.MCPServers["footprint"].Command == "" {
		t.Errorf("expected a footprint server entry, got %s", data)
	}
}
