// Package registration announces a running footprint server to a service
// registry. The registry is optional: failures are logged and retried on
// the next heartbeat, never surfaced to the caller.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
)

const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultTimeout           = 5 * time.Second
)

// Config describes the service being announced.
type Config struct {
	RegistryURL string
	ServiceName string
	ServiceURL  string
	HealthURL   string
	Version     string
	Tools       []string
	Groups      []string

	HeartbeatInterval time.Duration
	Timeout           time.Duration
}

// Announcement is the body posted to <registry>/api/register.
type Announcement struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	URL       string         `json:"url"`
	HealthURL string         `json:"health_url,omitempty"`
	Version   string         `json:"version"`
	Tools     []string       `json:"tools,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type registryResponse struct {
	Status     string `json:"status"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// Announcer keeps the service registered while Run is active.
type Announcer struct {
	cfg        Config
	logger     *slog.Logger
	httpClient *http.Client
	registered atomic.Bool
}

// NewAnnouncer validates cfg and fills in defaults.
func NewAnnouncer(cfg Config, logger *slog.Logger) (*Announcer, error) {
	if _, err := url.ParseRequestURI(cfg.RegistryURL); err != nil {
		return nil, fmt.Errorf("registry URL: %w", err)
	}
	if cfg.ServiceName == "" {
		return nil, fmt.Errorf("service name is required")
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.RegistryURL = strings.TrimRight(cfg.RegistryURL, "/")

	return &Announcer{
		cfg:        cfg,
		logger:     logger.With("registry", cfg.RegistryURL),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Registered reports whether the last heartbeat was accepted.
func (a *Announcer) Registered() bool {
	return a.registered.Load()
}

// Run sends a heartbeat immediately and then every HeartbeatInterval until
// ctx is done, then deregisters. It always returns nil.
func (a *Announcer) Run(ctx context.Context) error {
	a.heartbeat(ctx)

	ticker := time.NewTicker(a.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.heartbeat(ctx)
		case <-ctx.Done():
			// ctx is already cancelled
			stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
			defer cancel()
			a.deregister(stopCtx)
			return nil
		}
	}
}

func (a *Announcer) announcement() Announcement {
	return Announcement{
		Name:      a.cfg.ServiceName,
		Type:      "mcp",
		URL:       a.cfg.ServiceURL,
		HealthURL: a.cfg.HealthURL,
		Version:   a.cfg.Version,
		Tools:     a.cfg.Tools,
		Metadata: map[string]any{
			"domain": "carbon-footprint",
			"groups": a.cfg.Groups,
			"unit":   "tCO2e/year",
		},
	}
}

func (a *Announcer) heartbeat(ctx context.Context) {
	if err := a.register(ctx); err != nil {
		if a.registered.Swap(false) {
			a.logger.Warn("lost registration", "error", err)
		} else {
			a.logger.Debug("registration failed", "error", err)
		}
		monitoring.RecordHeartbeat(false)
		return
	}
	monitoring.RecordHeartbeat(true)
	if !a.registered.Swap(true) {
		a.logger.Info("registered service", "name", a.cfg.ServiceName)
	}
}

func (a *Announcer) register(ctx context.Context) error {
	body, err := json.Marshal(a.announcement())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.RegistryURL+"/api/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("registry returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	if ttl := time.Duration(out.TTLSeconds) * time.Second; ttl > 0 && ttl < a.cfg.HeartbeatInterval {
		a.logger.Warn("registry TTL is shorter than the heartbeat interval",
			"ttl", ttl, "interval", a.cfg.HeartbeatInterval)
	}
	return nil
}

func (a *Announcer) deregister(ctx context.Context) {
	if !a.registered.Swap(false) {
		return
	}

	target := a.cfg.RegistryURL + "/api/register/" + url.PathEscape(a.cfg.ServiceName)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		a.logger.Debug("failed to build deregistration request", "error", err)
		return
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Debug("deregistration failed", "error", err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		a.logger.Info("deregistered service", "name", a.cfg.ServiceName)
	}
}
