// Package config loads footprintmcp settings from the environment and
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/NERVsystems/footprintmcp/pkg/core"
)

// Config is the server configuration. Environment variables supply the
// defaults and flags registered by BindFlags override them.
type Config struct {
	Debug bool `env:"FOOTPRINT_DEBUG"`

	// HTTP transport
	EnableHTTP    bool   `env:"FOOTPRINT_ENABLE_HTTP"`
	HTTPOnly      bool   `env:"FOOTPRINT_HTTP_ONLY"`
	HTTPAddr      string `env:"FOOTPRINT_HTTP_ADDR" envDefault:":7082"`
	HTTPBaseURL   string `env:"FOOTPRINT_HTTP_BASE_URL"`
	HTTPAuthType  string `env:"FOOTPRINT_HTTP_AUTH_TYPE" envDefault:"none"`
	HTTPAuthToken string `env:"FOOTPRINT_HTTP_AUTH_TOKEN"`
	TLSCertFile   string `env:"FOOTPRINT_TLS_CERT_FILE"`
	TLSKeyFile    string `env:"FOOTPRINT_TLS_KEY_FILE"`
	ForceHTTPS    bool   `env:"FOOTPRINT_FORCE_HTTPS"`

	// Per-client request rate on the HTTP transport
	RateLimit float64 `env:"FOOTPRINT_RATE_LIMIT" envDefault:"10"`
	RateBurst int     `env:"FOOTPRINT_RATE_BURST" envDefault:"20"`

	// Monitoring
	EnableMonitoring  bool          `env:"FOOTPRINT_ENABLE_MONITORING" envDefault:"true"`
	MonitoringAddr    string        `env:"FOOTPRINT_MONITORING_ADDR" envDefault:":9090"`
	SelfCheckInterval time.Duration `env:"FOOTPRINT_SELF_CHECK_INTERVAL" envDefault:"5m"`

	ReportCacheSize int `env:"FOOTPRINT_REPORT_CACHE_SIZE" envDefault:"256"`

	// Service registry, disabled when RegistryURL is empty
	RegistryURL       string        `env:"FOOTPRINT_REGISTRY_URL"`
	ServiceName       string        `env:"FOOTPRINT_SERVICE_NAME" envDefault:"footprint-mcp"`
	HeartbeatInterval time.Duration `env:"FOOTPRINT_HEARTBEAT_INTERVAL" envDefault:"30s"`

	// Tracing
	OTLPEndpoint     string  `env:"OTLP_ENDPOINT"`
	Environment      string  `env:"ENVIRONMENT"`
	TraceSampleRatio float64 `env:"FOOTPRINT_TRACE_SAMPLE_RATIO" envDefault:"1"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration described by the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags registers one flag per setting, defaulting to the current value.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")

	fs.BoolVar(&c.EnableHTTP, "enable-http", c.EnableHTTP, "Enable Streamable HTTP transport (in addition to stdio)")
	fs.BoolVar(&c.HTTPOnly, "http-only", c.HTTPOnly, "Run HTTP transport only, skip stdio (requires --enable-http)")
	fs.StringVar(&c.HTTPAddr, "http-addr", c.HTTPAddr, "HTTP server address")
	fs.StringVar(&c.HTTPBaseURL, "http-base-url", c.HTTPBaseURL, "Base URL for HTTP transport (auto-detected if empty)")
	fs.StringVar(&c.HTTPAuthType, "http-auth-type", c.HTTPAuthType, "HTTP authentication type: none, bearer, basic")
	fs.StringVar(&c.HTTPAuthToken, "http-auth-token", c.HTTPAuthToken, "HTTP authentication token (user:password for basic)")
	fs.StringVar(&c.TLSCertFile, "tls-cert", c.TLSCertFile, "Path to TLS certificate file")
	fs.StringVar(&c.TLSKeyFile, "tls-key", c.TLSKeyFile, "Path to TLS private key file")
	fs.BoolVar(&c.ForceHTTPS, "force-https", c.ForceHTTPS, "Redirect plain HTTP requests to HTTPS (requires TLS)")
	fs.Float64Var(&c.RateLimit, "rate-limit", c.RateLimit, "HTTP requests per second allowed per client")
	fs.IntVar(&c.RateBurst, "rate-burst", c.RateBurst, "HTTP rate limit burst size")

	fs.BoolVar(&c.EnableMonitoring, "enable-monitoring", c.EnableMonitoring, "Enable Prometheus metrics and health endpoints")
	fs.StringVar(&c.MonitoringAddr, "monitoring-addr", c.MonitoringAddr, "Monitoring server address")
	fs.DurationVar(&c.SelfCheckInterval, "self-check-interval", c.SelfCheckInterval, "Interval between calculator self-checks")

	fs.IntVar(&c.ReportCacheSize, "report-cache-size", c.ReportCacheSize, "Number of profile reports kept in memory")

	fs.StringVar(&c.RegistryURL, "registry-url", c.RegistryURL, "Service registry to announce the HTTP transport to (disabled if empty)")
	fs.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Name announced to the service registry")
	fs.DurationVar(&c.HeartbeatInterval, "heartbeat-interval", c.HeartbeatInterval, "Interval between service registry heartbeats")
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPOnly && !c.EnableHTTP {
		errs = append(errs, errors.New("--http-only requires --enable-http"))
	}

	switch c.HTTPAuthType {
	case core.AuthNone:
	case core.AuthBearer:
		if err := core.ValidateAuthToken(c.HTTPAuthToken); err != nil {
			errs = append(errs, fmt.Errorf("bearer token: %w", err))
		}
	case core.AuthBasic:
		if c.HTTPAuthToken == "" {
			errs = append(errs, errors.New("basic auth requires a user:password token"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth type %q", c.HTTPAuthType))
	}

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("--tls-cert and --tls-key must be set together"))
	}
	if c.ForceHTTPS && c.TLSCertFile == "" {
		errs = append(errs, errors.New("--force-https requires --tls-cert and --tls-key"))
	}

	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("rate limit must be positive, got %v", c.RateLimit))
	}
	if c.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("rate burst must be at least 1, got %d", c.RateBurst))
	}
	if c.SelfCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("self-check interval must be positive, got %s", c.SelfCheckInterval))
	}

	if c.RegistryURL != "" {
		if !c.EnableHTTP {
			errs = append(errs, errors.New("--registry-url requires --enable-http"))
		}
		if c.HeartbeatInterval <= 0 {
			errs = append(errs, fmt.Errorf("heartbeat interval must be positive, got %s", c.HeartbeatInterval))
		}
	}

	return errors.Join(errs...)
}
