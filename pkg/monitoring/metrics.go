// Package monitoring holds the Prometheus metrics and health reporting
// of the footprint service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Service name for metrics
	ServiceName = "footprintmcp"
)

var (
	// MCP request metrics
	MCPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_mcp_requests_total",
			Help: "Total number of MCP requests processed",
		},
		[]string{"tool", "status"},
	)

	MCPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "footprintmcp_mcp_request_duration_seconds",
			Help:    "MCP request duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"tool"},
	)

	// Calculator metrics
	FootprintTonnes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "footprintmcp_footprint_tonnes",
			Help:    "Computed annual footprints in tonnes CO2E",
			Buckets: []float64{0.1, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"group"},
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_validation_rejections_total",
			Help: "Total number of inputs rejected by quantity validation",
		},
		[]string{"field"},
	)

	// Rate limiting metrics
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded events",
		},
		[]string{"service"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "footprintmcp_cache_size",
			Help: "Current number of items in cache",
		},
		[]string{"cache_type"},
	)

	// Connection metrics
	ActiveConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "footprintmcp_active_connections",
			Help: "Number of active connections",
		},
		[]string{"transport", "type"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// Self-check metrics
	SelfChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_self_checks_total",
			Help: "Total number of calculator self-checks by result",
		},
		[]string{"component", "result"},
	)

	// Registry metrics
	RegistryHeartbeats = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footprintmcp_registry_heartbeats_total",
			Help: "Total number of service registry heartbeats by result",
		},
		[]string{"result"},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "footprintmcp_build_info",
			Help: "Build information, always 1",
		},
		[]string{"version", "go_version", "build_commit", "build_date"},
	)
)

// TransportInfo holds transport configuration and status
type TransportInfo struct {
	Type     string `json:"type"`                // "streamable-http" or "stdio"
	HTTPAddr string `json:"http_addr,omitempty"` // HTTP address if enabled
}

// ServiceHealth is the document served on /health
type ServiceHealth struct {
	Service       string                 `json:"service"`
	Version       string                 `json:"version"`
	Status        string                 `json:"status"` // "healthy", "degraded", "unhealthy"
	Uptime        time.Duration          `json:"uptime"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	StartTime     time.Time              `json:"start_time,omitempty"`
	Components    map[string]ConnStatus  `json:"components"`
	Metrics       map[string]interface{} `json:"metrics,omitempty"`
	Transport     *TransportInfo         `json:"transport,omitempty"`
}

type ConnStatus struct {
	Status    string `json:"status"` // "ok", "degraded", "error"
	Latency   int64  `json:"latency_ms,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// Helper functions for common metric updates
func RecordMCPRequest(tool string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	MCPRequestsTotal.WithLabelValues(tool, status).Inc()
	MCPRequestDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordFootprint observes a computed group total. Negative values only
// come from unvalidated callers and are not observed.
func RecordFootprint(group string, tonnes float64) {
	if tonnes < 0 {
		return
	}
	FootprintTonnes.WithLabelValues(group).Observe(tonnes)
}

func RecordValidationRejection(field string) {
	ValidationRejections.WithLabelValues(field).Inc()
}

func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

func UpdateCacheSize(cacheType string, size int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(size))
}

func RecordRateLimitExceeded(service string) {
	RateLimitExceeded.WithLabelValues(service).Inc()
}

func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

func UpdateActiveConnections(transport, connType string, count int) {
	ActiveConnections.WithLabelValues(transport, connType).Set(float64(count))
}

func resultLabel(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

// RecordSelfCheck counts one run of a component's reference check.
func RecordSelfCheck(component string, ok bool) {
	SelfChecks.WithLabelValues(component, resultLabel(ok)).Inc()
}

// RecordHeartbeat counts one registry heartbeat.
func RecordHeartbeat(ok bool) {
	RegistryHeartbeats.WithLabelValues(resultLabel(ok)).Inc()
}
