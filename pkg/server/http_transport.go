package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
)

// HTTPTransportConfig holds configuration for the HTTP transport
type HTTPTransportConfig struct {
	Addr           string  `json:"addr"`             // HTTP server address (e.g., ":7082")
	BaseURL        string  `json:"base_url"`         // Base URL for service discovery
	AuthType       string  `json:"auth_type"`        // Authentication type: "bearer", "basic", "none"
	AuthToken      string  `json:"auth_token"`       // Bearer token, or user:password for basic
	MCPEndpoint    string  `json:"mcp_endpoint"`     // Streamable HTTP endpoint path (default: "/mcp")
	RateLimit      float64 `json:"rate_limit"`       // Requests per second per IP (0 = disabled)
	RateBurst      int     `json:"rate_burst"`       // Burst size for rate limiter
	MaxRequestSize int64   `json:"max_request_size"` // Maximum request body size in bytes
	MaxHeaderBytes int     `json:"max_header_bytes"` // Maximum header size in bytes
	TLSCertFile    string  `json:"tls_cert_file"`    // Path to TLS certificate file
	TLSKeyFile     string  `json:"tls_key_file"`     // Path to TLS private key file
	ForceHTTPS     bool    `json:"force_https"`      // Redirect plain HTTP requests to HTTPS
}

// DefaultHTTPTransportConfig returns sensible defaults
func DefaultHTTPTransportConfig() HTTPTransportConfig {
	return HTTPTransportConfig{
		Addr:           ":7082",
		AuthType:       core.AuthNone,
		MCPEndpoint:    "/mcp",
		RateLimit:      10,
		RateBurst:      20,
		MaxRequestSize: 1 << 20, // profiles are small
		MaxHeaderBytes: 1 << 20,
	}
}

func (c HTTPTransportConfig) tlsEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// HTTPTransport serves the MCP server over streamable HTTP, next to
// discovery, health and any mounted plain HTTP handlers.
type HTTPTransport struct {
	config        HTTPTransportConfig
	logger        *slog.Logger
	mcpHTTP       *mcpserver.StreamableHTTPServer
	mux           *http.ServeMux
	httpSrv       *http.Server
	rateLimiter   *RateLimiter
	healthChecker *monitoring.HealthChecker
	connections   atomic.Int64
	mu            sync.RWMutex
}

// NewHTTPTransport creates a new HTTP transport instance
func NewHTTPTransport(mcpServer *mcpserver.MCPServer, config HTTPTransportConfig, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MCPEndpoint == "" {
		config.MCPEndpoint = "/mcp"
	}
	if config.AuthType == "" {
		config.AuthType = core.AuthNone
	}
	if config.MaxRequestSize <= 0 {
		config.MaxRequestSize = DefaultHTTPTransportConfig().MaxRequestSize
	}

	if config.AuthType == core.AuthBearer {
		if err := core.ValidateAuthToken(config.AuthToken); err != nil {
			logger.Warn("weak authentication token detected", "error", err.Error())
		}
	}

	transport := &HTTPTransport{
		config: config,
		logger: logger,
		mcpHTTP: mcpserver.NewStreamableHTTPServer(
			mcpServer,
			mcpserver.WithEndpointPath(config.MCPEndpoint),
		),
		mux: http.NewServeMux(),
	}
	transport.setupRoutes()

	return transport
}

// SetHealthChecker sets the health checker for the HTTP transport
func (t *HTTPTransport) SetHealthChecker(hc *monitoring.HealthChecker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.healthChecker = hc
}

// Mount serves handler under pattern behind authentication
func (t *HTTPTransport) Mount(pattern string, handler http.Handler) {
	t.mux.Handle(pattern, t.httpsEnforcement(t.authMiddleware(handler).ServeHTTP))
}

// setupRoutes configures the discovery, health and MCP routes
func (t *HTTPTransport) setupRoutes() {
	t.mux.HandleFunc("/", t.httpsEnforcement(t.handleServiceDiscovery))

	// Health checks stay unauthenticated
	t.mux.HandleFunc("/health", t.handleHealth)
	t.mux.HandleFunc("/ready", t.handleReady)
	t.mux.HandleFunc("/live", t.handleLive)

	t.Mount(t.config.MCPEndpoint, t.mcpHTTP)
}

// httpsEnforcement redirects HTTP requests to HTTPS if ForceHTTPS is enabled
func (t *HTTPTransport) httpsEnforcement(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if t.config.ForceHTTPS && r.TLS == nil {
			httpsURL := "https://" + r.Host + r.RequestURI
			t.logger.Info("redirecting HTTP request to HTTPS",
				"client_ip", getIP(r),
				"redirect_url", httpsURL)
			http.Redirect(w, r, httpsURL, http.StatusMovedPermanently)
			return
		}
		next(w, r)
	}
}

// authMiddleware checks credentials according to the configured auth type
func (t *HTTPTransport) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := core.Authenticate(r, t.config.AuthType, t.config.AuthToken)
		if !result.Authorized {
			t.logger.Warn("authentication failed",
				"remote_addr", getIP(r),
				"path", r.URL.Path,
				"auth_type", t.config.AuthType,
				"error", result.Error,
				"auth_duration", result.Duration)
			monitoring.RecordError("http_transport", "auth")

			if t.config.AuthType == core.AuthBasic {
				w.Header().Set("WWW-Authenticate", `Basic realm="footprint"`)
			} else {
				w.Header().Set("WWW-Authenticate", "Bearer")
			}
			t.writeJSONRPCError(w, http.StatusUnauthorized, nil, -32001, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleServiceDiscovery describes the MCP endpoint to clients
func (t *HTTPTransport) handleServiceDiscovery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	baseURL := t.config.BaseURL
	if baseURL == "" {
		scheme := "http"
		if r.TLS != nil || t.config.ForceHTTPS || t.config.tlsEnabled() {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}

	// Minimal service discovery to avoid information disclosure
	discovery := map[string]interface{}{
		"service":   "mcp-server",
		"transport": "streamable-http",
		"endpoints": map[string]string{
			"mcp": baseURL + t.config.MCPEndpoint,
		},
		"capabilities": map[string]interface{}{
			"tools":     true,
			"prompts":   true,
			"resources": true,
		},
		"auth": map[string]interface{}{
			"required": t.config.AuthType != core.AuthNone,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(discovery); err != nil {
		t.logger.Error("failed to encode service discovery response", "error", err)
	}
}

func (t *HTTPTransport) checker() *monitoring.HealthChecker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.healthChecker
}

// handleHealth delegates to the health checker, or reports ok without one
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if hc := t.checker(); hc != nil {
		hc.HealthHandler()(w, r)
		return
	}
	t.writeJSON(w, map[string]interface{}{"status": monitoring.StatusOK})
}

// handleReady provides Kubernetes-style readiness check
func (t *HTTPTransport) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if hc := t.checker(); hc != nil {
		hc.ReadinessHandler()(w, r)
		return
	}
	t.writeJSON(w, map[string]interface{}{"ready": true, "status": monitoring.StatusOK})
}

// handleLive provides Kubernetes-style liveness check
func (t *HTTPTransport) handleLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if hc := t.checker(); hc != nil {
		hc.LivenessHandler()(w, r)
		return
	}
	t.writeJSON(w, map[string]interface{}{"alive": true})
}

func (t *HTTPTransport) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.logger.Error("failed to encode response", "error", err)
	}
}

// writeJSONRPCError writes a JSON-RPC error response
func (t *HTTPTransport) writeJSONRPCError(w http.ResponseWriter, status int, id interface{}, code int, message string) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		t.logger.Error("failed to encode JSON-RPC error", "error", err)
	}
}

// Handler returns the mux wrapped in the transport middleware chain
func (t *HTTPTransport) Handler() http.Handler {
	handler := http.Handler(t.mux)
	if t.rateLimiter != nil {
		handler = t.rateLimiter.Middleware(handler)
	}
	handler = RequestSizeLimiter(t.config.MaxRequestSize)(handler)
	handler = SecurityHeaders(handler)
	handler = LoggingMiddleware(t.logger)(handler)
	handler = TracingMiddleware()(handler) // outermost so spans cover every request
	return handler
}

// trackConnection keeps the active connection gauge current
func (t *HTTPTransport) trackConnection(_ net.Conn, state http.ConnState) {
	var n int64
	switch state {
	case http.StateNew:
		n = t.connections.Add(1)
	case http.StateClosed, http.StateHijacked:
		n = t.connections.Add(-1)
	default:
		return
	}
	monitoring.UpdateActiveConnections("http", "client", int(n))
}

// Start begins serving HTTP requests and blocks until Shutdown
func (t *HTTPTransport) Start() error {
	t.mu.Lock()

	if t.httpSrv != nil {
		t.mu.Unlock()
		return core.NewError(core.ErrInternalError, "HTTP transport already started").
			WithGuidance("The HTTP transport is already running. Stop it before starting again.")
	}
	if t.config.ForceHTTPS && !t.config.tlsEnabled() {
		t.mu.Unlock()
		return errors.New("HTTPS enforcement requires a TLS certificate and key")
	}

	if t.config.RateLimit > 0 {
		t.rateLimiter = NewRateLimiter(rate.Limit(t.config.RateLimit), t.config.RateBurst)
	}
	t.httpSrv = &http.Server{
		Addr:              t.config.Addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    t.config.MaxHeaderBytes,
		ConnState:         t.trackConnection,
	}
	srv := t.httpSrv

	t.logger.Info("starting HTTP transport",
		"addr", t.config.Addr,
		"mcp_endpoint", t.config.MCPEndpoint,
		"auth_type", t.config.AuthType,
		"base_url", t.config.BaseURL,
		"rate_limit", t.config.RateLimit,
		"max_request_size", t.config.MaxRequestSize,
		"tls_enabled", t.config.tlsEnabled(),
		"force_https", t.config.ForceHTTPS)
	t.mu.Unlock()

	if t.config.tlsEnabled() {
		return srv.ListenAndServeTLS(t.config.TLSCertFile, t.config.TLSKeyFile)
	}
	return srv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP transport
func (t *HTTPTransport) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.httpSrv == nil {
		return nil
	}

	t.logger.Info("shutting down HTTP transport")

	if err := t.mcpHTTP.Shutdown(ctx); err != nil {
		t.logger.Error("failed to shutdown streamable HTTP server", "error", err)
	}
	if t.rateLimiter != nil {
		t.rateLimiter.Stop()
		t.rateLimiter = nil
	}

	err := t.httpSrv.Shutdown(ctx)
	t.httpSrv = nil
	return err
}

// GetConfig returns the transport configuration
func (t *HTTPTransport) GetConfig() HTTPTransportConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// PublicURL is the base URL clients reach the transport at. Without a
// configured base URL it is derived from the listen address.
func (t *HTTPTransport) PublicURL() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.config.BaseURL != "" {
		return t.config.BaseURL
	}

	scheme := "http"
	if t.config.tlsEnabled() {
		scheme = "https"
	}
	host, port, err := net.SplitHostPort(t.config.Addr)
	if err != nil {
		return scheme + "://" + t.config.Addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return scheme + "://" + net.JoinHostPort(host, port)
}
