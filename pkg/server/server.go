// Package server provides the MCP server and HTTP handlers for the footprint calculator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/tools"
	"github.com/NERVsystems/footprintmcp/pkg/version"
)

// ServerName is the name of the MCP server
const ServerName = "footprint-mcp-server"

// Server encapsulates the MCP server with the footprint tools.
type Server struct {
	srv    *mcpserver.MCPServer
	logger *slog.Logger

	// stdio streams, os.Stdin and os.Stdout when nil
	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// NewServer creates a footprint MCP server with every tool, prompt and
// resource of the registry. A nil registry gets a default one.
func NewServer(registry *tools.Registry) (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing footprint MCP server",
		"name", ServerName,
		"version", version.BuildVersion)

	if registry == nil {
		var err error
		registry, err = tools.NewRegistry(logger, nil)
		if err != nil {
			return nil, fmt.Errorf("create tool registry: %w", err)
		}
	}

	srv := mcpserver.NewMCPServer(
		ServerName,
		version.BuildVersion,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithPromptCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithRecovery(),
	)
	registry.RegisterAll(srv)

	return &Server{
		srv:    srv,
		logger: logger,
		doneCh: make(chan struct{}),
	}, nil
}

// SetStdio replaces the streams Run serves on. It must be called before Run.
func (s *Server) SetStdio(in io.Reader, out io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in, s.out = in, out
}

// Run serves MCP over stdin/stdout until stdin is closed or Shutdown is called.
func (s *Server) Run() error {
	return s.RunWithContext(context.Background())
}

// RunWithContext serves MCP over stdio until ctx is done, stdin is closed
// or Shutdown is called. A second call while running returns nil at once.
func (s *Server) RunWithContext(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	in, out := s.in, s.out
	s.mu.Unlock()

	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	defer func() {
		cancel()
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
		select {
		case <-s.doneCh:
		default:
			close(s.doneCh)
		}
	}()

	stdio := mcpserver.NewStdioServer(s.srv)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	// the pending stdin read is abandoned on cancel
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		s.logger.Error("stdio server error", "error", err)
		return err
	}
	return nil
}

// Shutdown stops a running server without waiting for it.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// WaitForShutdown blocks until the server has fully shut down.
func (s *Server) WaitForShutdown() {
	<-s.doneCh
}

// GetMCPServer returns the underlying MCP server instance for HTTP transport
func (s *Server) GetMCPServer() *mcpserver.MCPServer {
	return s.srv
}

// restGroups maps /footprint/{name} paths to tool names
var restGroups = map[string]string{
	"computing":      "footprint_computing",
	"diet":           "footprint_diet",
	"transportation": "footprint_transportation",
	"travel":         "footprint_travel",
	"activity":       "footprint_activity",
	"report":         "footprint_report",
}

// Handler serves the footprint tools as plain JSON endpoints:
//
//	GET  /health
//	GET  /footprint/{computing,diet,transportation,travel,activity}?field=value
//	GET  /footprint/report?diet.daily_meat_g=25&travel.annual_long_flights=1
//	POST /footprint/report with a JSON profile body
//	GET  /coefficients?group=diet
type Handler struct {
	logger *slog.Logger
	tools  map[string]mcpserver.ToolHandlerFunc
	router chi.Router
}

// NewHandler creates a handler calling the traced tools of registry
func NewHandler(logger *slog.Logger, registry *tools.Registry) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger: logger,
		tools:  registry.Handlers(),
	}

	r := chi.NewRouter()
	r.NotFound(h.serve(h.handleNotFound))
	r.MethodNotAllowed(h.serve(h.handleMethodNotAllowed))
	r.Get("/health", h.serve(h.handleHealth))
	r.Get("/coefficients", h.serve(h.tool("list_coefficients")))
	r.Get("/footprint/{group}", h.serve(h.handleGroup))
	r.Post("/footprint/{group}", h.serve(h.handleGroup))
	h.router = r

	return h
}

// ServeHTTP implements the http.Handler interface
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// route handlers report the status they wrote
type route func(w http.ResponseWriter, r *http.Request) (int, error)

// serve adapts a route and logs its outcome
func (h *Handler) serve(fn route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := RequestID(r.Context())
		if reqID == "" {
			reqID = r.Header.Get("X-Request-ID")
		}
		if reqID == "" {
			reqID = generateRequestID()
		}

		h.logger.Debug("request started",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)

		status, err := fn(w, r)

		duration := time.Since(start)
		if err != nil {
			h.logger.Error("request failed",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", duration,
				"error", err)
			return
		}
		h.logger.Info("request completed",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration)
	}
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) (int, error) {
	http.NotFound(w, r)
	return http.StatusNotFound, nil
}

func (h *Handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) (int, error) {
	w.Header().Set("Allow", "GET, POST")
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return http.StatusMethodNotAllowed, nil
}

// handleGroup resolves /footprint/{group} to its tool
func (h *Handler) handleGroup(w http.ResponseWriter, r *http.Request) (int, error) {
	name, ok := restGroups[chi.URLParam(r, "group")]
	if !ok {
		return h.writeError(w, http.StatusNotFound,
			core.NewError(core.ErrInvalidParameter, "unknown footprint endpoint: "+r.URL.Path).
				WithSuggestions(restPaths()...))
	}
	return h.handleTool(w, r, name)
}

func (h *Handler) tool(name string) route {
	return func(w http.ResponseWriter, r *http.Request) (int, error) {
		return h.handleTool(w, r, name)
	}
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		return http.StatusOK, err
	}
	return http.StatusOK, nil
}

// handleTool builds tool arguments from the query string or a JSON body,
// calls the tool and writes its JSON text. Error results map to 400.
func (h *Handler) handleTool(w http.ResponseWriter, r *http.Request, name string) (int, error) {
	handler, ok := h.tools[name]
	if !ok {
		return h.writeError(w, http.StatusNotFound, core.NewError(core.ErrInvalidParameter, "tool not available: "+name))
	}

	var args map[string]any
	switch r.Method {
	case http.MethodGet:
		args = queryArguments(r.URL.Query())
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil && err != io.EOF {
			return h.writeError(w, http.StatusBadRequest,
				core.NewValidationError(core.ErrInvalidInput, "invalid JSON body: "+err.Error()))
		}
	default:
		return h.handleMethodNotAllowed(w, r)
	}

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := handler(r.Context(), req)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return http.StatusInternalServerError, err
	}

	var content string
	for _, c := range result.Content {
		if t, ok := c.(mcp.TextContent); ok {
			content = t.Text
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	status := http.StatusOK
	if result.IsError {
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)

	if _, err := w.Write([]byte(content)); err != nil {
		return status, err
	}
	return status, nil
}

func (h *Handler) writeError(w http.ResponseWriter, status int, mcpErr *core.MCPError) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return status, json.NewEncoder(w).Encode(mcpErr)
}

// queryArguments turns query parameters into tool arguments. Numeric
// values become numbers, anything else stays a string, and dotted keys
// such as diet.daily_meat_g become nested objects.
func queryArguments(q url.Values) map[string]any {
	args := make(map[string]any, len(q))
	for key := range q {
		raw := q.Get(key)
		var value any = raw
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			value = f
		}

		group, field, nested := strings.Cut(key, ".")
		if !nested {
			args[key] = value
			continue
		}
		obj, ok := args[group].(map[string]any)
		if !ok {
			obj = make(map[string]any)
			args[group] = obj
		}
		obj[field] = value
	}
	return args
}

func restPaths() []string {
	paths := make([]string, 0, len(restGroups))
	for name := range restGroups {
		paths = append(paths, "/footprint/"+name)
	}
	sort.Strings(paths)
	return paths
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return time.Now().Format("20060102150405.000000000")
}
