// Command footprintmcp serves the carbon footprint calculator as an MCP
// server over stdio and, optionally, streamable HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/NERVsystems/footprintmcp/pkg/cache"
	"github.com/NERVsystems/footprintmcp/pkg/config"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
	"github.com/NERVsystems/footprintmcp/pkg/registration"
	"github.com/NERVsystems/footprintmcp/pkg/server"
	"github.com/NERVsystems/footprintmcp/pkg/tools"
	"github.com/NERVsystems/footprintmcp/pkg/tracing"
	ver "github.com/NERVsystems/footprintmcp/pkg/version"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "footprintmcp:", err)
		os.Exit(1)
	}
}

// run parses args, wires the server and blocks until ctx is done or a
// component fails. Logs go to stderr because stdout is the stdio channel.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("footprintmcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.BindFlags(fs)
	showVersion := fs.Bool("version", false, "Display version information")
	generateConfig := fs.String("generate-config", "", "Generate an MCP desktop client config file at the specified path")
	mergeOnly := fs.Bool("merge-only", false, "Keep other servers already present in the generated config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, ver.String())
		return nil
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if *generateConfig != "" {
		command, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		if err := config.WriteClientConfig(*generateConfig, command, nil, *mergeOnly); err != nil {
			return fmt.Errorf("generate config: %w", err)
		}
		logger.Info("generated MCP client config", "path", *generateConfig)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	shutdownTracing, err := tracing.InitTracing(ctx, tracing.Options{
		Endpoint:    cfg.OTLPEndpoint,
		Version:     ver.BuildVersion,
		Environment: cfg.Environment,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		// tracing is optional
		logger.Error("failed to initialize tracing", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Error("error shutting down tracing", "error", err)
			}
		}()
		if cfg.OTLPEndpoint != "" {
			logger.Info("OpenTelemetry tracing enabled", "endpoint", cfg.OTLPEndpoint)
		}
	}

	logger.Info("starting footprint MCP server",
		"version", ver.BuildVersion,
		"log_level", logLevel.String(),
		"http_enabled", cfg.EnableHTTP,
		"http_only", cfg.HTTPOnly,
		"monitoring_enabled", cfg.EnableMonitoring,
		"report_cache_size", cfg.ReportCacheSize)

	reports, err := cache.NewReportCache(cfg.ReportCacheSize, logger)
	if err != nil {
		return err
	}
	registry, err := tools.NewRegistry(logger, reports)
	if err != nil {
		return err
	}
	s, err := server.NewServer(registry)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var healthChecker *monitoring.HealthChecker
	if cfg.EnableMonitoring {
		healthChecker = monitoring.NewHealthChecker(monitoring.ServiceName, ver.BuildVersion)

		transport := monitoring.TransportInfo{Type: "stdio"}
		if cfg.EnableHTTP {
			transport = monitoring.TransportInfo{Type: "streamable-http", HTTPAddr: cfg.HTTPAddr}
		}
		healthChecker.SetTransport(transport)

		monitor := monitoring.NewComponentMonitor("calculator", healthChecker, monitoring.CheckCalculator, cfg.SelfCheckInterval)
		g.Go(func() error {
			return monitor.Run(ctx)
		})

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/health", healthChecker.HealthHandler())
		metricsServer := &http.Server{
			Addr:              cfg.MonitoringAddr,
			Handler:           mux,
			ReadHeaderTimeout: 30 * time.Second,
		}
		g.Go(func() error {
			logger.Info("starting Prometheus metrics server", "addr", cfg.MonitoringAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("monitoring server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			healthChecker.Shutdown()
			return shutdown(logger, "monitoring server", metricsServer.Shutdown)
		})
	}

	if cfg.EnableHTTP {
		httpTransport := server.NewHTTPTransport(s.GetMCPServer(), server.HTTPTransportConfig{
			Addr:           cfg.HTTPAddr,
			BaseURL:        cfg.HTTPBaseURL,
			AuthType:       cfg.HTTPAuthType,
			AuthToken:      cfg.HTTPAuthToken,
			MCPEndpoint:    "/mcp",
			RateLimit:      cfg.RateLimit,
			RateBurst:      cfg.RateBurst,
			MaxRequestSize: server.DefaultHTTPTransportConfig().MaxRequestSize,
			MaxHeaderBytes: server.DefaultHTTPTransportConfig().MaxHeaderBytes,
			TLSCertFile:    cfg.TLSCertFile,
			TLSKeyFile:     cfg.TLSKeyFile,
			ForceHTTPS:     cfg.ForceHTTPS,
		}, logger)
		if healthChecker != nil {
			httpTransport.SetHealthChecker(healthChecker)
		}

		rest := server.NewHandler(logger, registry)
		httpTransport.Mount("/footprint/", rest)
		httpTransport.Mount("/coefficients", rest)

		g.Go(func() error {
			if err := httpTransport.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP transport: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return shutdown(logger, "HTTP transport", httpTransport.Shutdown)
		})

		if cfg.RegistryURL != "" {
			publicURL := httpTransport.PublicURL()
			announcer, err := registration.NewAnnouncer(registration.Config{
				RegistryURL:       cfg.RegistryURL,
				ServiceName:       cfg.ServiceName,
				ServiceURL:        publicURL + httpTransport.GetConfig().MCPEndpoint,
				HealthURL:         publicURL + "/health",
				Version:           ver.BuildVersion,
				Tools:             registry.GetToolNames(),
				Groups:            footprint.Groups,
				HeartbeatInterval: cfg.HeartbeatInterval,
			}, logger)
			if err != nil {
				return fmt.Errorf("service registration: %w", err)
			}
			g.Go(func() error {
				return announcer.Run(ctx)
			})
		}
	}

	switch {
	case !cfg.EnableHTTP:
		// stdio only: the process ends when the client closes stdin
		g.Go(func() error {
			defer cancel()
			logger.Info("transport_enabled", "type", "stdio")
			return s.RunWithContext(ctx)
		})
	case cfg.HTTPOnly:
		logger.Info("server_ready", "transports", []string{"http"}, "http_only", true)
	default:
		g.Go(func() error {
			logger.Info("transport_enabled", "type", "stdio", "mode", "background")
			if err := s.RunWithContext(ctx); err != nil {
				// HTTP keeps serving
				logger.Error("stdio transport error", "error", err)
			}
			return nil
		})
		logger.Info("server_ready", "transports", []string{"stdio", "http"})
	}

	err = g.Wait()
	reports.Purge()
	logger.Info("server stopped")
	return err
}

func shutdown(logger *slog.Logger, name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Error("failed to shut down "+name, "error", err)
		return err
	}
	return nil
}
