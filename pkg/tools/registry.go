// Package tools provides the footprint MCP tools implementations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NERVsystems/footprintmcp/pkg/cache"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
	"github.com/NERVsystems/footprintmcp/pkg/tools/prompts"
	"github.com/NERVsystems/footprintmcp/pkg/tracing"
)

// Registry contains all tool definitions and handlers
type Registry struct {
	logger  *slog.Logger
	reports *cache.ReportCache
}

// NewRegistry creates a new tool registry. A nil cache gets a default-sized one.
func NewRegistry(logger *slog.Logger, reports *cache.ReportCache) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if reports == nil {
		var err error
		reports, err = cache.NewReportCache(cache.DefaultReportCacheSize, logger)
		if err != nil {
			return nil, err
		}
	}
	return &Registry{
		logger:  logger,
		reports: reports,
	}, nil
}

// ToolDefinition represents a footprint MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns the list of all available tools.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "get_version",
			Description: "Get the version information for this footprint MCP",
			Tool:        GetVersionTool(),
			Handler:     HandleGetVersion,
		},

		// Formula groups
		{
			Name:        "footprint_computing",
			Description: "Computing footprint. Parameters: daily_online_hours, daily_phone_hours, new_light_devices, new_medium_devices, new_heavy_devices",
			Tool:        FootprintComputingTool(),
			Handler:     HandleFootprintComputing,
		},
		{
			Name:        "footprint_diet",
			Description: "Diet footprint including the vegan baseline. Parameters: daily_meat_g, daily_cheese_g, daily_milk_l, daily_eggs",
			Tool:        FootprintDietTool(),
			Handler:     HandleFootprintDiet,
		},
		{
			Name:        "footprint_transportation",
			Description: "Local transportation footprint. Parameters: weekly_bus_rides, weekly_rail_rides, weekly_uber_rides, weekly_km_driven",
			Tool:        FootprintTransportationTool(),
			Handler:     HandleFootprintTransportation,
		},
		{
			Name:        "footprint_travel",
			Description: "Long-distance travel footprint. Parameters: annual_long_flights, annual_short_flights, annual_train_rides, annual_coach_rides, annual_hotel_spend",
			Tool:        FootprintTravelTool(),
			Handler:     HandleFootprintTravel,
		},

		// Single formulas and whole profiles
		{
			Name:        "footprint_activity",
			Description: "Footprint of one named activity. Parameters: activity (string), quantity (number), second_quantity (number, transit only)",
			Tool:        FootprintActivityTool(),
			Handler:     HandleFootprintActivity,
		},
		{
			Name:        "footprint_report",
			Description: "Footprint of a whole profile. Parameters: computing, diet, transportation, travel (objects)",
			Tool:        FootprintReportTool(),
			Handler:     HandleFootprintReport(r.reports),
		},
		{
			Name:        "list_coefficients",
			Description: "Emission coefficients with units and sources. Parameters: group (string, optional)",
			Tool:        ListCoefficientsTool(),
			Handler:     HandleListCoefficients,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, r.wrapWithTracing(def.Name, def.Handler))
	}
}

// wrapWithTracing wraps a tool handler with OpenTelemetry tracing and request metrics
func (r *Registry) wrapWithTracing(toolName string, handler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("mcp.tool.%s", toolName),
			trace.WithAttributes(attribute.String(tracing.AttrMCPToolName, toolName)),
		)
		defer span.End()

		startTime := time.Now()
		result, err := handler(ctx, req)
		duration := time.Since(startTime)

		// Error results count as failures even though err is nil
		status := tracing.StatusSuccess
		switch {
		case err != nil:
			status = tracing.StatusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case result != nil && result.IsError:
			status = tracing.StatusError
			span.SetStatus(codes.Error, "tool returned an error result")
		default:
			span.SetStatus(codes.Ok, "")
		}

		resultSize := 0
		if result != nil && result.Content != nil {
			if data, marshalErr := json.Marshal(result.Content); marshalErr == nil {
				resultSize = len(data)
			}
		}

		span.SetAttributes(tracing.MCPToolAttributes(toolName, status, duration.Milliseconds(), resultSize)...)
		monitoring.RecordMCPRequest(toolName, duration, status == tracing.StatusSuccess)

		r.logger.Debug("tool execution traced",
			"tool", toolName,
			"duration", duration,
			"status", status,
			"result_size", resultSize,
		)

		return result, err
	}
}

// Handlers returns the traced handler of every tool keyed by tool name.
func (r *Registry) Handlers() map[string]server.ToolHandlerFunc {
	defs := r.GetToolDefinitions()
	handlers := make(map[string]server.ToolHandlerFunc, len(defs))
	for _, def := range defs {
		handlers[def.Name] = r.wrapWithTracing(def.Name, def.Handler)
	}
	return handlers
}

// RegisterPrompts registers all prompts with the MCP server.
func (r *Registry) RegisterPrompts(mcpServer *server.MCPServer) {
	r.logger.Info("registering methodology prompt")
	prompts.RegisterFootprintPrompts(mcpServer)
}

// GetToolNames returns a list of all tool names.
func (r *Registry) GetToolNames() []string {
	defs := r.GetToolDefinitions()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// RegisterAll registers all tools, prompts and resources with the MCP server.
func (r *Registry) RegisterAll(mcpServer *server.MCPServer) {
	r.RegisterTools(mcpServer)
	r.RegisterPrompts(mcpServer)
	r.RegisterResources(mcpServer)
}
