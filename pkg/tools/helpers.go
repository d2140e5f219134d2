package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
	"github.com/NERVsystems/footprintmcp/pkg/tracing"
)

// InputParser is a generic function to parse request arguments into a strongly typed struct.
// Fields missing from the arguments keep their zero value.
func InputParser[T any](req mcp.CallToolRequest) (T, *mcp.CallToolResult, error) {
	var input T

	inputJSON, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return input, ErrorResponse(fmt.Sprintf("Invalid input format: %v", err)), err
	}

	if err := json.Unmarshal(inputJSON, &input); err != nil {
		return input, ErrorResponse(fmt.Sprintf("Failed to parse input: %v", err)), err
	}

	return input, nil, nil
}

// WithParsedInput is a higher-order function that handles request parsing and error handling.
// Handler errors become structured error results, never Go errors.
func WithParsedInput[T any](
	handlerName string,
	handler func(ctx context.Context, input T, logger *slog.Logger) (interface{}, error),
) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := slog.Default().With("tool", handlerName)

		input, _, err := InputParser[T](req)
		if err != nil {
			logger.Warn("failed to parse input", "error", err)
			tracing.RecordError(ctx, err, trace.WithAttributes(tracing.ErrorAttributes(err)...))
			return errorResult(handlerName, err), nil
		}

		result, err := handler(ctx, input, logger)
		if err != nil {
			logger.Info("request rejected", "error", err)
			tracing.RecordError(ctx, err, trace.WithAttributes(tracing.ErrorAttributes(err)...))
			return errorResult(handlerName, err), nil
		}

		resultBytes, err := json.Marshal(result)
		if err != nil {
			logger.Error("failed to marshal result", "error", err)
			monitoring.RecordError(handlerName, "marshal")
			tracing.SetStatus(ctx, codes.Error, "marshal result")
			return core.NewError(core.ErrInternalError, "Failed to generate result").ToMCPResult(), nil
		}

		return mcp.NewToolResultText(string(resultBytes)), nil
	}
}

// errorResult converts a handler error into a tool error result with a
// usage example and counts quantity rejections per field.
func errorResult(toolName string, err error) *mcp.CallToolResult {
	var qe *footprint.QuantityError
	if errors.As(err, &qe) {
		monitoring.RecordValidationRejection(qe.Field)
	}

	mcpErr := core.FromError(err)
	if mcpErr.Code != string(core.ErrInternalError) && len(mcpErr.Suggestions) == 0 {
		mcpErr = mcpErr.WithSuggestions("Example input: " + GetToolUsageExample(toolName))
	}
	return mcpErr.ToMCPResult()
}
