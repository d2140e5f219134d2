package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/units"
	"github.com/NERVsystems/footprintmcp/pkg/version"
)

// VersionOutput describes the running build and the model it computes with
type VersionOutput struct {
	Build        map[string]string `json:"build"`
	Unit         string            `json:"unit"`
	DaysPerYear  float64           `json:"days_per_year"`
	Groups       []string          `json:"groups"`
	Activities   int               `json:"activities"`
	Coefficients int               `json:"coefficients"`
}

// GetVersionTool returns a tool definition for retrieving version information
func GetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the build of the footprint service and a summary of its emission model"),
	)
}

// HandleGetVersion reports build information and model constants
func HandleGetVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := VersionOutput{
		Build:        version.Info(),
		Unit:         "tCO2e/year",
		DaysPerYear:  units.DaysPerYear,
		Groups:       footprint.Groups,
		Activities:   len(footprint.ActivityNames()),
		Coefficients: len(footprint.Coefficients()),
	}

	resultBytes, err := json.Marshal(out)
	if err != nil {
		slog.Default().With("tool", "get_version").Error("failed to marshal version info", "error", err)
		return core.NewError(core.ErrInternalError, "Failed to retrieve version information").ToMCPResult(), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
