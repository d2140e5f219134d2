package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

// CoefficientsResourceURI addresses the coefficient catalogue resource
const CoefficientsResourceURI = "footprint://coefficients"

// HandleCoefficientsResource serves the coefficient catalogue as JSON
func HandleCoefficientsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(footprint.Coefficients(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal coefficients: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CoefficientsResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// RegisterResources adds the read-only catalogue resource to the server
func (r *Registry) RegisterResources(mcpServer *server.MCPServer) {
	r.logger.Info("registering resource", "uri", CoefficientsResourceURI)
	mcpServer.AddResource(
		mcp.NewResource(CoefficientsResourceURI, "Emission coefficients",
			mcp.WithResourceDescription("Every emission coefficient with unit and cited source"),
			mcp.WithMIMEType("application/json"),
		),
		HandleCoefficientsResource,
	)
}
