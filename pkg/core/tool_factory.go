package core

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// QuantityParam describes one numeric activity input of a tool.
type QuantityParam struct {
	Name        string
	Description string
	Required    bool
}

// ToolFactory builds tool definitions whose inputs are activity quantities
type ToolFactory struct{}

// NewToolFactory creates a new tool factory
func NewToolFactory() *ToolFactory {
	return &ToolFactory{}
}

// CreateBasicTool creates a new tool with the specified name and description
func (f *ToolFactory) CreateBasicTool(name, description string) mcp.Tool {
	return mcp.NewTool(name, mcp.WithDescription(description))
}

// CreateQuantityTool creates a tool with one non-negative number per
// parameter. Optional parameters default to 0.
func (f *ToolFactory) CreateQuantityTool(name, description string, params ...QuantityParam) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, p := range params {
		propOpts := []mcp.PropertyOption{
			mcp.Description(p.Description),
			mcp.Min(0),
		}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		} else {
			propOpts = append(propOpts, mcp.DefaultNumber(0))
		}
		opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
	}
	return mcp.NewTool(name, opts...)
}
