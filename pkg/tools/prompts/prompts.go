// Package prompts holds the MCP prompts of the footprint server.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

// MethodologyPromptName is the name of the methodology prompt
const MethodologyPromptName = "footprint_methodology"

const methodologyIntro = `You estimate annual carbon footprints in metric tonnes of CO2 equivalent (CO2E) per year.

Rules:
- Use the footprint tools for every number; never estimate a coefficient yourself.
- Ask for quantities in the units the tools expect: hours/day for online and phone use, grams/day for meat and cheese, litres/day for milk, eggs/day, rides/week and km/week for local transportation, flights, rides and hotel spend per year for travel.
- Quantities are never negative. Unknown quantities count as zero.
- The diet total always includes a vegan baseline of about 1.06 tonnes per year, even when nothing else is eaten.
- Years have 365.2425 days; weekly quantities are annualized with 365.2425/7 weeks.
- Report results rounded to 2 decimals and name the largest contributing activity.
`

// MethodologyPrompt returns the methodology text, optionally limited to
// the coefficients of one group.
func MethodologyPrompt(group string) string {
	var b strings.Builder
	b.WriteString(methodologyIntro)
	b.WriteString("\nCoefficients:\n")
	for _, c := range footprint.Coefficients() {
		if group != "" && c.Group != group {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s): %g %s. Source: %s\n", c.Name, c.Group, c.Value, c.Unit, c.Source)
	}
	return b.String()
}

// RegisterFootprintPrompts adds the methodology prompt to the server
func RegisterFootprintPrompts(srv *server.MCPServer) {
	prompt := mcp.NewPrompt(MethodologyPromptName,
		mcp.WithPromptDescription("Assistant instructions describing footprint units, conventions and sources"),
		mcp.WithArgument("group",
			mcp.ArgumentDescription("Optional formula group: "+strings.Join(footprint.Groups, ", ")),
		),
	)

	srv.AddPrompt(prompt, func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		group := req.Params.Arguments["group"]
		return mcp.NewGetPromptResult(
			"Footprint Methodology",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(
					mcp.RoleAssistant,
					mcp.NewTextContent(MethodologyPrompt(group)),
				),
			},
		), nil
	})
}
