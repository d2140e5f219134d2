package tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/footprintmcp/pkg/core"
)

// ErrorResponse returns an INVALID_INPUT error result with the given message
func ErrorResponse(message string) *mcp.CallToolResult {
	return core.NewValidationError(core.ErrInvalidInput, message).ToMCPResult()
}

// GetToolUsageExample returns an example JSON snippet for using a specific tool.
// It is attached to error results as guidance.
func GetToolUsageExample(toolName string) string {
	examples := map[string]string{
		"footprint_computing": `{
  "daily_online_hours": 4,
  "daily_phone_hours": 2,
  "new_light_devices": 2,
  "new_medium_devices": 1,
  "new_heavy_devices": 1
}`,
		"footprint_diet": `{
  "daily_meat_g": 126,
  "daily_cheese_g": 29,
  "daily_milk_l": 0.25,
  "daily_eggs": 1
}`,
		"footprint_transportation": `{
  "weekly_bus_rides": 4,
  "weekly_rail_rides": 6,
  "weekly_uber_rides": 1,
  "weekly_km_driven": 120
}`,
		"footprint_travel": `{
  "annual_long_flights": 1,
  "annual_short_flights": 2,
  "annual_train_rides": 6,
  "annual_coach_rides": 0,
  "annual_hotel_spend": 800
}`,
		"footprint_activity": `{
  "activity": "meat",
  "quantity": 126
}`,
		"footprint_report": `{
  "diet": {"daily_meat_g": 126},
  "travel": {"annual_long_flights": 1}
}`,
	}

	if example, exists := examples[toolName]; exists {
		return example
	}
	return "{}"
}
