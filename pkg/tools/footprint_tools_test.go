package tools

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/footprintmcp/pkg/core"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestGroupTools(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args      map[string]any
		expected  float64
		lineCount int
	}{
		{
			name:    "footprint_computing",
			handler: HandleFootprintComputing,
			args: map[string]any{
				"daily_online_hours": 4, "daily_phone_hours": 2,
				"new_light_devices": 2, "new_medium_devices": 1, "new_heavy_devices": 1,
			},
			expected:  3.7304,
			lineCount: 5,
		},
		{
			name:      "footprint_diet",
			handler:   HandleFootprintDiet,
			args:      map[string]any{"daily_meat_g": 126, "daily_cheese_g": 293.52, "daily_milk_l": 1, "daily_eggs": 1},
			expected:  3.7827,
			lineCount: 5,
		},
		{
			name:      "footprint_diet empty is vegan",
			handler:   HandleFootprintDiet,
			args:      map[string]any{},
			expected:  1.0556,
			lineCount: 5,
		},
		{
			name:      "footprint_transportation",
			handler:   HandleFootprintTransportation,
			args:      map[string]any{"weekly_bus_rides": 1, "weekly_rail_rides": 2, "weekly_uber_rides": 3, "weekly_km_driven": 4},
			expected:  0.3571,
			lineCount: 3,
		},
		{
			name:    "footprint_travel",
			handler: HandleFootprintTravel,
			args: map[string]any{
				"annual_long_flights": 6, "annual_short_flights": 4,
				"annual_train_rides": 24, "annual_coach_rides": 2, "annual_hotel_spend": 2000,
			},
			expected:  15.4034,
			lineCount: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(context.Background(), newRequest(tt.name, tt.args))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			AssertSuccessResult(t, result, "Expected success result, but got error")

			var output GroupOutput
			if err := ParseResultJSON(result, &output); err != nil {
				t.Fatalf("Failed to unmarshal result: %v", err)
			}

			if footprint.Round(output.Tonnes, 4) != tt.expected {
				t.Errorf("Expected %.4f tonnes, got %f", tt.expected, output.Tonnes)
			}
			if len(output.Breakdown) != tt.lineCount {
				t.Errorf("Expected %d breakdown lines, got %d", tt.lineCount, len(output.Breakdown))
			}

			sum := 0.0
			for _, line := range output.Breakdown {
				sum += line.Tonnes
			}
			if math.Abs(sum-output.Tonnes) > 1e-9 {
				t.Errorf("Breakdown sums to %f, total is %f", sum, output.Tonnes)
			}
		})
	}
}

func TestGroupToolRejectsNegative(t *testing.T) {
	result, err := HandleFootprintDiet(context.Background(), newRequest("footprint_diet", map[string]any{
		"daily_meat_g": -10,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mcpErr := ParseErrorResult(t, result)
	if mcpErr.Code != string(core.ErrInvalidQuantity) {
		t.Errorf("Expected code %s, got %s", core.ErrInvalidQuantity, mcpErr.Code)
	}
	if mcpErr.Field != "daily_meat_g" {
		t.Errorf("Expected field daily_meat_g, got %q", mcpErr.Field)
	}
	if len(mcpErr.Suggestions) == 0 {
		t.Error("Expected a usage example in suggestions")
	}
}

func TestGroupToolRejectsWrongType(t *testing.T) {
	result, err := HandleFootprintTravel(context.Background(), newRequest("footprint_travel", map[string]any{
		"annual_long_flights": "several",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if code := ParseErrorResult(t, result).Code; code != string(core.ErrInvalidInput) {
		t.Errorf("Expected code %s, got %s", core.ErrInvalidInput, code)
	}
}

func TestHandleFootprintActivity(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		expected  float64
		group     string
		errorCode core.ErrorCode
	}{
		{"meat", map[string]any{"activity": "meat", "quantity": 126}, 1.2333, "diet", ""},
		{"long flights", map[string]any{"activity": "long_flights", "quantity": 6}, 11.9748, "travel", ""},
		{"weekly driving", map[string]any{"activity": "driving_weekly", "quantity": 4}, 0.0465, "transportation", ""},
		{"transit", map[string]any{"activity": "transit", "quantity": 1, "second_quantity": 2}, 0.1173, "transportation", ""},
		{"zero quantity", map[string]any{"activity": "phone"}, 0, "computing", ""},
		{"missing activity", map[string]any{"quantity": 1}, 0, "", core.ErrMissingParameter},
		{"unknown activity", map[string]any{"activity": "yachting", "quantity": 1}, 0, "", core.ErrUnknownActivity},
		{"negative quantity", map[string]any{"activity": "meat", "quantity": -1}, 0, "", core.ErrInvalidQuantity},
		{"negative rail", map[string]any{"activity": "transit", "quantity": 1, "second_quantity": -2}, 0, "", core.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := HandleFootprintActivity(context.Background(), newRequest("footprint_activity", tt.args))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if tt.errorCode != "" {
				if code := ParseErrorResult(t, result).Code; code != string(tt.errorCode) {
					t.Errorf("Expected code %s, got %s", tt.errorCode, code)
				}
				return
			}

			AssertSuccessResult(t, result, "Expected success result, but got error")
			var output ActivityOutput
			if err := ParseResultJSON(result, &output); err != nil {
				t.Fatalf("Failed to unmarshal result: %v", err)
			}
			if math.Abs(output.Tonnes-tt.expected) > 1e-4 {
				t.Errorf("Expected %.4f tonnes, got %f", tt.expected, output.Tonnes)
			}
			if output.Group != tt.group {
				t.Errorf("Expected group %s, got %s", tt.group, output.Group)
			}
		})
	}
}

func TestUnknownActivitySuggestsNames(t *testing.T) {
	result, _ := HandleFootprintActivity(context.Background(), newRequest("footprint_activity", map[string]any{
		"activity": "yachting",
	}))

	mcpErr := ParseErrorResult(t, result)
	found := false
	for _, s := range mcpErr.Suggestions {
		if s == "transit" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected activity names in suggestions, got %v", mcpErr.Suggestions)
	}
}

func TestHandleListCoefficients(t *testing.T) {
	result, err := HandleListCoefficients(context.Background(), newRequest("list_coefficients", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	AssertSuccessResult(t, result, "Expected success result, but got error")

	var all CoefficientsOutput
	if err := ParseResultJSON(result, &all); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if len(all.Coefficients) != 20 {
		t.Errorf("Expected 20 coefficients, got %d", len(all.Coefficients))
	}

	result, _ = HandleListCoefficients(context.Background(), newRequest("list_coefficients", map[string]any{"group": "travel"}))
	var travel CoefficientsOutput
	if err := ParseResultJSON(result, &travel); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	for _, c := range travel.Coefficients {
		if c.Group != "travel" {
			t.Errorf("Unexpected group %s in travel listing", c.Group)
		}
	}
	if len(travel.Coefficients) != 5 {
		t.Errorf("Expected 5 travel coefficients, got %d", len(travel.Coefficients))
	}

	result, _ = HandleListCoefficients(context.Background(), newRequest("list_coefficients", map[string]any{"group": "housing"}))
	if code := ParseErrorResult(t, result).Code; code != string(core.ErrInvalidParameter) {
		t.Errorf("Expected code %s, got %s", core.ErrInvalidParameter, code)
	}
}

func TestHandleGetVersion(t *testing.T) {
	result, err := HandleGetVersion(context.Background(), newRequest("get_version", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	AssertSuccessResult(t, result, "Expected success result, but got error")

	var info VersionOutput
	if err := ParseResultJSON(result, &info); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if info.Build["version"] == "" {
		t.Error("Expected a build version")
	}
	if info.DaysPerYear != 365.2425 {
		t.Errorf("Expected the Gregorian year, got %v", info.DaysPerYear)
	}
	if len(info.Groups) != 4 || info.Coefficients == 0 || info.Activities == 0 {
		t.Errorf("Incomplete model summary: %+v", info)
	}
}

func TestHandleCoefficientsResource(t *testing.T) {
	contents, err := HandleCoefficientsResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("Expected 1 content, got %d", len(contents))
	}

	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("Expected text contents, got %T", contents[0])
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(text.Text), &list); err != nil {
		t.Fatalf("Resource is not a JSON list: %v", err)
	}
	if len(list) != 20 {
		t.Errorf("Expected 20 coefficients, got %d", len(list))
	}
}

func TestGetToolUsageExample(t *testing.T) {
	for _, name := range []string{"footprint_computing", "footprint_diet", "footprint_transportation", "footprint_travel", "footprint_activity", "footprint_report"} {
		var v map[string]any
		if err := json.Unmarshal([]byte(GetToolUsageExample(name)), &v); err != nil {
			t.Errorf("example for %s is not JSON: %v", name, err)
		}
	}
	if GetToolUsageExample("unknown") != "{}" {
		t.Error("unknown tool should get an empty example")
	}
}
