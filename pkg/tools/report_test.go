package tools

import (
	"context"
	"testing"

	"github.com/NERVsystems/footprintmcp/pkg/cache"
	"github.com/NERVsystems/footprintmcp/pkg/core"
)

func TestHandleFootprintReport(t *testing.T) {
	reports, err := cache.NewReportCache(8, nil)
	if err != nil {
		t.Fatalf("NewReportCache: %v", err)
	}
	handler := HandleFootprintReport(reports)

	args := map[string]any{
		"computing":      map[string]any{"daily_online_hours": 4, "daily_phone_hours": 2, "new_light_devices": 2, "new_medium_devices": 1, "new_heavy_devices": 1},
		"diet":           map[string]any{"daily_meat_g": 126, "daily_cheese_g": 293.52, "daily_milk_l": 1, "daily_eggs": 1},
		"transportation": map[string]any{"weekly_bus_rides": 1, "weekly_rail_rides": 2, "weekly_uber_rides": 3, "weekly_km_driven": 4},
		"travel":         map[string]any{"annual_long_flights": 6, "annual_short_flights": 4, "annual_train_rides": 24, "annual_coach_rides": 2, "annual_hotel_spend": 2000},
	}

	result, err := handler(context.Background(), newRequest("footprint_report", args))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	AssertSuccessResult(t, result, "Expected success result, but got error")

	var output ReportOutput
	if err := ParseResultJSON(result, &output); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}

	expected := map[string]float64{
		"computing":      3.7304,
		"diet":           3.7827,
		"transportation": 0.3571,
		"travel":         15.4034,
		"total":          23.2736,
	}
	for key, want := range expected {
		if got := output.Rounded[key]; got != want {
			t.Errorf("Rounded[%s] = %v, want %v", key, got, want)
		}
	}
	if output.Cached {
		t.Error("First report should not be cached")
	}
	if len(output.Lines) != 18 {
		t.Errorf("Expected 18 lines, got %d", len(output.Lines))
	}

	result, _ = handler(context.Background(), newRequest("footprint_report", args))
	if err := ParseResultJSON(result, &output); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if !output.Cached {
		t.Error("Second identical report should be served from cache")
	}
}

func TestHandleFootprintReportEmptyProfile(t *testing.T) {
	reports, _ := cache.NewReportCache(8, nil)

	result, err := HandleFootprintReport(reports)(context.Background(), newRequest("footprint_report", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var output ReportOutput
	if err := ParseResultJSON(result, &output); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if output.Rounded["total"] != 1.0556 {
		t.Errorf("Empty profile should equal the vegan baseline, got %v", output.Rounded["total"])
	}
}

func TestHandleFootprintReportInvalid(t *testing.T) {
	reports, _ := cache.NewReportCache(8, nil)

	result, err := HandleFootprintReport(reports)(context.Background(), newRequest("footprint_report", map[string]any{
		"transportation": map[string]any{"weekly_km_driven": -40},
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mcpErr := ParseErrorResult(t, result)
	if mcpErr.Code != string(core.ErrInvalidQuantity) || mcpErr.Field != "weekly_km_driven" {
		t.Errorf("Unexpected error %+v", mcpErr)
	}
	if reports.Len() != 0 {
		t.Error("Invalid profiles must not be cached")
	}
}
