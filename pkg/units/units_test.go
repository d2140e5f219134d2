package units

import (
	"math"
	"testing"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(float64) float64
		input    float64
		expected float64
	}{
		{"kg to tonnes", KgToTonnes, 2500, 2.5},
		{"pounds to tonnes", PoundsToTonnes, 1000, 0.453592},
		{"daily to annual", DailyToAnnual, 2, 730.485},
		{"weekly to annual", WeeklyToAnnual, 7, 365.2425},
		{"km to miles", KmToMiles, 100, 62.1371},
		{"zero kg", KgToTonnes, 0, 0},
		{"negative passes through", KgToTonnes, -1000, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.input)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestWeeksPerYear(t *testing.T) {
	if math.Abs(WeeklyToAnnual(1)-WeeksPerYear) > 1e-12 {
		t.Errorf("WeeklyToAnnual(1) = %f, want %f", WeeklyToAnnual(1), WeeksPerYear)
	}
	if WeeksPerYear < 52 || WeeksPerYear > 52.2 {
		t.Errorf("unexpected weeks per year: %f", WeeksPerYear)
	}
}
