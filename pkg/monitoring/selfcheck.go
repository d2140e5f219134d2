package monitoring

import (
	"fmt"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

type scenario struct {
	name string
	got  func() float64
	want float64
}

// Reference profiles with their published results at 4 decimals.
var scenarios = []scenario{
	{"computing", func() float64 { return footprint.OfComputing(4, 2, 2, 1, 1) }, 3.7304},
	{"diet", func() float64 { return footprint.OfDiet(126, 293.52, 1, 1) }, 3.7827},
	{"transportation", func() float64 { return footprint.OfTransportation(1, 2, 3, 4) }, 0.3571},
	{"travel", func() float64 { return footprint.OfTravel(6, 4, 24, 2, 2000) }, 15.4034},
	{"vegan", func() float64 { return footprint.OfDiet(0, 0, 0, 0) }, 1.0556},
}

// CheckCalculator recomputes the reference scenarios and fails if any
// drifts from its expected value.
func CheckCalculator() error {
	for _, s := range scenarios {
		if got := footprint.Round(s.got(), 4); got != s.want {
			return fmt.Errorf("%s scenario: got %.4f, want %.4f", s.name, got, s.want)
		}
	}
	return nil
}
