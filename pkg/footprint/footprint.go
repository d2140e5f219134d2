// Package footprint estimates annual carbon-dioxide-equivalent (CO2E)
// emissions for an individual's computing, diet, local transportation
// and travel habits.
//
// Every formula multiplies an activity quantity by a fixed coefficient
// taken from a published source and converts the result to metric
// tonnes of CO2E per year. The formulas are pure and may be called
// concurrently. They do not validate their inputs: negative quantities
// produce negative footprints. Use the Validate methods on the input
// types, or Profile.Report, to reject quantities that cannot occur in
// practice.
package footprint

import "math"

// Incomplete marks a footprint that a caller has not calculated.
// No formula in this package returns it.
const Incomplete = -1

// Formula groups
const (
	GroupComputing      = "computing"
	GroupDiet           = "diet"
	GroupTransportation = "transportation"
	GroupTravel         = "travel"
)

// Groups lists the formula groups in report order.
var Groups = []string{GroupComputing, GroupDiet, GroupTransportation, GroupTravel}

// Line is one term of a footprint breakdown.
type Line struct {
	Group    string  `json:"group" yaml:"group"`
	Activity string  `json:"activity" yaml:"activity"`
	Tonnes   float64 `json:"tonnes" yaml:"tonnes"`
}

// Sum adds up the tonnes of all lines.
func Sum(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Tonnes
	}
	return total
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
