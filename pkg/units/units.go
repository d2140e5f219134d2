// Package units provides the scalar conversions shared by the footprint
// formulas. Every conversion is a single multiplication and is defined
// for any real input.
package units

const (
	// KgPerTonne is the number of kilograms in a metric tonne
	KgPerTonne = 1000.0

	// TonnesPerPound converts avoirdupois pounds to metric tonnes
	TonnesPerPound = 0.000453592

	// DaysPerYear is the mean Gregorian year
	DaysPerYear = 365.2425

	// WeeksPerYear is derived from the mean Gregorian year
	WeeksPerYear = DaysPerYear / 7

	// MilesPerKm converts kilometres to statute miles
	MilesPerKm = 0.621371
)

// KgToTonnes converts kilograms to metric tonnes.
func KgToTonnes(kg float64) float64 {
	return kg / KgPerTonne
}

// PoundsToTonnes converts pounds to metric tonnes.
func PoundsToTonnes(lb float64) float64 {
	return lb * TonnesPerPound
}

// DailyToAnnual scales a per-day quantity to a per-year quantity.
func DailyToAnnual(perDay float64) float64 {
	return perDay * DaysPerYear
}

// WeeklyToAnnual scales a per-week quantity to a per-year quantity.
func WeeklyToAnnual(perWeek float64) float64 {
	return perWeek * DaysPerYear / 7
}

// KmToMiles converts kilometres to miles.
func KmToMiles(km float64) float64 {
	return km * MilesPerKm
}
