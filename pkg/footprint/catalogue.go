package footprint

import (
	"sort"

	"github.com/NERVsystems/footprintmcp/pkg/units"
)

// Coefficient describes one emission factor and where it comes from.
type Coefficient struct {
	Name   string  `json:"name" yaml:"name"`
	Group  string  `json:"group" yaml:"group"`
	Value  float64 `json:"value" yaml:"value"`
	Unit   string  `json:"unit" yaml:"unit"`
	Source string  `json:"source" yaml:"source"`
}

const (
	sourceBananas   = "Berners-Lee, How Bad Are Bananas? (2010)"
	sourceForbes    = "Forbes, How to calculate your carbon footprint (2008)"
	sourceDiet      = "Scarborough et al., Climatic Change 125 (2014)"
	sourceMAPC      = "MAPC, The growing carbon footprint of ride-hailing in Massachusetts"
	sourceMontreal  = "Transportation in Montreal, average transit trip length"
	sourceVIARail   = "VIA Rail, Sustainable Mobility Report 2016"
	sourceAppleEstm = "Estimate from Apple iPhone X environmental report"
)

var coefficients = []Coefficient{
	{"online", GroupComputing, OnlineGramsPerHour, "g CO2E per hour", sourceBananas},
	{"phone", GroupComputing, PhoneKgPerDailyHour, "kg CO2E per year of 1 hour/day", sourceBananas},
	{"new_light_device", GroupComputing, LightDeviceKg, "kg CO2E per device", sourceAppleEstm},
	{"new_medium_device", GroupComputing, MediumDeviceKg, "kg CO2E per device", sourceBananas},
	{"new_heavy_device", GroupComputing, HeavyDeviceKg, "kg CO2E per device", sourceBananas},
	{"vegan_baseline", GroupDiet, VeganKgPerDay, "kg CO2E per day", sourceDiet},
	{"meat", GroupDiet, MeatKgPerGram, "kg CO2E per gram", sourceDiet},
	{"cheese", GroupDiet, CheeseKgPerGram, "kg CO2E per gram", sourceBananas},
	{"milk", GroupDiet, MilkKgPerLitre, "kg CO2E per litre", sourceBananas},
	{"egg", GroupDiet, EggKg, "kg CO2E per egg", sourceBananas},
	{"driving", GroupTransportation, DrivingPoundsPerMile, "lb CO2E per mile", sourceForbes},
	{"ride_hailing", GroupTransportation, RideHailingTonnes / RideHailingTrips, "tonnes CO2E per trip", sourceMAPC},
	{"transit_trip_length", GroupTransportation, TransitTripKm, "km per trip", sourceMontreal},
	{"bus", GroupTransportation, BusGramsPerMile, "g CO2E per mile", sourceBananas},
	{"rail", GroupTransportation, RailGramsPerMile, "g CO2E per mile", sourceBananas},
	{"long_flight", GroupTravel, LongFlightPounds, "lb CO2E per flight", sourceForbes},
	{"short_flight", GroupTravel, ShortFlightPounds, "lb CO2E per flight", sourceForbes},
	{"train_ride", GroupTravel, TrainRideKg, "kg CO2E per ride", sourceVIARail},
	{"coach_ride", GroupTravel, CoachRideKg, "kg CO2E per ride", sourceBananas},
	{"hotel_spend", GroupTravel, HotelGramsPerCurrency, "g CO2E per currency unit", sourceBananas},
}

// Coefficients returns a copy of the emission factor catalogue.
func Coefficients() []Coefficient {
	out := make([]Coefficient, len(coefficients))
	copy(out, coefficients)
	return out
}

// Activity is a single-quantity formula addressable by name.
type Activity struct {
	Name    string
	Group   string
	Unit    string
	Compute func(quantity float64) float64
}

var activities = map[string]Activity{
	"online":             {"online", GroupComputing, "hours/day", FromOnline},
	"phone":              {"phone", GroupComputing, "hours/day", FromPhone},
	"new_light_devices":  {"new_light_devices", GroupComputing, "devices", FromNewLightDevices},
	"new_medium_devices": {"new_medium_devices", GroupComputing, "devices", FromNewMediumDevices},
	"new_heavy_devices":  {"new_heavy_devices", GroupComputing, "devices", FromNewHeavyDevices},
	"meat":               {"meat", GroupDiet, "g/day", FromMeat},
	"cheese":             {"cheese", GroupDiet, "g/day", FromCheese},
	"milk":               {"milk", GroupDiet, "L/day", FromMilk},
	"eggs":               {"eggs", GroupDiet, "eggs/day", FromEggs},
	"driving":            {"driving", GroupTransportation, "km/year", FromDriving},
	"driving_weekly": {"driving_weekly", GroupTransportation, "km/week", func(km float64) float64 {
		return FromDriving(units.WeeklyToAnnual(km))
	}},
	"taxi_uber": {"taxi_uber", GroupTransportation, "rides/week", FromTaxiUber},
	"bus": {"bus", GroupTransportation, "trips/week", func(n float64) float64 {
		return FromTransit(n, 0)
	}},
	"rail": {"rail", GroupTransportation, "trips/week", func(n float64) float64 {
		return FromTransit(0, n)
	}},
	"long_flights":  {"long_flights", GroupTravel, "flights/year", FromLongFlights},
	"short_flights": {"short_flights", GroupTravel, "flights/year", FromShortFlights},
	"train_rides":   {"train_rides", GroupTravel, "rides/year", FromTrainRides},
	"coach_rides":   {"coach_rides", GroupTravel, "rides/year", FromCoachRides},
	"hotels":        {"hotels", GroupTravel, "currency/year", FromHotels},
}

// LookupActivity returns the named activity formula.
func LookupActivity(name string) (Activity, bool) {
	a, ok := activities[name]
	return a, ok
}

// ActivityNames returns all activity names in sorted order.
func ActivityNames() []string {
	names := make([]string, 0, len(activities))
	for name := range activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
