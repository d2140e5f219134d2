package footprint

import "github.com/NERVsystems/footprintmcp/pkg/units"

// Local transportation coefficients.
//
// Driving: Forbes, "How to calculate your carbon footprint" (2008),
// multiply yearly mileage by 0.79 lb.
// Ride hailing: MAPC, "The growing carbon footprint of ride-hailing in
// Massachusetts", 81 million trips produce 100,000 tonnes.
// Transit: the average Montreal transit trip is 7.7 km; a bus mile is
// 150 g and a metro mile 160 g ("How Bad Are Bananas").
const (
	// DrivingPoundsPerMile is lb CO2E per mile driven
	DrivingPoundsPerMile = 0.79

	// RideHailingTonnes and RideHailingTrips give the tonnes per trip ratio
	RideHailingTonnes = 100000.0
	RideHailingTrips  = 81000000.0

	// TransitTripKm is the assumed length of one transit trip
	TransitTripKm = 7.7

	// BusGramsPerMile is g CO2E per passenger mile by bus
	BusGramsPerMile = 150.0

	// RailGramsPerMile is g CO2E per passenger mile by metro or commuter rail
	RailGramsPerMile = 160.0
)

// FromDriving returns annual tonnes CO2E from the kilometres driven in a year.
func FromDriving(annualKmDriven float64) float64 {
	annualMiles := units.KmToMiles(annualKmDriven)
	return units.PoundsToTonnes(annualMiles * DrivingPoundsPerMile)
}

// FromTaxiUber returns annual tonnes CO2E from weekly taxi or ride-hailing trips.
func FromTaxiUber(weeklyRides float64) float64 {
	annualRides := units.WeeklyToAnnual(weeklyRides)
	return annualRides / RideHailingTrips * RideHailingTonnes
}

// ActivityTransit names the two-quantity FromTransit formula: weekly bus
// trips then weekly rail trips. It is not part of the single-quantity
// activity catalogue.
const ActivityTransit = "transit"

// FromTransit returns annual tonnes CO2E from weekly bus and rail trips.
func FromTransit(weeklyBusTrips, weeklyRailTrips float64) float64 {
	tripMiles := units.KmToMiles(TransitTripKm)
	busKg := units.WeeklyToAnnual(weeklyBusTrips * BusGramsPerMile * tripMiles / 1000)
	railKg := units.WeeklyToAnnual(weeklyRailTrips * RailGramsPerMile * tripMiles / 1000)
	return units.KgToTonnes(busKg + railKg)
}

// OfTransportation returns annual tonnes CO2E from local transportation.
// All quantities are weekly; the driving distance is annualized before
// it is passed to FromDriving.
func OfTransportation(weeklyBusRides, weeklyRailRides, weeklyUberRides, weeklyKmDriven float64) float64 {
	annualKmDriven := units.WeeklyToAnnual(weeklyKmDriven)
	return FromDriving(annualKmDriven) +
		FromTaxiUber(weeklyUberRides) +
		FromTransit(weeklyBusRides, weeklyRailRides)
}

// TransportationInput holds the weekly quantities for OfTransportation.
type TransportationInput struct {
	WeeklyBusRides  float64 `json:"weekly_bus_rides" yaml:"weekly_bus_rides"`
	WeeklyRailRides float64 `json:"weekly_rail_rides" yaml:"weekly_rail_rides"`
	WeeklyUberRides float64 `json:"weekly_uber_rides" yaml:"weekly_uber_rides"`
	WeeklyKmDriven  float64 `json:"weekly_km_driven" yaml:"weekly_km_driven"`
}

// Validate rejects negative, NaN and infinite quantities.
func (in TransportationInput) Validate() error {
	return checkQuantities(
		quantity{"weekly_bus_rides", in.WeeklyBusRides},
		quantity{"weekly_rail_rides", in.WeeklyRailRides},
		quantity{"weekly_uber_rides", in.WeeklyUberRides},
		quantity{"weekly_km_driven", in.WeeklyKmDriven},
	)
}

// Footprint returns OfTransportation for the input.
func (in TransportationInput) Footprint() float64 {
	return OfTransportation(in.WeeklyBusRides, in.WeeklyRailRides, in.WeeklyUberRides, in.WeeklyKmDriven)
}

// Breakdown returns driving, taxi and transit lines.
func (in TransportationInput) Breakdown() []Line {
	return []Line{
		{GroupTransportation, "driving", FromDriving(units.WeeklyToAnnual(in.WeeklyKmDriven))},
		{GroupTransportation, "taxi_uber", FromTaxiUber(in.WeeklyUberRides)},
		{GroupTransportation, ActivityTransit, FromTransit(in.WeeklyBusRides, in.WeeklyRailRides)},
	}
}
