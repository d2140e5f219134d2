package footprint

import "github.com/NERVsystems/footprintmcp/pkg/units"

// Travel coefficients.
//
// Flights: Forbes (2008), 1,100 lb per flight of four hours or less and
// 4,400 lb per longer flight.
// Trains: VIA Rail 2016 sustainable mobility report, 137,007 tonnes for
// 3,974,000 riders.
// Coaches: half of a 66 kg New York to Niagara Falls round trip ("How
// Bad Are Bananas").
// Hotels: 270 g per unit of currency spent ("How Bad Are Bananas").
const (
	// LongFlightPounds is lb CO2E per flight longer than four hours
	LongFlightPounds = 4400.0

	// ShortFlightPounds is lb CO2E per flight of four hours or less
	ShortFlightPounds = 1100.0

	// TrainRideKg is kg CO2E per intercity train ride
	TrainRideKg = 34.45

	// CoachRideKg is kg CO2E per intercity coach ride
	CoachRideKg = 33.0

	// HotelGramsPerCurrency is g CO2E per unit of currency spent on hotels
	HotelGramsPerCurrency = 270.0
)

// FromLongFlights returns tonnes CO2E from the long flights taken in a year.
func FromLongFlights(annualLongFlights float64) float64 {
	return units.PoundsToTonnes(LongFlightPounds * annualLongFlights)
}

// FromShortFlights returns tonnes CO2E from the short flights taken in a year.
func FromShortFlights(annualShortFlights float64) float64 {
	return units.PoundsToTonnes(ShortFlightPounds * annualShortFlights)
}

// FromTrainRides returns tonnes CO2E from intercity train rides in a year.
func FromTrainRides(annualTrainRides float64) float64 {
	return units.KgToTonnes(annualTrainRides * TrainRideKg)
}

// FromCoachRides returns tonnes CO2E from intercity coach rides in a year.
func FromCoachRides(annualCoachRides float64) float64 {
	return units.KgToTonnes(annualCoachRides * CoachRideKg)
}

// FromHotels returns tonnes CO2E from a year's hotel spending.
func FromHotels(annualHotelSpend float64) float64 {
	return units.KgToTonnes(annualHotelSpend * HotelGramsPerCurrency / 1000)
}

// OfTravel returns annual tonnes CO2E from long flights (over four
// hours), short flights, intercity train rides, intercity coach rides
// and hotel spending.
func OfTravel(annualLongFlights, annualShortFlights, annualTrainRides, annualCoachRides, annualHotelSpend float64) float64 {
	return FromLongFlights(annualLongFlights) +
		FromShortFlights(annualShortFlights) +
		FromTrainRides(annualTrainRides) +
		FromCoachRides(annualCoachRides) +
		FromHotels(annualHotelSpend)
}

// TravelInput holds the annual quantities for OfTravel.
type TravelInput struct {
	AnnualLongFlights  float64 `json:"annual_long_flights" yaml:"annual_long_flights"`
	AnnualShortFlights float64 `json:"annual_short_flights" yaml:"annual_short_flights"`
	AnnualTrainRides   float64 `json:"annual_train_rides" yaml:"annual_train_rides"`
	AnnualCoachRides   float64 `json:"annual_coach_rides" yaml:"annual_coach_rides"`
	AnnualHotelSpend   float64 `json:"annual_hotel_spend" yaml:"annual_hotel_spend"`
}

// Validate rejects negative, NaN and infinite quantities.
func (in TravelInput) Validate() error {
	return checkQuantities(
		quantity{"annual_long_flights", in.AnnualLongFlights},
		quantity{"annual_short_flights", in.AnnualShortFlights},
		quantity{"annual_train_rides", in.AnnualTrainRides},
		quantity{"annual_coach_rides", in.AnnualCoachRides},
		quantity{"annual_hotel_spend", in.AnnualHotelSpend},
	)
}

// Footprint returns OfTravel for the input.
func (in TravelInput) Footprint() float64 {
	return OfTravel(in.AnnualLongFlights, in.AnnualShortFlights, in.AnnualTrainRides, in.AnnualCoachRides, in.AnnualHotelSpend)
}

// Breakdown returns one line per travel formula.
func (in TravelInput) Breakdown() []Line {
	return []Line{
		{GroupTravel, "long_flights", FromLongFlights(in.AnnualLongFlights)},
		{GroupTravel, "short_flights", FromShortFlights(in.AnnualShortFlights)},
		{GroupTravel, "train_rides", FromTrainRides(in.AnnualTrainRides)},
		{GroupTravel, "coach_rides", FromCoachRides(in.AnnualCoachRides)},
		{GroupTravel, "hotels", FromHotels(in.AnnualHotelSpend)},
	}
}
