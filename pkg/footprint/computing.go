package footprint

import "github.com/NERVsystems/footprintmcp/pkg/units"

// Computing coefficients. Online use, phone use, laptops and
// workstations come from "How Bad Are Bananas" (Berners-Lee, 2010).
// The light device figure is an estimate based on Apple's iPhone X
// environmental report.
const (
	// OnlineGramsPerHour is g CO2E per hour spent online
	OnlineGramsPerHour = 55.0

	// PhoneKgPerDailyHour is kg CO2E for a year of one hour of phone use a day
	PhoneKgPerDailyHour = 1250.0

	// LightDeviceKg is kg CO2E to make a phone, tablet or similar device
	LightDeviceKg = 75.0

	// MediumDeviceKg is kg CO2E to make a laptop
	MediumDeviceKg = 200.0

	// HeavyDeviceKg is kg CO2E to make a workstation
	HeavyDeviceKg = 800.0
)

// FromOnline returns annual tonnes CO2E from daily hours of online use.
func FromOnline(dailyOnlineHours float64) float64 {
	return units.KgToTonnes(units.DailyToAnnual(dailyOnlineHours * OnlineGramsPerHour / 1000))
}

// FromPhone returns annual tonnes CO2E from daily hours of phone use.
func FromPhone(dailyPhoneHours float64) float64 {
	return units.KgToTonnes(dailyPhoneHours * PhoneKgPerDailyHour)
}

// FromNewLightDevices returns tonnes CO2E for phones and tablets bought this year.
func FromNewLightDevices(count float64) float64 {
	return units.KgToTonnes(count * LightDeviceKg)
}

// FromNewMediumDevices returns tonnes CO2E for laptops bought this year.
func FromNewMediumDevices(count float64) float64 {
	return units.KgToTonnes(count * MediumDeviceKg)
}

// FromNewHeavyDevices returns tonnes CO2E for workstations bought this year.
func FromNewHeavyDevices(count float64) float64 {
	return units.KgToTonnes(count * HeavyDeviceKg)
}

// OfComputing returns annual tonnes CO2E from computing: daily hours
// online and on the phone, plus the light, medium and heavy devices
// bought during the year.
func OfComputing(dailyOnlineHours, dailyPhoneHours, newLightDevices, newMediumDevices, newHeavyDevices float64) float64 {
	return FromOnline(dailyOnlineHours) +
		FromPhone(dailyPhoneHours) +
		FromNewLightDevices(newLightDevices) +
		FromNewMediumDevices(newMediumDevices) +
		FromNewHeavyDevices(newHeavyDevices)
}

// ComputingInput holds the activity quantities for OfComputing.
type ComputingInput struct {
	DailyOnlineHours float64 `json:"daily_online_hours" yaml:"daily_online_hours"`
	DailyPhoneHours  float64 `json:"daily_phone_hours" yaml:"daily_phone_hours"`
	NewLightDevices  float64 `json:"new_light_devices" yaml:"new_light_devices"`
	NewMediumDevices float64 `json:"new_medium_devices" yaml:"new_medium_devices"`
	NewHeavyDevices  float64 `json:"new_heavy_devices" yaml:"new_heavy_devices"`
}

// Validate rejects negative, NaN and infinite quantities.
func (in ComputingInput) Validate() error {
	return checkQuantities(
		quantity{"daily_online_hours", in.DailyOnlineHours},
		quantity{"daily_phone_hours", in.DailyPhoneHours},
		quantity{"new_light_devices", in.NewLightDevices},
		quantity{"new_medium_devices", in.NewMediumDevices},
		quantity{"new_heavy_devices", in.NewHeavyDevices},
	)
}

// Footprint returns OfComputing for the input.
func (in ComputingInput) Footprint() float64 {
	return OfComputing(in.DailyOnlineHours, in.DailyPhoneHours, in.NewLightDevices, in.NewMediumDevices, in.NewHeavyDevices)
}

// Breakdown returns one line per computing formula.
func (in ComputingInput) Breakdown() []Line {
	return []Line{
		{GroupComputing, "online", FromOnline(in.DailyOnlineHours)},
		{GroupComputing, "phone", FromPhone(in.DailyPhoneHours)},
		{GroupComputing, "new_light_devices", FromNewLightDevices(in.NewLightDevices)},
		{GroupComputing, "new_medium_devices", FromNewMediumDevices(in.NewMediumDevices)},
		{GroupComputing, "new_heavy_devices", FromNewHeavyDevices(in.NewHeavyDevices)},
	}
}
