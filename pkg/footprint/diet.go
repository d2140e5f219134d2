package footprint

import "github.com/NERVsystems/footprintmcp/pkg/units"

// Diet coefficients. The vegan baseline and the marginal meat figure are
// derived from Scarborough et al., "Dietary greenhouse gas emissions of
// meat-eaters, fish-eaters, vegetarians and vegans in the UK" (Climatic
// Change, 2014). Milk, cheese and eggs come from "How Bad Are Bananas".
// Dairy other than milk and cheese is not counted.
const (
	// VeganKgPerDay is kg CO2E per day for a vegan diet in the UK
	VeganKgPerDay = 2.89

	// MeatKgPerGram is marginal kg CO2E per daily gram of meat
	MeatKgPerGram = 0.0268

	// CheeseKgPerGram is kg CO2E per gram of hard cheese (12 kg per kg)
	CheeseKgPerGram = 0.012

	// MilkKgPerLitre is kg CO2E per litre of milk (723 g per 2.7 L)
	MilkKgPerLitre = 0.2677777

	// EggKg is kg CO2E per egg (3.6 kg per dozen)
	EggKg = 0.3
)

// VeganDiet is the annual footprint in tonnes of a diet with no animal
// products. OfDiet always includes it.
var VeganDiet = units.DailyToAnnual(units.KgToTonnes(VeganKgPerDay))

// FromMeat returns annual tonnes CO2E from daily grams of meat.
func FromMeat(dailyMeatGrams float64) float64 {
	return units.DailyToAnnual(units.KgToTonnes(dailyMeatGrams * MeatKgPerGram))
}

// FromCheese returns annual tonnes CO2E from daily grams of cheese.
func FromCheese(dailyCheeseGrams float64) float64 {
	return units.DailyToAnnual(units.KgToTonnes(dailyCheeseGrams * CheeseKgPerGram))
}

// FromMilk returns annual tonnes CO2E from daily litres of milk.
func FromMilk(dailyMilkLitres float64) float64 {
	return units.DailyToAnnual(units.KgToTonnes(dailyMilkLitres * MilkKgPerLitre))
}

// FromEggs returns annual tonnes CO2E from eggs eaten per day.
func FromEggs(dailyEggs float64) float64 {
	return units.DailyToAnnual(units.KgToTonnes(dailyEggs * EggKg))
}

// OfDiet returns annual tonnes CO2E from diet: the vegan baseline plus
// daily meat (g), cheese (g), milk (L) and eggs.
func OfDiet(dailyMeatGrams, dailyCheeseGrams, dailyMilkLitres, dailyEggs float64) float64 {
	return VeganDiet +
		FromMeat(dailyMeatGrams) +
		FromCheese(dailyCheeseGrams) +
		FromMilk(dailyMilkLitres) +
		FromEggs(dailyEggs)
}

// DietInput holds the activity quantities for OfDiet.
type DietInput struct {
	DailyMeatGrams   float64 `json:"daily_meat_g" yaml:"daily_meat_g"`
	DailyCheeseGrams float64 `json:"daily_cheese_g" yaml:"daily_cheese_g"`
	DailyMilkLitres  float64 `json:"daily_milk_l" yaml:"daily_milk_l"`
	DailyEggs        float64 `json:"daily_eggs" yaml:"daily_eggs"`
}

// Validate rejects negative, NaN and infinite quantities.
func (in DietInput) Validate() error {
	return checkQuantities(
		quantity{"daily_meat_g", in.DailyMeatGrams},
		quantity{"daily_cheese_g", in.DailyCheeseGrams},
		quantity{"daily_milk_l", in.DailyMilkLitres},
		quantity{"daily_eggs", in.DailyEggs},
	)
}

// Footprint returns OfDiet for the input.
func (in DietInput) Footprint() float64 {
	return OfDiet(in.DailyMeatGrams, in.DailyCheeseGrams, in.DailyMilkLitres, in.DailyEggs)
}

// Breakdown returns the vegan baseline followed by one line per food.
func (in DietInput) Breakdown() []Line {
	return []Line{
		{GroupDiet, "vegan_baseline", VeganDiet},
		{GroupDiet, "meat", FromMeat(in.DailyMeatGrams)},
		{GroupDiet, "cheese", FromCheese(in.DailyCheeseGrams)},
		{GroupDiet, "milk", FromMilk(in.DailyMilkLitres)},
		{GroupDiet, "eggs", FromEggs(in.DailyEggs)},
	}
}
