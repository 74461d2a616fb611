package domain

import "math"

// Tier is one rung of a status ladder.
type Tier struct {
	Status  string
	Message string
	// Output is the normalized value the consuming application reads for
	// this tier (an anomaly for soil moisture and temperature).
	Output float64
}

// Comparison selects how a ladder compares a value against its cutoffs.
type Comparison int

const (
	// AtLeast: higher is better, a value qualifies when value >= cutoff.
	AtLeast Comparison = iota
	// AtMost: lower is better, a value qualifies when value <= cutoff.
	AtMost
)

// Step pairs a cutoff with the tier it selects.
type Step struct {
	Cutoff float64
	Tier   Tier
}

// Ladder is an ordered list of cutoffs from most to least favourable, with
// a floor tier for values that satisfy none of them.
type Ladder struct {
	Compare Comparison
	Steps   []Step
	Floor   Tier
}

// Classify returns the first tier whose cutoff v satisfies, or the floor.
// It is total: NaN satisfies nothing and lands on the floor.
func (l Ladder) Classify(v float64) Tier {
	for _, s := range l.Steps {
		if l.satisfies(v, s.Cutoff) {
			return s.Tier
		}
	}
	return l.Floor
}

func (l Ladder) satisfies(v, cutoff float64) bool {
	if l.Compare == AtMost {
		return v <= cutoff
	}
	return v >= cutoff
}

// Soil moisture tiers for wheat, cm³/cm³.
var SoilMoistureLadder = Ladder{
	Compare: AtLeast,
	Steps: []Step{
		{0.30, Tier{"OPTIMAL", "Perfect soil moisture for wheat growth", 0.1}},
		{0.25, Tier{"GOOD", "Good soil moisture conditions", 0}},
		{0.20, Tier{"MODERATE STRESS", "Moderate drought stress - consider irrigation", -0.15}},
		{0.15, Tier{"HIGH STRESS", "High drought stress - irrigation needed", -0.3}},
	},
	Floor: Tier{"CRITICAL", "Critical drought - immediate irrigation required", -0.4},
}

// Land-surface temperature tiers for wheat, Kelvin. Output is the
// temperature anomaly in °C.
var TemperatureLadder = Ladder{
	Compare: AtMost,
	Steps: []Step{
		{293, Tier{"OPTIMAL", "Perfect temperature for wheat growth", 0}},
		{298, Tier{"GOOD", "Good conditions for wheat", 1.0}},
		{303, Tier{"MODERATE STRESS", "Moderate heat stress - monitor closely", 2.5}},
		{308, Tier{"HIGH STRESS", "High heat stress - irrigation needed", 4.0}},
	},
	Floor: Tier{"CRITICAL", "Critical heat stress - crop damage likely", 5.0},
}

// NDVI crop-health tiers. Output is unused; the published indicator is the
// mean NDVI.
var VegetationLadder = Ladder{
	Compare: AtLeast,
	Steps: []Step{
		{0.65, Tier{Status: "EXCELLENT", Message: "Excellent crop health and vigor"}},
		{0.50, Tier{Status: "GOOD", Message: "Good crop health"}},
		{0.35, Tier{Status: "MODERATE", Message: "Moderate crop health - monitor for stress"}},
		{0.20, Tier{Status: "FAIR", Message: "Fair crop health - consider intervention"}},
	},
	Floor: Tier{Status: "POOR", Message: "Poor vegetation health - critical intervention needed"},
}

// KelvinOffset converts Kelvin to Celsius.
const KelvinOffset = 273.15

// KelvinToCelsius is used for display only; classification stays in Kelvin.
func KelvinToCelsius(k float64) float64 {
	return k - KelvinOffset
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	r := math.Round(v*p) / p
	if r == 0 {
		// Drop the sign so -0 never reaches JSON.
		return 0
	}
	return r
}
