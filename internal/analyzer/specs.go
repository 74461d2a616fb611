package analyzer

import (
	"fmt"

	"github.com/couchcryptid/division-data-service/internal/domain"
)

// Data file names, identical in every division directory.
const (
	SoilMoistureFile = "geographic-soil-moisture-Statistics.csv"
	TemperatureFile  = "temperature-Statistics.csv"
	VegetationFile   = "vegetation-Statistics.csv"
)

// Companion quality-flag and lookup files per quantity.
var (
	SoilMoistureCompanions = []string{
		"geographic soil moisture flag statistic.csv",
		"geographic-Soil-Moisture-Retrieval-Data-AM-retrieval-qual-flag-lookup.csv",
	}
	TemperatureCompanions = []string{
		"temperature-QC-Day-Statistics-QA.csv",
		"temperature-QC-Day-lookup.csv",
	}
	VegetationCompanions = []string{
		"vegetation-250m-16-days-VI-Quality-Statistics-QA.csv",
		"vegetation-250m-16-days-VI-Quality-lookup.csv",
	}
)

// SoilMoistureSpec analyzes volumetric soil moisture (cm³/cm³). Records
// outside [0, 1] are dropped.
var SoilMoistureSpec = Spec{
	Name:       "soil_moisture",
	File:       SoilMoistureFile,
	Companions: SoilMoistureCompanions,
	Valid: func(r domain.RawRecord) bool {
		return r.Mean >= 0 && r.Mean <= 1
	},
	Ladder:    domain.SoilMoistureLadder,
	Precision: 3,
	Describe: func(t domain.Tier, mean float64) string {
		return fmt.Sprintf("%s (%.3f cm³/cm³)", t.Message, mean)
	},
	Quality: domain.SoilMoistureQuality,
}

// TemperatureSpec analyzes land-surface temperature in Kelvin. Thresholds
// stay in Kelvin; Celsius is for display.
var TemperatureSpec = Spec{
	Name:       "temperature",
	File:       TemperatureFile,
	Companions: TemperatureCompanions,
	Ladder:     domain.TemperatureLadder,
	Precision:  1,
	Describe: func(t domain.Tier, mean float64) string {
		return fmt.Sprintf("%s (%.1f°C)", t.Message, domain.KelvinToCelsius(mean))
	},
	Celsius: true,
	Quality: domain.TemperatureQuality,
}

// VegetationSpec analyzes NDVI. The indicator is the rounded mean itself.
var VegetationSpec = Spec{
	Name:       "vegetation",
	File:       VegetationFile,
	Companions: VegetationCompanions,
	Ladder:     domain.VegetationLadder,
	Precision:  3,
	Normalize: func(_ domain.Tier, mean float64) float64 {
		return mean
	},
}

// SoilMoisture creates the soil moisture analyzer.
func SoilMoisture(src Source) *Analyzer { return New(src, SoilMoistureSpec) }

// Temperature creates the land-surface temperature analyzer.
func Temperature(src Source) *Analyzer { return New(src, TemperatureSpec) }

// Vegetation creates the NDVI analyzer.
func Vegetation(src Source) *Analyzer { return New(src, VegetationSpec) }
