// Package domain models satellite-derived agronomic indicators for the
// administrative divisions of Bangladesh.
//
// # Data Source
//
// Indicator series are exported per division as CSV statistics files from
// NASA AppEEARS area requests. Each division has its own directory under the
// data root, named with a capitalized division identifier ("Rajshahi",
// "Sylhet"). The directory holds three primary statistics files, one per
// physical quantity, and two companion quality files for each:
//
//	geographic-soil-moisture-Statistics.csv          SMAP soil moisture (cm³/cm³)
//	temperature-Statistics.csv                       MODIS land-surface temperature (Kelvin)
//	vegetation-Statistics.csv                        MODIS 250m 16-day NDVI (unitless)
//
// Every primary file has a header row; the aggregate of interest is the
// "Mean" column. "Date", "FlagCode" and "Quality_Simple" are read when present.
//
// # Conventions
//
// Soil moisture:
//
//	Volumetric fraction in [0, 1]. SMAP writes fill values (-9999) and the
//	occasional out-of-range retrieval; anything outside [0, 1] is dropped
//	before aggregation.
//
// Temperature:
//
//	Kelvin. Thresholds are defined in Kelvin; Celsius (K − 273.15) is derived
//	for messages and display only.
//
// Vegetation:
//
//	NDVI. The published indicator is the rounded mean NDVI itself.
//
// # Status Ladders
//
// Each quantity is classified from its mean by an ordered ladder of cutoffs,
// most favourable first. The first satisfied cutoff wins; a mean that
// satisfies none falls to the worst tier:
//
//	Soil moisture (≥): 0.30 OPTIMAL | 0.25 GOOD | 0.20 MODERATE STRESS | 0.15 HIGH STRESS | CRITICAL
//	Temperature  (≤):  293K OPTIMAL | 298K GOOD | 303K MODERATE STRESS | 308K HIGH STRESS | CRITICAL
//	NDVI         (≥):  0.65 EXCELLENT | 0.50 GOOD | 0.35 MODERATE | 0.20 FAIR | POOR
//
// # Flood Risk
//
// Flood risk is a static per-division probability from the embedded catalog.
// It is a placeholder for a terrain and rainfall model and is not derived from
// any sensor file. See [FloodRisk].
package domain
