package domain

// DefaultFloodRisk is returned for divisions missing from the flood table.
const DefaultFloodRisk = 0.5

// FloodRisk returns the static flood probability for d.
//
// This is a placeholder lookup, not a sensor-derived value: the table lives in
// the embedded catalog and stands in for a terrain and rainfall model. Unlike
// the analyzers it degrades gracefully, returning DefaultFloodRisk for an
// unrecognized division instead of failing.
func FloodRisk(d Division) float64 {
	if risk, ok := catalog.FloodRisk[d]; ok {
		return risk
	}
	return DefaultFloodRisk
}
