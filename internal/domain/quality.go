package domain

// Quality labels derived from retrieval flag codes. They describe the input
// data and are reported by tooling; they never filter records.
const (
	QualityExcellent = "Excellent"
	QualityGood      = "Good"
	QualityModerate  = "Moderate"
	QualityPoor      = "Poor"
)

// SoilMoistureQuality maps a SMAP retrieval quality flag to a label.
func SoilMoistureQuality(flag int) string {
	switch flag {
	case 8:
		return QualityExcellent
	case 9:
		return QualityGood
	case 7:
		return QualityModerate
	case 13, 15:
		return QualityPoor
	default:
		return QualityModerate
	}
}

// TemperatureQuality maps a MODIS LST QC-Day flag to a label.
func TemperatureQuality(flag int) string {
	switch flag {
	case 0, 1, 17:
		return QualityExcellent
	case 65, 81, 97:
		return QualityGood
	case 129, 145:
		return QualityModerate
	case 2, 161:
		return QualityPoor
	default:
		return QualityModerate
	}
}
