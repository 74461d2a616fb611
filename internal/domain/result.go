package domain

// RawRecord is one decoded row of a primary statistics file.
type RawRecord struct {
	Date         string
	Mean         float64
	FlagCode     *int
	QualityLabel string
}

// AnalyzerResult is the output of one signal analyzer for one request.
// Numeric fields are rounded for presentation; classification used the
// unrounded mean.
type AnalyzerResult struct {
	Mean        float64  `json:"mean"`
	Max         float64  `json:"max"`
	Min         float64  `json:"min"`
	MeanCelsius *float64 `json:"meanCelsius,omitempty"`
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	Normalized  float64  `json:"normalized"`
	RecordCount int      `json:"recordCount"`
}

// Indicators are the four values the consuming application reads.
type Indicators struct {
	SoilMoistureAnomaly  float64 `json:"smapAnomaly"`
	TemperatureAnomalyC  float64 `json:"modisLST"`
	VegetationIndex      float64 `json:"ndvi"`
	FloodRiskProbability float64 `json:"floodRisk"`
}

// Analysis holds the full per-quantity analyzer results.
type Analysis struct {
	SoilMoisture AnalyzerResult `json:"soilMoisture"`
	Temperature  AnalyzerResult `json:"temperature"`
	Vegetation   AnalyzerResult `json:"vegetation"`
}

// DivisionData is the aggregated response for one division.
type DivisionData struct {
	Location   DivisionDescriptor `json:"location"`
	Indicators Indicators         `json:"nasaData"`
	Analysis   Analysis           `json:"analysis"`
}
