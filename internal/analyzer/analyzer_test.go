package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/couchcryptid/division-data-service/internal/ingest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource serves file contents from memory and records every read.
type memSource struct {
	mu    sync.Mutex
	files map[string]string
	reads []string
}

func (m *memSource) Read(_ context.Context, d domain.Division, file string) (*ingest.Table, error) {
	m.mu.Lock()
	m.reads = append(m.reads, file)
	m.mu.Unlock()

	content, ok := m.files[file]
	if !ok {
		return nil, domain.NewFileNotFound(d, file, fs.ErrNotExist)
	}
	t, err := ingest.Parse(strings.NewReader(content))
	if err != nil {
		return nil, domain.NewParseError(d, file, err)
	}
	return t, nil
}

// withCompanions adds minimal companion files for every analyzer.
func withCompanions(files map[string]string) map[string]string {
	for _, group := range [][]string{SoilMoistureCompanions, TemperatureCompanions, VegetationCompanions} {
		for _, c := range group {
			if _, ok := files[c]; !ok {
				files[c] = "Date,FlagCode,Quality_Simple\n2024-01-01,8,Excellent\n"
			}
		}
	}
	return files
}

func meansCSV(means ...string) string {
	var b strings.Builder
	b.WriteString("Date,Mean\n")
	for i, m := range means {
		fmt.Fprintf(&b, "2024-01-%02d,%s\n", i+1, m)
	}
	return b.String()
}

func TestSoilMoisture_ScenarioA(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{
		SoilMoistureFile: meansCSV("0.32", "0.28", "-0.1", "0.31"),
	})}

	got, err := SoilMoisture(src).Analyze(context.Background(), domain.Rajshahi)
	require.NoError(t, err)

	assert.Equal(t, 3, got.RecordCount)
	assert.InDelta(t, 0.303, got.Mean, 1e-9)
	assert.InDelta(t, 0.32, got.Max, 1e-9)
	assert.InDelta(t, 0.28, got.Min, 1e-9)
	assert.Equal(t, "OPTIMAL", got.Status)
	assert.InDelta(t, 0.1, got.Normalized, 1e-12)
	assert.Equal(t, "Perfect soil moisture for wheat growth (0.303 cm³/cm³)", got.Message)
	assert.Nil(t, got.MeanCelsius)
}

func TestSoilMoisture_OutOfRangeExcluded(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{
		SoilMoistureFile: meansCSV("1.5", "0.22", "-9999", "0.18", "1.0", "0"),
	})}

	got, err := SoilMoisture(src).Analyze(context.Background(), domain.Khulna)
	require.NoError(t, err)

	assert.Equal(t, 4, got.RecordCount)
	assert.InDelta(t, 1.0, got.Max, 1e-9, "1.0 is the inclusive upper bound")
	assert.InDelta(t, 0.0, got.Min, 1e-9, "0 is the inclusive lower bound")
	assert.InDelta(t, 0.35, got.Mean, 1e-9)
}

func TestTemperature_ScenarioB(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{
		TemperatureFile: meansCSV("310", "312.4", "311"),
	})}

	got, err := Temperature(src).Analyze(context.Background(), domain.Rajshahi)
	require.NoError(t, err)

	assert.Equal(t, "CRITICAL", got.Status)
	assert.InDelta(t, 5.0, got.Normalized, 1e-12)
	assert.InDelta(t, 311.1, got.Mean, 1e-9)
	assert.InDelta(t, 312.4, got.Max, 1e-9)
	assert.InDelta(t, 310.0, got.Min, 1e-9)
	require.NotNil(t, got.MeanCelsius)
	assert.InDelta(t, 311.1333-273.15, *got.MeanCelsius, 0.05)
	assert.Equal(t, "Critical heat stress - crop damage likely (38.0°C)", got.Message)
}

func TestTemperature_NoRangeFilter(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{
		TemperatureFile: meansCSV("-5", "290"),
	})}

	got, err := Temperature(src).Analyze(context.Background(), domain.Sylhet)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RecordCount)
	assert.Equal(t, "OPTIMAL", got.Status)
}

func TestVegetation_NormalizedIsRoundedMean(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{
		VegetationFile: meansCSV("0.61", "0.5555", "0.70"),
	})}

	got, err := Vegetation(src).Analyze(context.Background(), domain.Barishal)
	require.NoError(t, err)

	assert.Equal(t, "GOOD", got.Status)
	assert.Equal(t, "Good crop health", got.Message)
	assert.InDelta(t, 0.622, got.Mean, 1e-9)
	assert.Equal(t, got.Mean, got.Normalized)
}

func TestVegetation_NearZeroMeanPublishesPositiveZero(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{
		VegetationFile: meansCSV("-0.0004", "-0.0002"),
	})}

	got, err := Vegetation(src).Analyze(context.Background(), domain.Rajshahi)
	require.NoError(t, err)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "-0")
	assert.Equal(t, "POOR", got.Status)
}

func TestAnalyze_MinMeanMaxOrdering(t *testing.T) {
	inputs := [][]string{
		{"0.1"},
		{"0.3", "0.3", "0.3"},
		{"0.2", "0.9", "0.45", "0.31", "0.77"},
		{"0.1", "0.2", "0.3", "0.4", "0.5", "0.6", "0.7", "0.8", "0.9"},
	}

	for i, means := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			for _, a := range []*Analyzer{
				SoilMoisture(&memSource{files: withCompanions(map[string]string{SoilMoistureFile: meansCSV(means...)})}),
				Vegetation(&memSource{files: withCompanions(map[string]string{VegetationFile: meansCSV(means...)})}),
			} {
				got, err := a.Analyze(context.Background(), domain.Rangpur)
				require.NoError(t, err)
				assert.LessOrEqual(t, got.Min, got.Mean, a.Name())
				assert.LessOrEqual(t, got.Mean, got.Max, a.Name())
			}
		})
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	tests := []struct {
		name     string
		analyzer func(Source) *Analyzer
		file     string
		content  string
	}{
		{"soil all out of range", SoilMoisture, SoilMoistureFile, meansCSV("-0.1", "1.2", "-9999")},
		{"soil header only", SoilMoisture, SoilMoistureFile, "Date,Mean\n"},
		{"temperature no numeric mean", Temperature, TemperatureFile, meansCSV("n/a", "")},
		{"vegetation missing Mean column", Vegetation, VegetationFile, "Date,NDVI\n2024-01-01,0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &memSource{files: withCompanions(map[string]string{tt.file: tt.content})}
			_, err := tt.analyzer(src).Analyze(context.Background(), domain.Rajshahi)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInsufficientData)
			assert.Equal(t, domain.KindInsufficientData, domain.KindOf(err))
		})
	}
}

func TestAnalyze_MissingPrimaryFile(t *testing.T) {
	src := &memSource{files: withCompanions(map[string]string{})}

	_, err := Temperature(src).Analyze(context.Background(), domain.Rajshahi)
	require.Error(t, err)
	assert.Equal(t, domain.KindFileNotFound, domain.KindOf(err))
	assert.Equal(t, []string{TemperatureFile}, src.reads, "no further reads after the primary fails")
}

func TestAnalyze_CompanionFilesMustExistAndParse(t *testing.T) {
	t.Run("missing companion", func(t *testing.T) {
		files := withCompanions(map[string]string{VegetationFile: meansCSV("0.5")})
		delete(files, VegetationCompanions[1])

		_, err := Vegetation(&memSource{files: files}).Analyze(context.Background(), domain.Rajshahi)
		require.Error(t, err)
		assert.Equal(t, domain.KindFileNotFound, domain.KindOf(err))
		assert.Contains(t, err.Error(), VegetationCompanions[1])
	})

	t.Run("malformed companion", func(t *testing.T) {
		files := withCompanions(map[string]string{SoilMoistureFile: meansCSV("0.3")})
		files[SoilMoistureCompanions[0]] = "Date,FlagCode\n2024-01-01,8,extra\n"

		_, err := SoilMoisture(&memSource{files: files}).Analyze(context.Background(), domain.Rajshahi)
		require.Error(t, err)
		assert.Equal(t, domain.KindParseError, domain.KindOf(err))
	})

	t.Run("all files read", func(t *testing.T) {
		src := &memSource{files: withCompanions(map[string]string{TemperatureFile: meansCSV("295")})}
		a := Temperature(src)
		_, err := a.Analyze(context.Background(), domain.Rajshahi)
		require.NoError(t, err)
		assert.Equal(t, a.Files(), src.reads)
	})
}

// Quality flags are parsed but do not influence the result yet. Whether poor
// retrievals should be filtered out is undecided; this test pins today's
// behaviour so a change is deliberate.
func TestAnalyze_QualityFlagsDoNotAffectResult(t *testing.T) {
	base := "Date,Mean,FlagCode\n2024-01-01,0.31,8\n2024-01-17,0.18,8\n"
	poor := "Date,Mean,FlagCode\n2024-01-01,0.31,8\n2024-01-17,0.18,13\n"

	poorQA := map[string]string{
		SoilMoistureCompanions[0]: "Date,FlagCode,Quality_Simple\n2024-01-17,13,Poor\n",
		SoilMoistureCompanions[1]: "Value,Description,Quality_Simple\n13,retrieval failed,Poor\n",
	}

	clean, err := SoilMoisture(&memSource{files: withCompanions(map[string]string{SoilMoistureFile: base})}).
		Analyze(context.Background(), domain.Rajshahi)
	require.NoError(t, err)

	files := withCompanions(map[string]string{SoilMoistureFile: poor})
	for k, v := range poorQA {
		files[k] = v
	}
	flagged, err := SoilMoisture(&memSource{files: files}).Analyze(context.Background(), domain.Rajshahi)
	require.NoError(t, err)

	if diff := cmp.Diff(clean, flagged); diff != "" {
		t.Errorf("quality flags changed the result (-clean +flagged):\n%s", diff)
	}
}

func TestDecodeRecords(t *testing.T) {
	table, err := ingest.Parse(strings.NewReader(
		"Date,Mean,FlagCode,Quality_Simple\n" +
			"2024-01-01,0.3,8,\n" +
			"2024-01-17,0.2,13,Good\n" +
			"2024-02-02,,9,\n" +
			"2024-02-18,0.25,,\n",
	))
	require.NoError(t, err)

	got := DecodeRecords(table, domain.SoilMoistureQuality)

	eight, thirteen := 8, 13
	want := []domain.RawRecord{
		{Date: "2024-01-01", Mean: 0.3, FlagCode: &eight, QualityLabel: "Excellent"},
		{Date: "2024-01-17", Mean: 0.2, FlagCode: &thirteen, QualityLabel: "Good"},
		{Date: "2024-02-18", Mean: 0.25},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)

	st, ok := Summarize([]domain.RawRecord{{Mean: 2}, {Mean: 4}, {Mean: 9}})
	require.True(t, ok)
	assert.Equal(t, Stats{Mean: 5, Max: 9, Min: 2, Count: 3}, st)
}
