// Package analyzer turns one quantity's statistics file into a classified
// summary. The three analyzers share one algorithm and differ only in their
// Spec.
package analyzer

import (
	"context"
	"math"

	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/couchcryptid/division-data-service/internal/ingest"
)

// Column names in the statistics files.
const (
	ColDate          = "Date"
	ColMean          = "Mean"
	ColFlagCode      = "FlagCode"
	ColQualitySimple = "Quality_Simple"
)

// Source reads a parsed file from a division's data directory.
type Source interface {
	Read(ctx context.Context, d domain.Division, file string) (*ingest.Table, error)
}

// Spec parameterizes an Analyzer.
type Spec struct {
	Name string
	// File is the primary statistics file.
	File string
	// Companions are quality-flag and lookup files that must be present and
	// parse. Their content does not affect the result.
	Companions []string
	// Valid filters records before aggregation. Nil accepts every record.
	Valid  func(domain.RawRecord) bool
	Ladder domain.Ladder
	// Precision is the number of decimal places published values keep.
	Precision int
	// Describe builds the human message from the tier and unrounded mean.
	Describe func(t domain.Tier, mean float64) string
	// Normalize returns the indicator value for the tier and rounded mean.
	Normalize func(t domain.Tier, mean float64) float64
	// Celsius marks Kelvin quantities that also publish a Celsius mean.
	Celsius bool
	// Quality labels a flag code when the file has no Quality_Simple column.
	Quality func(flag int) string
}

// Analyzer runs one Spec against a Source.
type Analyzer struct {
	spec Spec
	src  Source
}

// New creates an Analyzer. It holds no per-request state.
func New(src Source, spec Spec) *Analyzer {
	return &Analyzer{spec: spec, src: src}
}

// Name identifies the analyzer in logs and metrics.
func (a *Analyzer) Name() string { return a.spec.Name }

// Files returns the primary file followed by the companions.
func (a *Analyzer) Files() []string {
	return append([]string{a.spec.File}, a.spec.Companions...)
}

// Records reads and decodes the primary file without filtering.
func (a *Analyzer) Records(ctx context.Context, d domain.Division) ([]domain.RawRecord, error) {
	table, err := a.src.Read(ctx, d, a.spec.File)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(table, a.spec.Quality), nil
}

// Analyze reads the division's files and summarizes the valid records.
// Errors from ingestion are returned unchanged; zero valid records is an
// insufficient_data error.
func (a *Analyzer) Analyze(ctx context.Context, d domain.Division) (domain.AnalyzerResult, error) {
	records, err := a.Records(ctx, d)
	if err != nil {
		return domain.AnalyzerResult{}, err
	}
	for _, c := range a.spec.Companions {
		if _, err := a.src.Read(ctx, d, c); err != nil {
			return domain.AnalyzerResult{}, err
		}
	}

	valid := Filter(records, a.spec.Valid)
	st, ok := Summarize(valid)
	if !ok {
		return domain.AnalyzerResult{}, domain.NewInsufficientData(d, a.spec.File)
	}

	return a.result(st), nil
}

func (a *Analyzer) result(st Stats) domain.AnalyzerResult {
	p := a.spec.Precision
	tier := a.spec.Ladder.Classify(st.Mean)
	mean := domain.Round(st.Mean, p)

	res := domain.AnalyzerResult{
		Mean:        mean,
		Max:         domain.Round(st.Max, p),
		Min:         domain.Round(st.Min, p),
		Status:      tier.Status,
		Message:     tier.Message,
		Normalized:  tier.Output,
		RecordCount: st.Count,
	}
	if a.spec.Describe != nil {
		res.Message = a.spec.Describe(tier, st.Mean)
	}
	if a.spec.Normalize != nil {
		res.Normalized = a.spec.Normalize(tier, mean)
	}
	if a.spec.Celsius {
		c := domain.Round(domain.KelvinToCelsius(st.Mean), p)
		res.MeanCelsius = &c
	}
	return res
}

// DecodeRecords converts table rows to records. Rows without a numeric Mean
// are skipped. quality may be nil.
func DecodeRecords(t *ingest.Table, quality func(int) string) []domain.RawRecord {
	out := make([]domain.RawRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		mean, ok := row.Float(ColMean)
		if !ok {
			continue
		}
		rec := domain.RawRecord{Mean: mean}
		rec.Date, _ = row.Get(ColDate)
		if flag, ok := row.Int(ColFlagCode); ok {
			rec.FlagCode = &flag
		}
		if label, ok := row.Get(ColQualitySimple); ok {
			rec.QualityLabel = label
		} else if rec.FlagCode != nil && quality != nil {
			rec.QualityLabel = quality(*rec.FlagCode)
		}
		out = append(out, rec)
	}
	return out
}

// Filter returns the records accepted by valid. A nil predicate keeps all.
func Filter(records []domain.RawRecord, valid func(domain.RawRecord) bool) []domain.RawRecord {
	if valid == nil {
		return records
	}
	out := make([]domain.RawRecord, 0, len(records))
	for _, r := range records {
		if valid(r) {
			out = append(out, r)
		}
	}
	return out
}

// Stats are the unrounded aggregates of a record set.
type Stats struct {
	Mean  float64
	Max   float64
	Min   float64
	Count int
}

// Summarize computes mean, max and min. It reports false for an empty set.
func Summarize(records []domain.RawRecord) (Stats, bool) {
	if len(records) == 0 {
		return Stats{}, false
	}
	st := Stats{Max: math.Inf(-1), Min: math.Inf(1), Count: len(records)}
	var sum float64
	for _, r := range records {
		sum += r.Mean
		st.Max = math.Max(st.Max, r.Mean)
		st.Min = math.Min(st.Min, r.Mean)
	}
	st.Mean = sum / float64(len(records))
	// Floating-point summation can drift the mean a hair outside the range.
	st.Mean = math.Min(math.Max(st.Mean, st.Min), st.Max)
	return st, true
}
