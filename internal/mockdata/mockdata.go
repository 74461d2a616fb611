// Package mockdata generates a deterministic synthetic data tree with the
// same layout and file names as the packaged satellite statistics.
package mockdata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/division-data-service/internal/analyzer"
	"github.com/couchcryptid/division-data-service/internal/domain"
)

// FillValue marks a missing soil moisture retrieval, as in SMAP products.
const FillValue = -9999

// Profile is the seasonal baseline a division's samples oscillate around.
type Profile struct {
	SoilMoisture float64 // cm³/cm³
	TemperatureK float64
	NDVI         float64
}

// Profiles are the baselines per supported division.
var Profiles = map[domain.Division]Profile{
	domain.Rajshahi:   {SoilMoisture: 0.24, TemperatureK: 301.0, NDVI: 0.48},
	domain.Barishal:   {SoilMoisture: 0.34, TemperatureK: 297.0, NDVI: 0.62},
	domain.Khulna:     {SoilMoisture: 0.29, TemperatureK: 299.5, NDVI: 0.52},
	domain.Sylhet:     {SoilMoisture: 0.36, TemperatureK: 294.0, NDVI: 0.68},
	domain.Chittagong: {SoilMoisture: 0.31, TemperatureK: 296.0, NDVI: 0.58},
	domain.Rangpur:    {SoilMoisture: 0.27, TemperatureK: 298.5, NDVI: 0.55},
}

// Options controls generation.
type Options struct {
	Start   time.Time
	Samples int
	// Interval between samples; MODIS vegetation composites are 16 days.
	Interval time.Duration
	Seed     uint64
}

// DefaultOptions covers one rabi (winter wheat) season.
func DefaultOptions() Options {
	return Options{
		Start:    time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		Samples:  12,
		Interval: 16 * 24 * time.Hour,
		Seed:     20241101,
	}
}

var soilFlags = []int{8, 8, 9, 8, 7, 9, 13, 8}
var tempFlags = []int{0, 1, 17, 65, 0, 81, 129, 2}

// Files renders every file of one division. Output depends only on d and
// opts.
func Files(d domain.Division, opts Options) (map[string][]byte, error) {
	p, ok := Profiles[d]
	if !ok {
		return nil, fmt.Errorf("no profile for division %q", d)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, uint64(divisionIndex(d))))

	var soil, temp, veg [][]string
	var soilQA, tempQA, vegQA [][]string
	for i := range opts.Samples {
		date := opts.Start.Add(time.Duration(i) * opts.Interval).Format("2006-01-02")
		season := math.Sin(2 * math.Pi * float64(i) / float64(max(opts.Samples, 1)))

		sm := p.SoilMoisture + 0.03*season + rng.NormFloat64()*0.01
		if i%7 == 6 {
			sm = FillValue
		}
		sf := soilFlags[i%len(soilFlags)]
		soil = append(soil, statRow(date, sm, 0.02, 3, sf))
		soilQA = append(soilQA, qaRow(date, sf, domain.SoilMoistureQuality(sf)))

		k := p.TemperatureK + 2.5*season + rng.NormFloat64()*0.6
		tf := tempFlags[i%len(tempFlags)]
		temp = append(temp, statRow(date, k, 1.5, 2, tf))
		tempQA = append(tempQA, qaRow(date, tf, domain.TemperatureQuality(tf)))

		ndvi := p.NDVI + 0.08*season + rng.NormFloat64()*0.015
		veg = append(veg, statRow(date, ndvi, 0.05, 4, -1))
		vegQA = append(vegQA, []string{date, "2112", strconv.Itoa(40 + rng.IntN(20))})
	}

	statHeader := []string{"Date", "Count", "Minimum", "Maximum", "Mean", "FlagCode"}
	qaHeader := []string{"Date", "FlagCode", "Quality_Simple"}
	out := map[string][]byte{}
	add := func(name string, header []string, rows [][]string) error {
		b, err := render(header, rows)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = b
		return nil
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{analyzer.SoilMoistureFile, statHeader, soil},
		{analyzer.SoilMoistureCompanions[0], qaHeader, soilQA},
		{analyzer.SoilMoistureCompanions[1], lookupHeader, lookupRows(soilFlags, domain.SoilMoistureQuality)},
		{analyzer.TemperatureFile, statHeader, temp},
		{analyzer.TemperatureCompanions[0], qaHeader, tempQA},
		{analyzer.TemperatureCompanions[1], lookupHeader, lookupRows(tempFlags, domain.TemperatureQuality)},
		{analyzer.VegetationFile, statHeader, veg},
		{analyzer.VegetationCompanions[0], []string{"Date", "Value", "Count"}, vegQA},
		{analyzer.VegetationCompanions[1], lookupHeader, [][]string{{"2112", "VI produced, good quality", "Good"}}},
	}
	for _, f := range files {
		if err := add(f.name, f.header, f.rows); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WriteTree writes all supported divisions under root and returns the
// paths written.
func WriteTree(root string, opts Options) ([]string, error) {
	var written []string
	for _, d := range domain.SupportedDivisions() {
		files, err := Files(d, opts)
		if err != nil {
			return written, err
		}
		dir := filepath.Join(root, d.DirName())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", dir, err)
		}
		for _, name := range fileOrder() {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, files[name], 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func fileOrder() []string {
	var names []string
	for _, a := range []*analyzer.Analyzer{
		analyzer.SoilMoisture(nil), analyzer.Temperature(nil), analyzer.Vegetation(nil),
	} {
		names = append(names, a.Files()...)
	}
	return names
}

var lookupHeader = []string{"Value", "Description", "Quality_Simple"}

func lookupRows(flags []int, quality func(int) string) [][]string {
	seen := map[int]bool{}
	var rows [][]string
	for _, f := range flags {
		if seen[f] {
			continue
		}
		seen[f] = true
		rows = append(rows, []string{strconv.Itoa(f), fmt.Sprintf("retrieval flag %d", f), quality(f)})
	}
	return rows
}

// statRow renders a statistics row. flag < 0 leaves FlagCode blank.
func statRow(date string, mean, spread float64, places, flag int) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', places+1, 64) }
	row := []string{date, "256", f(mean - spread), f(mean + spread), f(mean), ""}
	if mean == FillValue {
		row[2], row[3] = f(mean), f(mean)
	}
	if flag >= 0 {
		row[5] = strconv.Itoa(flag)
	}
	return row
}

func qaRow(date string, flag int, label string) []string {
	return []string{date, strconv.Itoa(flag), label}
}

func render(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func divisionIndex(d domain.Division) int {
	for i, s := range domain.SupportedDivisions() {
		if s == d {
			return i
		}
	}
	return -1
}
