// Command validate checks a packaged data directory before it is deployed:
// every division has its primary and companion files, every file parses,
// every analyzer yields valid records, and the full division fetch succeeds.
// It prints per-division indicators and the quality-label distribution of
// the primary files.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/division-data-service/internal/analyzer"
	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/couchcryptid/division-data-service/internal/ingest"
	"github.com/couchcryptid/division-data-service/internal/observability"
	"github.com/couchcryptid/division-data-service/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "root directory holding one sub-directory per division")
	flag.Parse()

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

// checker bundles what every phase needs.
type checker struct {
	ctx       context.Context
	reader    *ingest.Reader
	analyzers []*analyzer.Analyzer
	pipeline  *pipeline.Pipeline
}

func run(dataDir string) int {
	fmt.Println("=== Division Data Validation ===")
	fmt.Printf("Data directory: %s\n\n", dataDir)

	reader := ingest.NewReader(dataDir)
	soil, temp, veg := analyzer.SoilMoisture(reader), analyzer.Temperature(reader), analyzer.Vegetation(reader)
	c := &checker{
		ctx:       context.Background(),
		reader:    reader,
		analyzers: []*analyzer.Analyzer{soil, temp, veg},
		pipeline: pipeline.New(soil, temp, veg, reader,
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
			observability.NewMetricsForTesting()),
	}

	// ── Run validation phases ──
	results := map[domain.Division]domain.DivisionData{}
	quality := map[string]map[string]int{}
	phases := []*phase{
		c.validateLayout(),
		c.validateFiles(),
		c.validateRecords(quality),
		c.validateFetch(results),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	printIndicators(results)
	printQuality(quality)

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Layout ──
// The data root and one directory per supported division exist, and the
// catalog covers every division.

func (c *checker) validateLayout() *phase {
	p := &phase{name: "Phase 1: Directory Layout"}
	if err := c.reader.CheckReadiness(c.ctx); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			p.errorf("%s", line)
		}
	}
	for _, d := range domain.SupportedDivisions() {
		if _, ok := domain.Descriptor(d); !ok {
			p.errorf("%s: no catalog descriptor", d)
		}
		if r := domain.FloodRisk(d); r < 0 || r > 1 {
			p.errorf("%s: flood risk %g outside [0, 1]", d, r)
		}
	}
	return p
}

// ── Phase 2: Files ──
// Every primary and companion file is present and well-formed.

func (c *checker) validateFiles() *phase {
	p := &phase{name: "Phase 2: File Presence and Parsing"}
	for _, d := range domain.SupportedDivisions() {
		for _, a := range c.analyzers {
			for _, f := range a.Files() {
				if _, err := c.reader.Read(c.ctx, d, f); err != nil {
					p.errorf("[%s] %v", domain.KindOf(err), err)
				}
			}
		}
	}
	return p
}

// ── Phase 3: Records ──
// Every primary file has a Mean column with at least one numeric value.
// Quality labels are tallied per analyzer.

func (c *checker) validateRecords(quality map[string]map[string]int) *phase {
	p := &phase{name: "Phase 3: Record Decoding"}
	for _, d := range domain.SupportedDivisions() {
		for _, a := range c.analyzers {
			records, err := a.Records(c.ctx, d)
			if err != nil {
				// Reported by phase 2.
				continue
			}
			if len(records) == 0 {
				p.errorf("%s/%s: no row with a numeric %s", d, a.Name(), analyzer.ColMean)
				continue
			}
			if quality[a.Name()] == nil {
				quality[a.Name()] = map[string]int{}
			}
			for _, r := range records {
				label := r.QualityLabel
				if label == "" {
					label = "(none)"
				}
				quality[a.Name()][label]++
			}
		}
	}
	return p
}

// ── Phase 4: Fetch ──
// The full aggregate succeeds for every division.

func (c *checker) validateFetch(results map[domain.Division]domain.DivisionData) *phase {
	p := &phase{name: "Phase 4: Division Fetch"}
	for _, d := range c.pipeline.Divisions() {
		data, err := c.pipeline.Fetch(c.ctx, string(d))
		if err != nil {
			p.errorf("[%s] %v", domain.KindOf(err), err)
			continue
		}
		results[d] = data
	}
	return p
}

func printIndicators(results map[domain.Division]domain.DivisionData) {
	if len(results) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %-12s %9s %9s %7s %6s  %-16s %-16s %s\n",
		"division", "smap", "lst °C", "ndvi", "flood", "soil", "temperature", "vegetation")
	for _, d := range domain.SupportedDivisions() {
		data, ok := results[d]
		if !ok {
			fmt.Printf("  %-12s %s\n", d, "-")
			continue
		}
		n, a := data.Indicators, data.Analysis
		fmt.Printf("  %-12s %9.2f %9.1f %7.3f %6.1f  %-16s %-16s %s\n",
			d, n.SoilMoistureAnomaly, n.TemperatureAnomalyC, n.VegetationIndex, n.FloodRiskProbability,
			a.SoilMoisture.Status, a.Temperature.Status, a.Vegetation.Status)
	}
}

func printQuality(quality map[string]map[string]int) {
	if len(quality) == 0 {
		return
	}
	fmt.Println("\nQuality labels (primary files, all divisions):")
	names := make([]string, 0, len(quality))
	for name := range quality {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		labels := make([]string, 0, len(quality[name]))
		for l := range quality[name] {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		parts := make([]string, len(labels))
		for i, l := range labels {
			parts[i] = fmt.Sprintf("%s=%d", l, quality[name][l])
		}
		fmt.Printf("  %-14s %s\n", name, strings.Join(parts, " "))
	}
}
