package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Division identifies a geographic administrative region. Identifiers are
// lower-case; use ParseDivision to normalize caller input.
type Division string

const (
	Rajshahi   Division = "rajshahi"
	Barishal   Division = "barishal"
	Khulna     Division = "khulna"
	Sylhet     Division = "sylhet"
	Chittagong Division = "chittagong"
	Rangpur    Division = "rangpur"
)

// LegacyDivision is the division served by the single-division legacy query.
const LegacyDivision = Rajshahi

// supported is the authoritative division set, in listing order. Divisions
// shown elsewhere (naogaon, natore, ...) have no analyzer data and are
// rejected rather than defaulted.
var supported = []Division{Rajshahi, Barishal, Khulna, Sylhet, Chittagong, Rangpur}

// Coordinates is a WGS-84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// DivisionDescriptor is immutable reference data about a division.
type DivisionDescriptor struct {
	Name        string      `json:"name" yaml:"name"`
	Country     string      `json:"country" yaml:"country"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	Climate     string      `json:"climate" yaml:"climate"`
	MainCrop    string      `json:"mainCrop" yaml:"mainCrop"`
}

// Catalog holds the descriptor and flood-risk tables.
type Catalog struct {
	Divisions map[Division]DivisionDescriptor `yaml:"divisions"`
	FloodRisk map[Division]float64            `yaml:"floodRisk"`
}

//go:embed catalog.yaml
var catalogYAML []byte

// catalog is loaded once at startup; a broken catalog is a configuration
// error and stops the process.
var catalog = mustLoadCatalog(catalogYAML)

// LoadCatalog parses and validates catalog YAML against the supported set.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse division catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func mustLoadCatalog(data []byte) *Catalog {
	c, err := LoadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	var errs []error
	for _, d := range supported {
		desc, ok := c.Divisions[d]
		if !ok {
			errs = append(errs, fmt.Errorf("division %q: missing descriptor", d))
		} else if desc.Name == "" {
			errs = append(errs, fmt.Errorf("division %q: descriptor has no name", d))
		}

		risk, ok := c.FloodRisk[d]
		if !ok {
			errs = append(errs, fmt.Errorf("division %q: missing flood risk", d))
		} else if risk < 0 || risk > 1 {
			errs = append(errs, fmt.Errorf("division %q: flood risk %g outside [0, 1]", d, risk))
		}
	}
	for d := range c.Divisions {
		if !IsSupported(d) {
			errs = append(errs, fmt.Errorf("division %q: descriptor for unsupported division", d))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid division catalog: %w", errors.Join(errs...))
	}
	return nil
}

// SupportedDivisions returns the supported divisions in listing order.
func SupportedDivisions() []Division {
	out := make([]Division, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether d is in the supported set.
func IsSupported(d Division) bool {
	for _, s := range supported {
		if s == d {
			return true
		}
	}
	return false
}

// ParseDivision normalizes a caller-supplied identifier (case-insensitive,
// surrounding whitespace ignored) and checks it against the supported set.
func ParseDivision(s string) (Division, error) {
	d := Division(strings.ToLower(strings.TrimSpace(s)))
	if !IsSupported(d) {
		return "", &Error{Kind: KindUnknownDivision, Division: s, Err: ErrUnknownDivision}
	}
	return d, nil
}

// Descriptor returns the static location metadata for d.
func Descriptor(d Division) (DivisionDescriptor, bool) {
	desc, ok := catalog.Divisions[d]
	return desc, ok
}

// DirName is the on-disk directory name for the division's data files,
// e.g. "rajshahi" -> "Rajshahi".
func (d Division) DirName() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

func (d Division) String() string { return string(d) }
