package catalog

import (
	"bytes"
	_ "embed"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/units"
)

// Drill series names in the embedded catalog.
const (
	SeriesImperial = "imperial"
	SeriesMetric   = "metric"
)

//go:embed data/pipes.toml
var pipesTOML []byte

//go:embed data/drills.toml
var drillsTOML []byte

type pipesFile struct {
	Unit string      `toml:"unit"`
	SDR  []float64   `toml:"sdr"`
	Pipe []pipeEntry `toml:"pipe"`
}

type pipeEntry struct {
	ND        string `toml:"nd"`
	OD        string `toml:"od"`
	Available bool   `toml:"available"`
}

type drillsFile struct {
	Series map[string]seriesEntry `toml:"series"`
}

type seriesEntry struct {
	Unit  string   `toml:"unit"`
	Sizes []string `toml:"sizes"`
}

// LoadPipes decodes a pipe catalog in the pipes.toml format.
func LoadPipes(r io.Reader) (*PipeCatalog, error) {
	var f pipesFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogInvalid, err, "decode pipe catalog")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}

	pipes := make([]Pipe, 0, len(f.Pipe))
	for _, e := range f.Pipe {
		nd, err := toMetres(e.ND, f.Unit)
		if err != nil {
			return nil, err
		}
		od, err := toMetres(e.OD, f.Unit)
		if err != nil {
			return nil, err
		}
		pipes = append(pipes, Pipe{Nominal: nd, Outer: od, Available: e.Available})
	}
	return NewPipeCatalog(pipes, f.SDR)
}

// LoadDrills decodes the named series from a catalog in the drills.toml format.
func LoadDrills(r io.Reader, series string) (*Series, error) {
	var f drillsFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogInvalid, err, "decode drill catalog")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}

	e, ok := f.Series[series]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "drill series %q not in catalog (have %s)",
			series, strings.Join(sortedKeys(f.Series), ", "))
	}
	sizes := make([]float64, 0, len(e.Sizes))
	for _, s := range e.Sizes {
		m, err := toMetres(s, e.Unit)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, m)
	}
	return NewSeries(series, sizes)
}

// DrillSeriesNames lists the series in a drills.toml document.
func DrillSeriesNames(r io.Reader) ([]string, error) {
	var f drillsFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogInvalid, err, "decode drill catalog")
	}
	return sortedKeys(f.Series), nil
}

var (
	defaultPipes = sync.OnceValue(func() *PipeCatalog {
		c, err := LoadPipes(bytes.NewReader(pipesTOML))
		mustLoad(err)
		return c
	})
	imperialDrills = sync.OnceValue(func() *Series {
		s, err := LoadDrills(bytes.NewReader(drillsTOML), SeriesImperial)
		mustLoad(err)
		return s
	})
	metricDrills = sync.OnceValue(func() *Series {
		s, err := LoadDrills(bytes.NewReader(drillsTOML), SeriesMetric)
		mustLoad(err)
		return s
	})
)

// DefaultPipes returns the embedded PVC pipe catalog.
func DefaultPipes() *PipeCatalog { return defaultPipes() }

// DefaultDrills returns the embedded imperial drill-bit series.
func DefaultDrills() *Series { return imperialDrills() }

// MetricDrills returns the embedded metric drill-bit series.
func MetricDrills() *Series { return metricDrills() }

// Drills returns an embedded drill series by name.
func Drills(name string) (*Series, error) {
	switch name {
	case SeriesImperial, "":
		return DefaultDrills(), nil
	case SeriesMetric:
		return MetricDrills(), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound,
		"unknown drill series %q (must be %s or %s)", name, SeriesImperial, SeriesMetric)
}

// mustLoad panics on a broken embedded catalog, which is a build defect.
func mustLoad(err error) {
	if err != nil {
		panic("catalog: embedded data: " + err.Error())
	}
}

func toMetres(s, unit string) (float64, error) {
	var (
		m   float64
		err error
	)
	switch unit {
	case "in":
		m, err = units.InchesToMetres(s)
	case "mm":
		m, err = units.MillimetresToMetres(s)
	default:
		return 0, errors.New(errors.ErrCodeCatalogInvalid, "unsupported catalog unit %q", unit)
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeCatalogInvalid, err, "size %q", s)
	}
	return m, nil
}

func checkUndecoded(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeCatalogInvalid, "unknown catalog keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
