package catalog

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/lfom/pkg/errors"
)

// Series is an immutable, strictly ascending set of sizes in metres.
// The zero value is an empty series for which every lookup fails.
type Series struct {
	name   string
	values []float64
}

// NewSeries sorts and de-duplicates values. It rejects an empty input and
// any value that is not finite and positive.
func NewSeries(name string, values []float64) (*Series, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogInvalid, "series %q has no entries", name)
	}
	vs := slices.Clone(values)
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "series %q has invalid size %g", name, v)
		}
	}
	slices.Sort(vs)
	vs = slices.Compact(vs)
	return &Series{name: name, values: vs}, nil
}

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// Len returns the number of sizes.
func (s *Series) Len() int { return len(s.values) }

// Values returns a copy of the sizes in ascending order.
func (s *Series) Values() []float64 { return slices.Clone(s.values) }

// Contains reports whether x is exactly one of the sizes.
func (s *Series) Contains(x float64) bool {
	_, ok := slices.BinarySearch(s.values, x)
	return ok
}

// Floor returns the largest size not exceeding x.
func (s *Series) Floor(x float64) (float64, error) {
	if math.IsNaN(x) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "floor lookup of NaN in series %q", s.name)
	}
	// index of the first value > x
	i := sort.Search(len(s.values), func(i int) bool { return s.values[i] > x })
	if i == 0 {
		return 0, errors.New(errors.ErrCodeCatalogExhausted,
			"no size in series %q is at most %g m", s.name, x)
	}
	return s.values[i-1], nil
}

// Ceil returns the smallest size not below x.
func (s *Series) Ceil(x float64) (float64, error) {
	if math.IsNaN(x) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "ceil lookup of NaN in series %q", s.name)
	}
	i := sort.SearchFloat64s(s.values, x)
	if i == len(s.values) {
		return 0, errors.New(errors.ErrCodeCatalogExhausted,
			"no size in series %q is at least %g m", s.name, x)
	}
	return s.values[i], nil
}
