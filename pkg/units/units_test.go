package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/units"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"20 cm", 0.2},
		{"20cm", 0.2},
		{"1 cm", 0.01},
		{"0.5 in", 0.0127},
		{"1/32 in", 0.00079375},
		{"1/2\"", 0.0127},
		{"3 mm", 0.003},
		{"2 ft", 0.6096},
		{"0.4", 0.4},
		{"1.5 M", 1.5},
		{"5e-1 m", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := units.ParseLength(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseFlow(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12 L/s", 0.012},
		{"12 l/s", 0.012},
		{"60 L/min", 0.001},
		{"3.6 m^3/h", 0.001},
		{"0.05 m3/s", 0.05},
		{"0.05", 0.05},
		{"1 mgd", 0.043812636388888},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := units.ParseFlow(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "20 furlongs", "abc", "1/0 in", "cm"} {
		_, err := units.ParseLength(in)
		assert.Error(t, err, "ParseLength(%q)", in)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidUnit), "ParseLength(%q) code = %v", in, errors.GetCode(err))
	}

	_, err := units.ParseFlow("12 cm")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidUnit), "length unit is not a flow unit")
}

func TestCatalogConversions(t *testing.T) {
	m, err := units.InchesToMetres("0.03125")
	require.NoError(t, err)
	assert.Equal(t, 0.00079375, m)

	m, err = units.InchesToMetres("1/16")
	require.NoError(t, err)
	assert.Equal(t, 0.0015875, m)

	m, err = units.MillimetresToMetres("12.5")
	require.NoError(t, err)
	assert.Equal(t, 0.0125, m)

	_, err = units.InchesToMetres("one")
	assert.Error(t, err)
}

func TestLengthText(t *testing.T) {
	var l units.Length
	require.NoError(t, l.UnmarshalText([]byte("20 cm")))
	assert.InDelta(t, 0.2, l.Metres(), 1e-15)
	assert.Equal(t, "20 cm", l.String())

	b, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "20 cm", string(b))

	require.NoError(t, l.Set("1.25 m"))
	assert.Equal(t, "1.25 m", l.String())
	assert.Equal(t, "length", l.Type())

	assert.Error(t, l.Set("20 parsecs"))
}

func TestFlowText(t *testing.T) {
	var f units.Flow
	require.NoError(t, f.Set("12 L/s"))
	assert.InDelta(t, 0.012, f.CubicMetresPerSecond(), 1e-15)
	assert.Equal(t, "12 L/s", f.String())
	assert.Equal(t, "flow", f.Type())
}

func TestFormatLength(t *testing.T) {
	assert.Equal(t, "0 m", units.FormatLength(0))
	assert.Equal(t, "3.175 mm", units.FormatLength(0.003175))
	assert.Equal(t, "2.5 cm", units.FormatLength(0.025))
	assert.Equal(t, "2 m", units.FormatLength(2))
}

func TestFormatInches(t *testing.T) {
	assert.Equal(t, "0.96875 in", units.FormatInches(0.96875*units.MetresPerInch))
	assert.Equal(t, "8 in", units.FormatInches(0.2032))
}
