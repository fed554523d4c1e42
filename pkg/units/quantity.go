package units

import (
	"math"
	"strconv"
)

// Length is a length in metres that reads and writes unit-tagged text.
type Length float64

// Metres returns the SI value.
func (l Length) Metres() float64 { return float64(l) }

// String formats the length in centimetres, or metres above one metre.
func (l Length) String() string { return FormatLength(float64(l)) }

// Set parses s; it satisfies pflag.Value.
func (l *Length) Set(s string) error {
	v, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = Length(v)
	return nil
}

// Type satisfies pflag.Value.
func (l *Length) Type() string { return "length" }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Length) UnmarshalText(b []byte) error { return l.Set(string(b)) }

// MarshalText implements encoding.TextMarshaler.
func (l Length) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Flow is a volumetric flow in m^3/s that reads and writes unit-tagged text.
type Flow float64

// CubicMetresPerSecond returns the SI value.
func (f Flow) CubicMetresPerSecond() float64 { return float64(f) }

// String formats the flow in litres per second.
func (f Flow) String() string { return FormatFlow(float64(f)) }

// Set parses s; it satisfies pflag.Value.
func (f *Flow) Set(s string) error {
	v, err := ParseFlow(s)
	if err != nil {
		return err
	}
	*f = Flow(v)
	return nil
}

// Type satisfies pflag.Value.
func (f *Flow) Type() string { return "flow" }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flow) UnmarshalText(b []byte) error { return f.Set(string(b)) }

// MarshalText implements encoding.TextMarshaler.
func (f Flow) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// FormatLength renders metres as "12.5 cm", "3.175 mm" or "1.2 m".
func FormatLength(m float64) string {
	abs := math.Abs(m)
	switch {
	case abs == 0:
		return "0 m"
	case abs < 0.01:
		return trim(m*1000) + " mm"
	case abs < 1:
		return trim(m*100) + " cm"
	default:
		return trim(m) + " m"
	}
}

// MetresPerInch is the exact length of one inch.
const MetresPerInch = 0.0254

// FormatInches renders metres as inches, e.g. "0.96875 in".
func FormatInches(m float64) string {
	return trim(m/MetresPerInch) + " in"
}

// FormatFlow renders m^3/s as litres per second.
func FormatFlow(q float64) string {
	return trim(q*1000) + " L/s"
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}
