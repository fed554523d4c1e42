// Package units converts unit-tagged quantity strings to SI values and back.
//
// The design library works in plain SI float64 values (metres, cubic metres
// per second). Units are attached only at the edges: configuration files,
// command-line flags and API requests carry strings such as "20 cm" or
// "12 L/s", which this package parses.
//
// Numeric parts are parsed with shopspring/decimal and multiplied by an
// exact decimal conversion factor before the single conversion to float64,
// so "0.5 in" is exactly 0.0127 m rather than an accumulated float product.
//
// [Length] and [Flow] implement encoding.TextUnmarshaler (for TOML and JSON)
// and the pflag.Value method set (for cobra flags).
package units

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/lfom/pkg/errors"
)

// lengthFactors maps length unit symbols to metres.
var lengthFactors = map[string]decimal.Decimal{
	"m":    decimal.NewFromInt(1),
	"cm":   decimal.RequireFromString("0.01"),
	"mm":   decimal.RequireFromString("0.001"),
	"in":   decimal.RequireFromString("0.0254"),
	"inch": decimal.RequireFromString("0.0254"),
	"\"":   decimal.RequireFromString("0.0254"),
	"ft":   decimal.RequireFromString("0.3048"),
}

// flowFactors maps flow unit symbols to cubic metres per second.
var flowFactors = map[string]decimal.Decimal{
	"m^3/s": decimal.NewFromInt(1),
	"m3/s":  decimal.NewFromInt(1),
	"l/s":   decimal.RequireFromString("0.001"),
	"l/min": decimal.RequireFromString("0.001").Div(decimal.NewFromInt(60)),
	"m^3/h": decimal.NewFromInt(1).Div(decimal.NewFromInt(3600)),
	"m3/h":  decimal.NewFromInt(1).Div(decimal.NewFromInt(3600)),
	"gpm":   decimal.RequireFromString("0.003785411784").Div(decimal.NewFromInt(60)),
	"mgd":   decimal.RequireFromString("3785.411784").Div(decimal.NewFromInt(86400)),
}

// ParseLength parses a length such as "20 cm", "0.5in" or "1/32 in" and
// returns metres. A bare number is taken as metres.
func ParseLength(s string) (float64, error) {
	return parse(s, "m", lengthFactors)
}

// ParseFlow parses a volumetric flow such as "12 L/s" or "0.05 m^3/s" and
// returns cubic metres per second. A bare number is taken as m^3/s.
func ParseFlow(s string) (float64, error) {
	return parse(s, "m^3/s", flowFactors)
}

// InchesToMetres converts an exact decimal inch string ("0.03125", "1/32")
// to metres.
func InchesToMetres(s string) (float64, error) {
	d, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(lengthFactors["in"]).InexactFloat64(), nil
}

// MillimetresToMetres converts an exact decimal millimetre string to metres.
func MillimetresToMetres(s string) (float64, error) {
	d, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(lengthFactors["mm"]).InexactFloat64(), nil
}

func parse(s, defaultUnit string, factors map[string]decimal.Decimal) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "empty quantity")
	}

	num, unit := split(s)
	if unit == "" {
		unit = defaultUnit
	}
	factor, ok := factors[strings.ToLower(unit)]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "unknown unit %q in %q", unit, s)
	}

	d, err := parseNumber(num)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidUnit, err, "parse %q", s)
	}
	return d.Mul(factor).InexactFloat64(), nil
}

// split separates the leading numeric part from the unit symbol.
func split(s string) (num, unit string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == '/' || c == 'e' || c == 'E' {
			// "e" only counts as an exponent when followed by a digit or sign.
			if (c == 'e' || c == 'E') && (i+1 >= len(s) || !strings.ContainsRune("0123456789+-", rune(s[i+1]))) {
				break
			}
			i++
			continue
		}
		break
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
}

// parseNumber accepts decimals, exponents and simple fractions ("1/32").
func parseNumber(s string) (decimal.Decimal, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil {
			return decimal.Zero, err
		}
		if d.IsZero() {
			return decimal.Zero, errors.New(errors.ErrCodeInvalidUnit, "zero denominator in %q", s)
		}
		return n.Div(d), nil
	}
	return decimal.NewFromString(s)
}
