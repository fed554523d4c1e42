package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys. Implementations must be deterministic: equal
// options always produce the same key.
type Keyer interface {
	// DesignKey returns the key for a design record.
	DesignKey(opts DesignKeyOpts) string
}

// DesignKeyOpts lists every input that changes a design record.
// Lengths and flows are SI.
type DesignKeyOpts struct {
	Flow           float64 `json:"flow"`
	Headloss       float64 `json:"headloss"`
	SDR            float64 `json:"sdr"`
	RatioVCOrifice float64 `json:"ratio_vc_orifice"`
	RatioSafety    float64 `json:"ratio_safety"`
	OrificeSpacing float64 `json:"s_orifice"`
	DrillSeries    string  `json:"drills"`

	// Catalog is a content hash of custom catalog files, empty for the
	// embedded tables.
	Catalog string `json:"catalog,omitempty"`
}

// DefaultKeyer hashes the options under a "design:" prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DesignKey returns "design:<sha256>".
func (DefaultKeyer) DesignKey(opts DesignKeyOpts) string {
	// Struct fields marshal in declaration order, so the digest is stable.
	data, _ := json.Marshal(opts)
	return "design:" + Hash(data)
}

// ScopedKeyer prepends a fixed namespace to every key of another Keyer.
// The config's cache.prefix selects it so that staging and production can
// share one redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer namespaces inner under prefix. A nil inner uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DesignKey(opts DesignKeyOpts) string {
	return k.prefix + k.inner.DesignKey(opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
