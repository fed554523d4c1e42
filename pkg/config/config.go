// Package config loads lfom.toml.
//
// A config file may set any subset of keys; everything else keeps its
// default. Lengths are unit strings ("1 cm", "0.2 m", "3/8 in"):
//
//	[design]
//	sdr = 26
//	ratio_vc_orifice = 0.63
//	ratio_safety = 1.5
//	s_orifice = "1 cm"
//	hl = "20 cm"
//
//	[catalog]
//	drills = "imperial"
//	pipes = "/etc/lfom/pipes.toml"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lfom/pkg/cache"
	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/units"
)

const (
	appName  = "lfom"
	fileName = "lfom.toml"

	// EnvConfig names the environment variable holding a config file path.
	EnvConfig = "LFOM_CONFIG"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded contents of lfom.toml.
type Config struct {
	Design  Design  `toml:"design"`
	Catalog Catalog `toml:"catalog"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
}

// Design overrides the design parameters.
type Design struct {
	SDR            float64      `toml:"sdr"`
	RatioVCOrifice float64      `toml:"ratio_vc_orifice"`
	RatioSafety    float64      `toml:"ratio_safety"`
	OrificeSpacing units.Length `toml:"s_orifice"`
	Headloss       units.Length `toml:"hl"`
}

// Catalog selects the drill series and optional catalog files.
type Catalog struct {
	Drills    string `toml:"drills"`
	Pipes     string `toml:"pipes"`
	DrillFile string `toml:"drill_file"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`

	// Prefix namespaces keys so several deployments can share one redis.
	Prefix string `toml:"prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := lfom.DefaultParams()
	return &Config{
		Design: Design{
			SDR:            p.SDR,
			RatioVCOrifice: p.RatioVCOrifice,
			RatioSafety:    p.RatioSafety,
			OrificeSpacing: units.Length(p.OrificeSpacing),
			Headloss:       units.Length(p.Headloss),
		},
		Catalog: Catalog{Drills: catalog.SeriesImperial},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       cache.TTLDesign,
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads path on top of the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes a TOML document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the config file to use: flag if set, then $LFOM_CONFIG, then
// $XDG_CONFIG_HOME/lfom/lfom.toml (or ~/.config/lfom/lfom.toml) if it exists.
// It returns "" when no file applies.
func Find(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Resolve loads the file chosen by [Find], or the defaults when there is none.
func Resolve(flag string) (*Config, error) {
	path := Find(flag)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the design parameters, drill series and cache backend.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Catalog.DrillFile == "" {
		if _, err := catalog.Drills(c.Catalog.Drills); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "catalog.drills")
		}
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend must be %s, %s or %s, got %q", BackendFile, BackendRedis, BackendNone, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Params returns the design parameters.
func (c *Config) Params() lfom.Params {
	return lfom.Params{
		SDR:            c.Design.SDR,
		RatioVCOrifice: c.Design.RatioVCOrifice,
		RatioSafety:    c.Design.RatioSafety,
		OrificeSpacing: c.Design.OrificeSpacing.Metres(),
		Headloss:       c.Design.Headloss.Metres(),
	}
}

// Catalogs loads the configured catalogs. The returned hash identifies
// custom catalog files for cache keys and is empty for the embedded tables.
func (c *Config) Catalogs() (lfom.Catalogs, string, error) {
	var (
		cat    lfom.Catalogs
		hashed []byte
	)

	if c.Catalog.Pipes == "" {
		cat.Pipes = catalog.DefaultPipes()
	} else {
		data, err := readCatalog(c.Catalog.Pipes)
		if err != nil {
			return lfom.Catalogs{}, "", err
		}
		pipes, err := catalog.LoadPipes(bytes.NewReader(data))
		if err != nil {
			return lfom.Catalogs{}, "", err
		}
		cat.Pipes = pipes
		hashed = append(hashed, data...)
	}

	if c.Catalog.DrillFile == "" {
		drills, err := catalog.Drills(c.Catalog.Drills)
		if err != nil {
			return lfom.Catalogs{}, "", err
		}
		cat.Drills = drills
	} else {
		data, err := readCatalog(c.Catalog.DrillFile)
		if err != nil {
			return lfom.Catalogs{}, "", err
		}
		drills, err := catalog.LoadDrills(bytes.NewReader(data), c.Catalog.Drills)
		if err != nil {
			return lfom.Catalogs{}, "", err
		}
		cat.Drills = drills
		hashed = append(hashed, data...)
	}

	if hashed == nil {
		return cat, "", nil
	}
	return cat, cache.Hash(hashed), nil
}

// CacheDir returns the file cache directory: cache.dir if set, else
// $XDG_CACHE_HOME/lfom, else ~/.cache/lfom.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func readCatalog(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read catalog %s", path)
	}
	return data, nil
}
