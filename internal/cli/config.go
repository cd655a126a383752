package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

const configFile = "config.toml"

// Normalization modes accepted by the normalize setting.
const (
	NormalizeNone  = "none"
	NormalizeUpper = "upper"
	NormalizeLower = "lower"
)

// Config is the cellgraph configuration file.
type Config struct {
	// Version tags sheets created and accepted by the CLI.
	Version string `toml:"version"`

	// Normalize is one of none, upper or lower.
	Normalize string `toml:"normalize"`

	// NamePattern, if set, is a regular expression that a normalized cell
	// name must match in full.
	NamePattern string `toml:"name_pattern"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Version:   spreadsheet.DefaultVersion,
		Normalize: NormalizeUpper,
		Cache:     CacheConfig{TTL: "168h"},
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// LoadConfig reads the configuration at path on top of the defaults. An empty
// path selects $XDG_CONFIG_HOME/cellgraph/config.toml, which may be absent.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if err := errors.ValidateVersion(c.Version); err != nil {
		return err
	}
	if _, err := normalizer(c.Normalize); err != nil {
		return err
	}
	if _, err := errors.ValidateNamePattern(c.NamePattern); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL returns the parsed cache expiry.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid cache ttl %q", c.Cache.TTL)
	}
	return ttl, nil
}

// SheetOptions builds the engine options described by the configuration.
func (c Config) SheetOptions() (spreadsheet.Options, error) {
	norm, err := normalizer(c.Normalize)
	if err != nil {
		return spreadsheet.Options{}, err
	}
	pattern := c.NamePattern
	if pattern != "" {
		pattern = "^(?:" + pattern + ")$"
	}
	re, err := errors.ValidateNamePattern(pattern)
	if err != nil {
		return spreadsheet.Options{}, err
	}

	opts := spreadsheet.Options{Normalize: norm, Version: c.Version}
	if re != nil {
		opts.Validate = re.MatchString
	}
	return opts, nil
}

func normalizer(mode string) (func(string) string, error) {
	switch mode {
	case "", NormalizeNone:
		return nil, nil
	case NormalizeUpper:
		return strings.ToUpper, nil
	case NormalizeLower:
		return strings.ToLower, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid normalize mode %q (want none, upper or lower)", mode)
	}
}
