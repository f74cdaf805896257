package config

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/theplant/staymarket/filter"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STAYMARKET_"

type HTTPConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read-timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write-timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" validate:"gte=0"`
	// RateLimit is the number of requests per second allowed per client.
	// Zero disables rate limiting.
	RateLimit float64 `yaml:"rate-limit" validate:"gte=0"`
	RateBurst int     `yaml:"rate-burst" validate:"gte=0"`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxOpenConns    int           `yaml:"max-open-conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max-idle-conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn-max-lifetime" validate:"gte=0"`
	SlowThreshold   time.Duration `yaml:"slow-threshold" validate:"gte=0"`
	LogLevel        string        `yaml:"log-level" validate:"oneof=silent error warn info"`
}

type LogConfig struct {
	Level     string `yaml:"level" validate:"oneof=DEBUG INFO WARN ERROR"`
	Format    string `yaml:"format" validate:"oneof=json text"`
	AddSource bool   `yaml:"add-source"`
}

type FilterConfig struct {
	// Strict rejects unknown filters instead of ignoring them.
	Strict bool `yaml:"strict"`
	// Limits selects the filter limits: none, default or relaxed.
	Limits string `yaml:"limits" validate:"oneof=none default relaxed"`
}

// FilterLimits resolves Limits to the predefined filter limits.
func (c FilterConfig) FilterLimits() *filter.Limits {
	switch c.Limits {
	case "default":
		return filter.DefaultLimits
	case "relaxed":
		return filter.RelaxedLimits
	}
	return nil
}

type PaginationConfig struct {
	DefaultPerPage int `yaml:"default-per-page" validate:"min=1"`
	MaxPerPage     int `yaml:"max-per-page" validate:"gtefield=DefaultPerPage"`
}

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Filter     FilterConfig     `yaml:"filter"`
	Pagination PaginationConfig `yaml:"pagination"`
}

// Default returns the configuration used for every value missing from the
// config file and the environment. It has no database DSN.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			SlowThreshold:   200 * time.Millisecond,
			LogLevel:        "warn",
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
		},
		Filter: FilterConfig{
			Limits: "default",
		},
		Pagination: PaginationConfig{
			DefaultPerPage: 15,
			MaxPerPage:     100,
		},
	}
}

// Load reads the YAML file at path on top of Default, then the dotenv
// files, then STAYMARKET_* environment variables, and validates the result.
// An empty path skips the YAML file; missing dotenv files are ignored.
func Load(path string, dotenv ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := Parse(raw, cfg); err != nil {
			return nil, err
		}
	}

	for _, file := range dotenv {
		// values already in the environment win over the file
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "load %s", file)
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, rejecting unknown keys.
func Parse(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "parse config file")
	}
	return nil
}

type envVar struct {
	name string
	set  func(cfg *Config, value string) error
}

var envVars = []envVar{
	{"HTTP_ADDR", func(c *Config, v string) error { c.HTTP.Addr = v; return nil }},
	{"HTTP_READ_TIMEOUT", func(c *Config, v string) error { return setDuration(&c.HTTP.ReadTimeout, v) }},
	{"HTTP_WRITE_TIMEOUT", func(c *Config, v string) error { return setDuration(&c.HTTP.WriteTimeout, v) }},
	{"HTTP_SHUTDOWN_TIMEOUT", func(c *Config, v string) error { return setDuration(&c.HTTP.ShutdownTimeout, v) }},
	{"HTTP_RATE_LIMIT", func(c *Config, v string) error { return setFloat(&c.HTTP.RateLimit, v) }},
	{"HTTP_RATE_BURST", func(c *Config, v string) error { return setInt(&c.HTTP.RateBurst, v) }},
	{"DATABASE_DSN", func(c *Config, v string) error { c.Database.DSN = v; return nil }},
	{"DATABASE_MAX_OPEN_CONNS", func(c *Config, v string) error { return setInt(&c.Database.MaxOpenConns, v) }},
	{"DATABASE_MAX_IDLE_CONNS", func(c *Config, v string) error { return setInt(&c.Database.MaxIdleConns, v) }},
	{"DATABASE_LOG_LEVEL", func(c *Config, v string) error { c.Database.LogLevel = strings.ToLower(v); return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = strings.ToUpper(v); return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Log.Format = strings.ToLower(v); return nil }},
	{"FILTER_STRICT", func(c *Config, v string) error { return setBool(&c.Filter.Strict, v) }},
	{"FILTER_LIMITS", func(c *Config, v string) error { c.Filter.Limits = strings.ToLower(v); return nil }},
	{"PAGINATION_DEFAULT_PER_PAGE", func(c *Config, v string) error { return setInt(&c.Pagination.DefaultPerPage, v) }},
	{"PAGINATION_MAX_PER_PAGE", func(c *Config, v string) error { return setInt(&c.Pagination.MaxPerPage, v) }},
}

// EnvNames lists the environment variables ApplyEnv reads.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = EnvPrefix + ev.name
	}
	return names
}

// ApplyEnv overrides cfg with the STAYMARKET_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		value, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.set(cfg, strings.TrimSpace(value)); err != nil {
			return errors.Wrapf(err, "invalid %s%s", EnvPrefix, ev.name)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "validate config")
	}
	return nil
}

func setDuration(dst *time.Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func setInt(dst *int, v string) error {
	i, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = i
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
