package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given explicitly.
const DefaultPath = "trmc.yaml"

// EnvPrefix prefixes every environment override, e.g. TRMC_MAX_STEPS.
const EnvPrefix = "TRMC_"

// Config holds the settings shared by every trmc command.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// MaxSteps caps every run; 0 leaves runs unbounded.
	MaxSteps int `mapstructure:"max_steps" yaml:"max_steps"`

	// Strict refuses to run programs with invalid characters or jump targets.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// LiteralUnused counts owning a path as use in the unused-state check.
	LiteralUnused bool `mapstructure:"literal_unused" yaml:"literal_unused"`

	// Library is an optional markdown program library served by `serve` and `mcp`.
	Library string `mapstructure:"library" yaml:"library"`

	// EncryptionKey is a base64 AES-256 key; when set, stored programs are sealed.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`

	HTTP  HTTPConfig  `mapstructure:"http" yaml:"http"`
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// RedisConfig configures the Redis program store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Prefix: "trmc:program:",
		},
	}
}

// envKeys maps environment variable suffixes to config key paths.
var envKeys = map[string][]string{
	"LOG_LEVEL":             {"log_level"},
	"MAX_STEPS":             {"max_steps"},
	"STRICT":                {"strict"},
	"LITERAL_UNUSED":        {"literal_unused"},
	"LIBRARY":               {"library"},
	"ENCRYPTION_KEY":        {"encryption_key"},
	"HTTP_PORT":             {"http", "port"},
	"HTTP_SHUTDOWN_TIMEOUT": {"http", "shutdown_timeout"},
	"REDIS_ADDR":            {"redis", "addr"},
	"REDIS_PASSWORD":        {"redis", "password"},
	"REDIS_DB":              {"redis", "db"},
	"REDIS_PREFIX":          {"redis", "prefix"},
	"REDIS_TTL":             {"redis", "ttl"},
}

// Load reads the YAML file at path (if any), overlays TRMC_* environment variables
// and decodes the result over the defaults.
// A missing file is only an error when explicit is true.
func Load(path string, explicit bool) (*Config, error) {
	return load(path, explicit, os.LookupEnv)
}

func load(path string, explicit bool, lookup func(string) (string, bool)) (*Config, error) {
	raw := make(map[string]any)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			if raw == nil {
				raw = make(map[string]any)
			}
		case os.IsNotExist(err) && !explicit:
			// No config file: defaults and environment only.
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for suffix, keyPath := range envKeys {
		if val, ok := lookup(EnvPrefix + suffix); ok {
			setPath(raw, keyPath, val)
		}
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           cfg,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("invalid config: max_steps must not be negative, got %d", cfg.MaxSteps)
	}
	return cfg, nil
}

func setPath(m map[string]any, keyPath []string, val string) {
	for _, key := range keyPath[:len(keyPath)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[keyPath[len(keyPath)-1]] = val
}
