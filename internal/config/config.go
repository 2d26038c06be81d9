// Package config loads process configuration from JSONVIEW_* environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Evaluator and store backends.
const (
	EvaluatorBuiltin = "builtin"
	EvaluatorCEL     = "cel"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds everything the CLI needs to build a player and its storage.
type Config struct {
	LogLevel       string        `env:"JSONVIEW_LOG_LEVEL"         envDefault:"info"`
	LogFormat      string        `env:"JSONVIEW_LOG_FORMAT"        envDefault:"text"`
	DefaultCommand string        `env:"JSONVIEW_DEFAULT_COMMAND"`
	Whitelist      []string      `env:"JSONVIEW_COMMAND_WHITELIST" envSeparator:","`
	Evaluator      string        `env:"JSONVIEW_EVALUATOR"         envDefault:"builtin"`
	MaxDepth       int           `env:"JSONVIEW_MAX_DEPTH"`
	Store          string        `env:"JSONVIEW_STORE"             envDefault:"memory"`
	SessionDir     string        `env:"JSONVIEW_SESSION_DIR"       envDefault:".jsonview/sessions"`
	RedisAddr      string        `env:"JSONVIEW_REDIS_ADDR"        envDefault:"localhost:6379"`
	RedisPassword  string        `env:"JSONVIEW_REDIS_PASSWORD"`
	RedisDB        int           `env:"JSONVIEW_REDIS_DB"`
	SessionTTL     time.Duration `env:"JSONVIEW_SESSION_TTL"`
	LockTTL        time.Duration `env:"JSONVIEW_LOCK_TTL"          envDefault:"30s"`
	Addr           string        `env:"JSONVIEW_ADDR"              envDefault:":8080"`
	EncryptionKey  string        `env:"JSONVIEW_ENCRYPTION_KEY"`
	FallbackKeys   []string      `env:"JSONVIEW_FALLBACK_KEYS"     envSeparator:","`
	PIIPatterns    []string      `env:"JSONVIEW_PII_PATTERNS"      envSeparator:","`
	Metrics        bool          `env:"JSONVIEW_METRICS"           envDefault:"true"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and bad levels.
func (c Config) Validate() error {
	switch c.Evaluator {
	case EvaluatorBuiltin, EvaluatorCEL:
	default:
		return fmt.Errorf("unknown evaluator %q (want %s or %s)", c.Evaluator, EvaluatorBuiltin, EvaluatorCEL)
	}
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store, StoreMemory, StoreFile, StoreRedis)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Keys decodes the base64 encryption keys. It returns a nil active key when
// encryption is not configured.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		if len(c.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("fallback keys set without an encryption key")
		}
		return nil, nil, nil
	}
	active, err = base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decode encryption key: %w", err)
	}
	for i, k := range c.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(k))
		if err != nil {
			return nil, nil, fmt.Errorf("decode fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}
