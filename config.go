package aegis

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configuration can use values
// like "30m" or "2h15m".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Strategy names for Config.Security.Strategy.
const (
	StrategyAllSuccessful        = "all-successful"
	StrategyAtLeastOneSuccessful = "at-least-one-successful"
	StrategyFirstSuccessful      = "first-successful"
)

// Config tunes the engine. Zero values fall back to the defaults from
// DefaultConfig at Build time.
type Config struct {
	Session  SessionConfig  `yaml:"session"`
	Cache    CacheConfig    `yaml:"cache"`
	Security SecurityConfig `yaml:"security"`
}

// SessionConfig tunes the session layer.
type SessionConfig struct {
	// Timeout is the idle timeout for new sessions.
	Timeout Duration `yaml:"timeout"`

	// DeleteInvalid removes stopped and expired records from storage
	// instead of keeping terminal markers.
	DeleteInvalid bool `yaml:"delete_invalid"`
}

// CacheConfig tunes the realm and session caches.
type CacheConfig struct {
	// MaxEntries bounds each in-process cache. Zero means unbounded.
	MaxEntries int `yaml:"max_entries"`

	// TTL expires cached entries. Zero disables time-based eviction.
	TTL Duration `yaml:"ttl"`
}

// SecurityConfig tunes authentication behavior.
type SecurityConfig struct {
	// Strategy names the multi-realm consensus policy.
	Strategy string `yaml:"strategy"`

	// MaxLoginAttempts enables the Redis attempt limiter when positive
	// and a Redis client is configured.
	MaxLoginAttempts int `yaml:"max_login_attempts"`

	// LoginCooldown is the attempt limiter's fixed window.
	LoginCooldown Duration `yaml:"login_cooldown"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Timeout: Duration(30 * time.Minute),
		},
		Cache: CacheConfig{
			MaxEntries: 10_000,
			TTL:        Duration(5 * time.Minute),
		},
		Security: SecurityConfig{
			Strategy:      StrategyAtLeastOneSuccessful,
			LoginCooldown: Duration(15 * time.Minute),
		},
	}
}

// Validate checks the configuration for fatal mistakes.
func (c Config) Validate() error {
	switch c.Security.Strategy {
	case StrategyAllSuccessful, StrategyAtLeastOneSuccessful, StrategyFirstSuccessful:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrConfiguration, c.Security.Strategy)
	}
	if c.Security.MaxLoginAttempts < 0 {
		return fmt.Errorf("%w: max_login_attempts must not be negative", ErrConfiguration)
	}
	if c.Security.MaxLoginAttempts > 0 && c.Security.LoginCooldown <= 0 {
		return fmt.Errorf("%w: login_cooldown is required with max_login_attempts", ErrConfiguration)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("%w: cache max_entries must not be negative", ErrConfiguration)
	}
	return nil
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
