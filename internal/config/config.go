// Package config provides configuration loading and validation for jobby.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Session backends.
const (
	SessionCookie = "cookie"
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// Config is the jobby configuration. Values come from a JSON/YAML file when
// one is given and are always overridden by environment variables.
type Config struct {
	// HTTP front end
	Port int `json:"port" yaml:"port" env:"PORT" env-default:"8080" validate:"gte=1,lte=65535"`

	// Upstream API
	APIBaseURL     string        `json:"api_base_url" yaml:"api_base_url" env:"JOBBY_API_BASE_URL" env-default:"https://apis.ccbp.in" validate:"required,url"`
	APITimeout     time.Duration `json:"api_timeout" yaml:"api_timeout" env:"JOBBY_API_TIMEOUT" env-default:"0s" validate:"gte=0"`
	StrictPayloads bool          `json:"strict_payloads" yaml:"strict_payloads" env:"JOBBY_STRICT_PAYLOADS"`

	// Sessions
	SessionBackend string        `json:"session_backend" yaml:"session_backend" env:"JOBBY_SESSION_BACKEND" env-default:"cookie" validate:"oneof=cookie redis memory"`
	CookieName     string        `json:"cookie_name" yaml:"cookie_name" env:"JOBBY_COOKIE_NAME" env-default:"jwt_token" validate:"required"`
	CookieSecure   bool          `json:"cookie_secure" yaml:"cookie_secure" env:"JOBBY_COOKIE_SECURE"`
	SessionTTL     time.Duration `json:"session_ttl" yaml:"session_ttl" env:"JOBBY_SESSION_TTL" env-default:"720h" validate:"gt=0"`
	RedisAddr      string        `json:"redis_addr" yaml:"redis_addr" env:"JOBBY_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword  string        `json:"redis_password" yaml:"redis_password" env:"JOBBY_REDIS_PASSWORD"`
	RedisDB        int           `json:"redis_db" yaml:"redis_db" env:"JOBBY_REDIS_DB" env-default:"0" validate:"gte=0"`

	// Listing screens kept per session
	ListingIdleTTL time.Duration `json:"listing_idle_ttl" yaml:"listing_idle_ttl" env:"JOBBY_LISTING_IDLE_TTL" env-default:"30m" validate:"gt=0"`

	// CLI
	Token   string `json:"-" yaml:"-" env:"JOBBY_TOKEN"`
	Verbose bool   `json:"verbose" yaml:"verbose" env:"JOBBY_VERBOSE"`
}

// Load reads configuration from path (if not empty) and the environment.
// A variable that is set but blank (as a ".env" line like "JOBBY_VERBOSE=" leaves it)
// counts as unset, so the default or file value applies.
func Load(path string) (*Config, error) {
	var cfg Config
	unsetBlankEnv()

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
		return &cfg, nil
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// unsetBlankEnv removes the Config variables that are present but empty.
func unsetBlankEnv() {
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) == "" {
			_ = os.Unsetenv(name)
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("config error: '%s' failed '%s' (got %v)", fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("config error: %w", err)
}

// Addr is the listen address for the HTTP front end.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Usage returns the environment variable help text.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
