// Package config resolves blossom's runtime configuration.
//
// Values are layered, highest priority first:
//
//  1. command-line flags
//  2. BLOSSOM_* environment variables (GEMINI_API_KEY is also accepted)
//  3. .env.local, then .env, in the working directory (or ENV_FILE when set)
//  4. settings saved in the store by 'blossom setup'
//  5. built-in defaults
//
// The Gemini API key falls back to the OS keyring when no flag or variable supplies it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/keyring"
	"github.com/julianstephens/blossom/internal/models"
)

// Env holds the values read from the process environment
type Env struct {
	APIKey       string        `env:"BLOSSOM_API_KEY"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	Model        string        `env:"BLOSSOM_MODEL"`
	BaseURL      string        `env:"BLOSSOM_BASE_URL"`
	Timeout      time.Duration `env:"BLOSSOM_TIMEOUT"`
	Store        string        `env:"BLOSSOM_STORE"`
	Debug        bool          `env:"BLOSSOM_DEBUG"`
	TargetMonth  *int          `env:"BLOSSOM_TARGET_MONTH"`
	TargetDay    *int          `env:"BLOSSOM_TARGET_DAY"`
	TargetHour   *int          `env:"BLOSSOM_TARGET_HOUR"`
	TargetMinute *int          `env:"BLOSSOM_TARGET_MINUTE"`
}

// Flags holds the global command-line overrides. Zero values mean unset.
type Flags struct {
	Store   string
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Config is the fully resolved configuration
type Config struct {
	StorePath  string
	Model      string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	Debug      bool
	Target     countdown.Target
	ShowPetals bool
}

// LoadEnvFiles loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	// .env.local is loaded first so its values win over .env
	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ParseEnv reads the BLOSSOM_* variables
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// StorePath picks the store location before settings can be read
func StorePath(flags Flags, e Env) string {
	return firstNonEmpty(flags.Store, e.Store, constants.DefaultConfigPath)
}

// Resolve layers flags, environment and stored settings over the defaults.
// The API key is left empty when only the keyring could supply it; see ResolveAPIKey.
func Resolve(flags Flags, e Env, settings models.Settings) Config {
	cfg := Config{
		StorePath:  StorePath(flags, e),
		Model:      firstNonEmpty(flags.Model, e.Model, settings.Model, constants.DefaultModel),
		APIKey:     firstNonEmpty(flags.APIKey, e.APIKey, e.GeminiAPIKey),
		BaseURL:    firstNonEmpty(flags.BaseURL, e.BaseURL, constants.DefaultGeminiBaseURL),
		Timeout:    constants.DefaultRequestTimeout,
		Debug:      flags.Debug || e.Debug,
		ShowPetals: settings.ShowPetals,
		Target: countdown.Target{
			Month:  settings.TargetMonth,
			Day:    settings.TargetDay,
			Hour:   settings.TargetHour,
			Minute: settings.TargetMinute,
		},
	}

	switch {
	case flags.Timeout > 0:
		cfg.Timeout = flags.Timeout
	case e.Timeout > 0:
		cfg.Timeout = e.Timeout
	}

	if e.TargetMonth != nil {
		cfg.Target.Month = time.Month(*e.TargetMonth)
	}
	if e.TargetDay != nil {
		cfg.Target.Day = *e.TargetDay
	}
	if e.TargetHour != nil {
		cfg.Target.Hour = *e.TargetHour
	}
	if e.TargetMinute != nil {
		cfg.Target.Minute = *e.TargetMinute
	}
	if cfg.Target.Month == 0 && cfg.Target.Day == 0 {
		cfg.Target = countdown.DefaultTarget()
	}

	return cfg
}

// keyringAPIKey is replaced in tests
var keyringAPIKey = keyring.GetAPIKey

// ResolveAPIKey fills APIKey from the OS keyring when it is still empty.
// A missing or unavailable keyring leaves the key empty; the insight fetch
// then falls back instead of failing the command.
func (c *Config) ResolveAPIKey() error {
	if c.APIKey != "" {
		return nil
	}
	key, err := keyringAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrKeyringUnavailable) {
			return nil
		}
		return err
	}
	c.APIKey = strings.TrimSpace(key)
	return nil
}

// Validate checks the resolved values that can be wrong at startup
func (c Config) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid countdown target: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s", c.Timeout)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
