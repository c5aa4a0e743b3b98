// Package config handles loading and managing moviecards configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/sebastiantruijens/moviecards/internal/anim"
	"github.com/sebastiantruijens/moviecards/internal/search"
)

// Config represents the moviecards configuration.
type Config struct {
	Search    SearchConfig    `toml:"search"`
	Animation AnimationConfig `toml:"animation"`
	Posters   PostersConfig   `toml:"posters"`
	Log       LogConfig       `toml:"log"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`
}

// SearchConfig holds the search endpoint settings.
type SearchConfig struct {
	Endpoint       string `toml:"endpoint" validate:"required,http_url"`
	FallbackTerm   string `toml:"fallback_term"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"` // 0 = no client timeout
	UserAgent      string `toml:"user_agent"`
}

// AnimationConfig selects the easing curve. Timings are fixed.
type AnimationConfig struct {
	Ease string `toml:"ease"`
}

// PostersConfig controls poster thumbnails.
type PostersConfig struct {
	Enabled      bool    `toml:"enabled"`
	Width        int     `toml:"width" validate:"required_if=Enabled true,gte=0"`  // cells
	Height       int     `toml:"height" validate:"required_if=Enabled true,gte=0"` // rows
	RateLimitQPS float64 `toml:"rate_limit_qps" validate:"gte=0"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	File  string `toml:"file"` // empty disables logging
	Level string `toml:"level"`
}

// DefaultHome returns the default moviecards home directory.
// Respects MOVIECARDS_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("MOVIECARDS_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".moviecards"
	}
	return filepath.Join(home, ".moviecards")
}

// Default returns the configuration used when no file is present.
func Default(homeDir string) *Config {
	return &Config{
		HomeDir: homeDir,
		Search: SearchConfig{
			Endpoint:     search.DefaultEndpoint,
			FallbackTerm: search.DefaultFallbackTerm,
		},
		Animation: AnimationConfig{
			Ease: "power2.out",
		},
		Posters: PostersConfig{
			Enabled:      true,
			Width:        20,
			Height:       8,
			RateLimitQPS: 4,
		},
		Log: LogConfig{
			File:  filepath.Join(homeDir, "moviecards.log"),
			Level: "info",
		},
	}
}

// Load reads the configuration from the specified file.
// If path is empty, uses <home>/config.toml. If homeDir is empty, uses
// DefaultHome.
func Load(path, homeDir string) (*Config, error) {
	if homeDir == "" {
		homeDir = DefaultHome()
	} else {
		homeDir = expandPath(homeDir)
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := Default(homeDir)

	// Config file is optional unless named explicitly
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %s", path, keys[0])
	}

	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the struct tags above; fields are reported by their
// TOML names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fieldError(ve[0])
		}
		return err
	}
	if _, err := anim.ParseEasing(c.Animation.Ease); err != nil {
		return fmt.Errorf("animation.ease: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// fieldError turns a failed tag into a message naming the TOML key.
func fieldError(e validator.FieldError) error {
	key := e.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest // drop the root struct name
	}
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s must be set", key)
	case "http_url":
		return fmt.Errorf("%s %q: must be an absolute http(s) URL", key, e.Value())
	case "gte", "lte":
		return fmt.Errorf("%s must be %s %s, got %v", key, bound(e.Tag()), e.Param(), e.Value())
	}
	return fmt.Errorf("%s: failed %s check", key, e.Tag())
}

func bound(tag string) string {
	if tag == "gte" {
		return "at least"
	}
	return "at most"
}

// EnsureHomeDir creates the home directory if needed.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.HomeDir, 0o700)
}

// Timeout returns the search client timeout (zero means none).
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

// AnimConfig returns the fixed tween timings with the configured curve.
// It assumes Validate has passed.
func (c *Config) AnimConfig() anim.Config {
	ac := anim.DefaultConfig()
	if ease, err := anim.ParseEasing(c.Animation.Ease); err == nil {
		ac.Ease = ease
	}
	return ac
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
