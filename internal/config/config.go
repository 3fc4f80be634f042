// Package config holds the application configuration, loaded from the YAML
// config file via viper and overridable through SPEEDREAD_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/hmtkvs/speedread/reader"
)

// Supported narration engines.
const (
	EngineMock   = "mock"
	EnginePiper  = "piper"
	EngineGoogle = "google"
)

// Config is the full application configuration.
type Config struct {
	WPM         int     `yaml:"wpm" env:"SPEEDREAD_WPM"`
	WordsAtTime int     `yaml:"words_at_time" env:"SPEEDREAD_WORDS_AT_TIME"`
	FontScale   float64 `yaml:"font_scale" env:"SPEEDREAD_FONT_SCALE"`

	Narration NarrationConfig `yaml:"narration" envPrefix:"SPEEDREAD_NARRATION_"`
	Stats     StatsConfig     `yaml:"stats" envPrefix:"SPEEDREAD_STATS_"`
}

// NarrationConfig selects and configures the speech backend.
type NarrationConfig struct {
	Enabled    bool   `yaml:"enabled" env:"ENABLED"`
	Engine     string `yaml:"engine" env:"ENGINE"`
	Voice      string `yaml:"voice" env:"VOICE"`
	Language   string `yaml:"language" env:"LANGUAGE"`
	SampleRate int    `yaml:"sample_rate" env:"SAMPLE_RATE"`

	Piper  PiperConfig  `yaml:"piper" envPrefix:"PIPER_"`
	Google GoogleConfig `yaml:"google" envPrefix:"GOOGLE_"`
}

// PiperConfig configures the local piper binary.
type PiperConfig struct {
	Binary  string        `yaml:"binary" env:"BINARY"`
	Model   string        `yaml:"model" env:"MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// GoogleConfig configures the Google Cloud TTS backend. Credentials come
// from application default credentials (GOOGLE_APPLICATION_CREDENTIALS).
type GoogleConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// StatsConfig controls reading-history persistence.
type StatsConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		WPM:         reader.DefaultSettings().WPM,
		WordsAtTime: reader.DefaultSettings().WordsAtTime,
		FontScale:   1.0,
		Narration: NarrationConfig{
			Enabled:    false,
			Engine:     EnginePiper,
			Language:   "en-US",
			SampleRate: 22050,
			Piper: PiperConfig{
				Binary:  "piper",
				Timeout: 30 * time.Second,
			},
			Google: GoogleConfig{
				Timeout: 15 * time.Second,
			},
		},
		Stats: StatsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.WPM < reader.MinWPM || c.WPM > reader.MaxWPM {
		return fmt.Errorf("wpm %d out of range [%d, %d]", c.WPM, reader.MinWPM, reader.MaxWPM)
	}
	if c.WordsAtTime < reader.MinWordsAtTime || c.WordsAtTime > reader.MaxWordsAtTime {
		return fmt.Errorf("words_at_time %d out of range [%d, %d]", c.WordsAtTime, reader.MinWordsAtTime, reader.MaxWordsAtTime)
	}
	if c.FontScale <= 0 {
		return fmt.Errorf("font_scale must be positive, got %g", c.FontScale)
	}
	switch c.Narration.Engine {
	case EngineMock, EnginePiper, EngineGoogle:
	default:
		return fmt.Errorf("unknown narration engine %q", c.Narration.Engine)
	}
	if c.Narration.SampleRate <= 0 {
		return fmt.Errorf("narration sample_rate must be positive, got %d", c.Narration.SampleRate)
	}
	return nil
}

// SetDefaults registers every key's default value with viper so that a
// partial config file fills in the rest.
func SetDefaults() {
	d := Default()

	viper.SetDefault("wpm", d.WPM)
	viper.SetDefault("words_at_time", d.WordsAtTime)
	viper.SetDefault("font_scale", d.FontScale)

	viper.SetDefault("narration.enabled", d.Narration.Enabled)
	viper.SetDefault("narration.engine", d.Narration.Engine)
	viper.SetDefault("narration.voice", d.Narration.Voice)
	viper.SetDefault("narration.language", d.Narration.Language)
	viper.SetDefault("narration.sample_rate", d.Narration.SampleRate)

	viper.SetDefault("narration.piper.binary", d.Narration.Piper.Binary)
	viper.SetDefault("narration.piper.model", d.Narration.Piper.Model)
	viper.SetDefault("narration.piper.timeout", d.Narration.Piper.Timeout.String())

	viper.SetDefault("narration.google.timeout", d.Narration.Google.Timeout.String())

	viper.SetDefault("stats.enabled", d.Stats.Enabled)
	viper.SetDefault("stats.path", d.Stats.Path)
}

// FromViper builds a Config from whatever viper currently holds, then applies
// SPEEDREAD_* environment overrides.
func FromViper() (Config, error) {
	cfg := Default()

	if viper.IsSet("wpm") {
		cfg.WPM = viper.GetInt("wpm")
	}
	if viper.IsSet("words_at_time") {
		cfg.WordsAtTime = viper.GetInt("words_at_time")
	}
	if viper.IsSet("font_scale") {
		cfg.FontScale = viper.GetFloat64("font_scale")
	}

	if viper.IsSet("narration.enabled") {
		cfg.Narration.Enabled = viper.GetBool("narration.enabled")
	}
	if viper.IsSet("narration.engine") {
		cfg.Narration.Engine = strings.ToLower(viper.GetString("narration.engine"))
	}
	if viper.IsSet("narration.voice") {
		cfg.Narration.Voice = viper.GetString("narration.voice")
	}
	if viper.IsSet("narration.language") {
		cfg.Narration.Language = viper.GetString("narration.language")
	}
	if viper.IsSet("narration.sample_rate") {
		cfg.Narration.SampleRate = viper.GetInt("narration.sample_rate")
	}

	if viper.IsSet("narration.piper.binary") {
		cfg.Narration.Piper.Binary = viper.GetString("narration.piper.binary")
	}
	if viper.IsSet("narration.piper.model") {
		cfg.Narration.Piper.Model = viper.GetString("narration.piper.model")
	}
	if viper.IsSet("narration.piper.timeout") {
		if d, err := time.ParseDuration(viper.GetString("narration.piper.timeout")); err == nil {
			cfg.Narration.Piper.Timeout = d
		}
	}

	if viper.IsSet("narration.google.timeout") {
		if d, err := time.ParseDuration(viper.GetString("narration.google.timeout")); err == nil {
			cfg.Narration.Google.Timeout = d
		}
	}

	if viper.IsSet("stats.enabled") {
		cfg.Stats.Enabled = viper.GetBool("stats.enabled")
	}
	if viper.IsSet("stats.path") {
		cfg.Stats.Path = viper.GetString("stats.path")
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Settings converts the reading-related fields into engine settings.
func (c Config) Settings() reader.Settings {
	s := reader.DefaultSettings()
	s.WPM = c.WPM
	s.WordsAtTime = c.WordsAtTime
	s.NarrationEnabled = c.Narration.Enabled
	s.Voice = c.Narration.Voice
	s.FontScale = c.FontScale
	return s
}
