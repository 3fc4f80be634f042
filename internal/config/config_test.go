package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestFromViperOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("wpm", 450)
	viper.Set("words_at_time", 2)
	viper.Set("narration.enabled", true)
	viper.Set("narration.engine", "Google")
	viper.Set("narration.voice", "en-US-Neural2-A")
	viper.Set("narration.piper.timeout", "45s")

	cfg, err := FromViper()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WPM != 450 {
		t.Errorf("wpm = %d, want 450", cfg.WPM)
	}
	if cfg.WordsAtTime != 2 {
		t.Errorf("words_at_time = %d, want 2", cfg.WordsAtTime)
	}
	if !cfg.Narration.Enabled {
		t.Error("narration not enabled")
	}
	if cfg.Narration.Engine != EngineGoogle {
		t.Errorf("engine = %q, want %q", cfg.Narration.Engine, EngineGoogle)
	}
	if cfg.Narration.Piper.Timeout != 45*time.Second {
		t.Errorf("piper timeout = %v, want 45s", cfg.Narration.Piper.Timeout)
	}
	// Untouched keys keep their defaults.
	if cfg.Narration.SampleRate != 22050 {
		t.Errorf("sample_rate = %d, want default 22050", cfg.Narration.SampleRate)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	resetViper(t)
	viper.Set("wpm", 200)
	t.Setenv("SPEEDREAD_WPM", "600")
	t.Setenv("SPEEDREAD_NARRATION_ENGINE", "mock")

	cfg, err := FromViper()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WPM != 600 {
		t.Errorf("wpm = %d, want env override 600", cfg.WPM)
	}
	if cfg.Narration.Engine != EngineMock {
		t.Errorf("engine = %q, want %q", cfg.Narration.Engine, EngineMock)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"wpm too low", func(c *Config) { c.WPM = 50 }},
		{"wpm too high", func(c *Config) { c.WPM = 2000 }},
		{"group too large", func(c *Config) { c.WordsAtTime = 9 }},
		{"zero font scale", func(c *Config) { c.FontScale = 0 }},
		{"unknown engine", func(c *Config) { c.Narration.Engine = "espeak" }},
		{"bad sample rate", func(c *Config) { c.Narration.SampleRate = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestFromViperRejectsInvalid(t *testing.T) {
	resetViper(t)
	viper.Set("narration.engine", "festival")
	if _, err := FromViper(); err == nil {
		t.Error("FromViper accepted an unknown engine")
	}
}

func TestSettingsConversion(t *testing.T) {
	cfg := Default()
	cfg.WPM = 400
	cfg.WordsAtTime = 3
	cfg.Narration.Enabled = true
	cfg.Narration.Voice = "alloy"

	s := cfg.Settings()
	if s.WPM != 400 || s.WordsAtTime != 3 || !s.NarrationEnabled || s.Voice != "alloy" {
		t.Errorf("settings = %+v", s)
	}
}
