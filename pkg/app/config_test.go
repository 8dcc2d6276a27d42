package app

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"default", func(*Config) {}, ""},
		{"bad capture", func(c *Config) { c.Capture.Width = 1 }, "Capture"},
		{"bad avatar", func(c *Config) { c.Avatar.Height = 10 }, "Avatar"},
		{"no landmarks", func(c *Config) { c.Landmarks.URL = "" }, "Landmarks"},
		{"replay without service", func(c *Config) { c.Landmarks.URL = ""; c.ReplayPath = "a.jsonl" }, ""},
		{"record over replay", func(c *Config) { c.ReplayPath = "a.jsonl"; c.RecordPath = "a.jsonl" }, "RecordPath"},
		{"negative frames", func(c *Config) { c.MaxFrames = -1 }, "MaxFrames"},
		{"no output", func(c *Config) { c.Window = false; c.WebPort = "" }, "Window"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)
			err := cfg.Validate()

			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cerr.Field != tc.field {
				t.Errorf("field: got %q, want %q", cerr.Field, tc.field)
			}
		})
	}
}

func TestConfig_LoadEnvConfig(t *testing.T) {
	t.Setenv("VTUBER_CAMERA", "clip.mp4")
	t.Setenv("VTUBER_LANDMARKS_URL", "ws://10.0.0.2:9000/stream")
	t.Setenv("VTUBER_WEB_PORT", "9999")
	t.Setenv("VTUBER_PRIVACY", "true")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	if cfg.Capture.Source != "clip.mp4" {
		t.Errorf("Source: got %q", cfg.Capture.Source)
	}
	if cfg.Landmarks.URL != "ws://10.0.0.2:9000/stream" {
		t.Errorf("URL: got %q", cfg.Landmarks.URL)
	}
	if cfg.WebPort != "9999" || !cfg.StartPrivacy {
		t.Errorf("WebPort %q StartPrivacy %v", cfg.WebPort, cfg.StartPrivacy)
	}
}
