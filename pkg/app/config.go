// Package app wires capture, landmark detection, pose and avatar rendering into
// the real-time frame loop.
package app

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-vtuber/internal/config"
	"github.com/teslashibe/go-vtuber/pkg/avatar"
	"github.com/teslashibe/go-vtuber/pkg/capture"
	"github.com/teslashibe/go-vtuber/pkg/landmark"
)

// DefaultWindowName is the title of the output window.
const DefaultWindowName = "Virtual Avatar VTuber"

// Config holds all configuration for the vtuber application.
// Flag parsing is done in cmd/vtuber/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	Capture   capture.Config
	Avatar    avatar.Config
	Landmarks landmark.Config

	// ReplayPath replays a landmark recording instead of calling a service.
	ReplayPath string
	// LoopReplay restarts the replay at its end instead of stopping the loop.
	LoopReplay bool
	// RecordPath tees every detection to a recording usable as ReplayPath.
	RecordPath string

	// Window shows the output in an OpenCV window and reads keys from it.
	Window     bool
	WindowName string

	// WebPort serves the dashboard; empty disables it.
	WebPort string

	// StartPrivacy starts in mesh-only mode.
	StartPrivacy bool

	// MaxFrames stops the loop after this many frames; 0 runs until quit.
	MaxFrames int
}

// DefaultConfig returns sensible defaults: webcam 0, local landmark service,
// a window and the dashboard.
func DefaultConfig() Config {
	return Config{
		Capture:    capture.DefaultConfig(),
		Avatar:     avatar.DefaultConfig(),
		Landmarks:  landmark.DefaultConfig(),
		Window:     true,
		WindowName: DefaultWindowName,
		WebPort:    config.DefaultWebPort,
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this before flag parsing so flags override the environment.
func (c *Config) LoadEnvConfig() {
	c.Capture.Source = config.Camera()
	if u := config.LandmarksURL(); u != "" {
		c.Landmarks.URL = u
	}
	c.WebPort = config.WebPort()
	c.StartPrivacy = c.StartPrivacy || config.PrivacyAtStart()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if errs := c.Capture.Validate(); len(errs) > 0 {
		return &ConfigError{Field: "Capture", Message: "capture: " + strings.Join(errs, "; ")}
	}
	if errs := c.Avatar.Validate(); len(errs) > 0 {
		return &ConfigError{Field: "Avatar", Message: "avatar: " + strings.Join(errs, "; ")}
	}
	if c.ReplayPath == "" && c.Landmarks.URL == "" {
		return &ConfigError{Field: "Landmarks", Message: "a landmark service URL (VTUBER_LANDMARKS_URL) or a replay file is required"}
	}
	if c.ReplayPath != "" && c.ReplayPath == c.RecordPath {
		return &ConfigError{Field: "RecordPath", Message: "cannot record over the replay being played"}
	}
	if c.MaxFrames < 0 {
		return &ConfigError{Field: "MaxFrames", Message: fmt.Sprintf("max frames must not be negative, got %d", c.MaxFrames)}
	}
	if !c.Window && c.WebPort == "" {
		return &ConfigError{Field: "Window", Message: "nothing to present to: enable the window or the web dashboard"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
