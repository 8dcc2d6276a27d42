// Package capture reads camera frames through OpenCV.
// Settings follow the same Config/DefaultConfig/Validate pattern as pkg/avatar.
package capture

import "strconv"

// SourceBlank is a synthetic source producing uniform frames; useful without a camera.
const SourceBlank = "blank"

// Config holds the capture parameters.
type Config struct {
	// Source is a device index ("0"), a video file or stream URL, or SourceBlank.
	Source string `json:"source"`

	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Requested FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100 for frames sent to the detector

	// Mirror flips frames horizontally so the preview behaves like a mirror.
	Mirror bool `json:"mirror"`
}

// Limits for requested frame sizes.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
)

// DefaultConfig returns the webcam configuration: device 0 at 640x480, mirrored.
func DefaultConfig() Config {
	return Config{
		Source:    "0",
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   80,
		Mirror:    true,
	}
}

// Device returns the device index when Source is numeric.
func (c *Config) Device() (int, bool) {
	id, err := strconv.Atoi(c.Source)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Source == "" {
		errors = append(errors, "source must not be empty")
	}
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
