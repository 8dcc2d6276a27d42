// Package avatar plans the stylized avatar for one frame as an ordered list of
// drawing primitives. Rasterisation lives in pkg/canvas.
package avatar

import "image/color"

// Palette holds the avatar colours.
type Palette struct {
	Background   color.RGBA `json:"background"`
	Skin         color.RGBA `json:"skin"`
	Hair         color.RGBA `json:"hair"`
	EyeWhite     color.RGBA `json:"eye_white"`
	EyeOutline   color.RGBA `json:"eye_outline"`
	Iris         color.RGBA `json:"iris"`
	Highlight    color.RGBA `json:"highlight"`
	ClosedEye    color.RGBA `json:"closed_eye"`
	Blush        color.RGBA `json:"blush"`
	Nose         color.RGBA `json:"nose"`
	MouthOpen    color.RGBA `json:"mouth_open"`
	MouthOutline color.RGBA `json:"mouth_outline"`
	MouthClosed  color.RGBA `json:"mouth_closed"`
}

// DefaultPalette returns the pastel palette.
func DefaultPalette() Palette {
	return Palette{
		Background:   color.RGBA{R: 230, G: 240, B: 255, A: 255},
		Skin:         color.RGBA{R: 255, G: 235, B: 220, A: 255},
		Hair:         color.RGBA{R: 50, G: 60, B: 80, A: 255},
		EyeWhite:     color.RGBA{R: 250, G: 250, B: 250, A: 255},
		EyeOutline:   color.RGBA{A: 255},
		Iris:         color.RGBA{R: 50, G: 100, B: 200, A: 255},
		Highlight:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ClosedEye:    color.RGBA{R: 40, G: 40, B: 50, A: 255},
		Blush:        color.RGBA{R: 255, G: 180, B: 180, A: 255},
		Nose:         color.RGBA{R: 210, G: 180, B: 160, A: 255},
		MouthOpen:    color.RGBA{R: 200, G: 100, B: 100, A: 255},
		MouthOutline: color.RGBA{R: 150, G: 80, B: 80, A: 255},
		MouthClosed:  color.RGBA{R: 80, G: 80, B: 100, A: 255},
	}
}

// Config holds the canvas size, palette and expression thresholds.
type Config struct {
	Width  int `json:"width"`  // Canvas width in pixels
	Height int `json:"height"` // Canvas height in pixels

	Palette Palette `json:"palette"`

	// EyeClosedThreshold: an eye with EAR below this is drawn closed.
	EyeClosedThreshold float64 `json:"eye_closed_threshold"`

	// MouthOpenThreshold: a MAR above this draws an open mouth.
	MouthOpenThreshold float64 `json:"mouth_open_threshold"`

	// OffsetGain converts degrees of yaw/pitch into feature offset pixels.
	OffsetGain float64 `json:"offset_gain"`
	MaxOffsetX int     `json:"max_offset_x"`
	MaxOffsetY int     `json:"max_offset_y"`

	// FringeFollow is how much of the feature offset the hair fringe follows (0-1).
	FringeFollow float64 `json:"fringe_follow"`
}

// Canvas limits. The minimum leaves room for the camera preview.
const (
	MinWidth  = 320
	MinHeight = 240
	MaxWidth  = 3840
	MaxHeight = 2160
)

// DefaultConfig returns the 800x600 avatar.
func DefaultConfig() Config {
	return Config{
		Width:   800,
		Height:  600,
		Palette: DefaultPalette(),

		EyeClosedThreshold: 0.15,
		MouthOpenThreshold: 3.0,

		OffsetGain: 3.0,
		MaxOffsetX: 80,
		MaxOffsetY: 60,

		FringeFollow: 0.6,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Width < MinWidth || c.Width > MaxWidth {
		errors = append(errors, "width must be between 320 and 3840")
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		errors = append(errors, "height must be between 240 and 2160")
	}
	if c.EyeClosedThreshold <= 0 || c.EyeClosedThreshold >= 1 {
		errors = append(errors, "eye_closed_threshold must be between 0 and 1")
	}
	if c.MouthOpenThreshold <= 0 {
		errors = append(errors, "mouth_open_threshold must be positive")
	}
	if c.OffsetGain < 0 {
		errors = append(errors, "offset_gain must not be negative")
	}
	if c.MaxOffsetX < 0 || c.MaxOffsetY < 0 {
		errors = append(errors, "max_offset_x and max_offset_y must not be negative")
	}
	if c.FringeFollow < 0 || c.FringeFollow > 1 {
		errors = append(errors, "fringe_follow must be between 0 and 1")
	}

	return errors
}
