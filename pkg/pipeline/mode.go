// Package pipeline holds the per-frame processing chain and the display mode state.
package pipeline

import (
	"fmt"
	"sync"
)

// Mode selects the picture-in-picture source.
type Mode int

const (
	// ModeReal shows the camera frame with the mesh overlay.
	ModeReal Mode = iota
	// ModePrivacy shows the mesh on black.
	ModePrivacy
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeReal:
		return "REAL"
	case ModePrivacy:
		return "PRIVACY"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText encodes the mode as its name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ShowCamera reports whether the camera frame is visible in this mode.
func (m Mode) ShowCamera() bool {
	return m == ModeReal
}

// Controller owns the display mode. The frame loop mutates it; other goroutines
// may read it.
type Controller struct {
	mu   sync.RWMutex
	mode Mode
}

// NewController creates a controller starting in initial.
func NewController(initial Mode) *Controller {
	return &Controller{mode: initial}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Toggle flips between real and privacy and returns the new mode.
func (c *Controller) Toggle() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeReal {
		c.mode = ModePrivacy
	} else {
		c.mode = ModeReal
	}
	return c.mode
}

// Apply executes cmd and reports whether it asks to quit.
func (c *Controller) Apply(cmd Command) (quit bool) {
	switch cmd {
	case CommandToggleMode:
		c.Toggle()
	case CommandQuit:
		return true
	}
	return false
}
