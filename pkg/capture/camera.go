package capture

import (
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned by Read when the device produced no frame this time.
// The next Read may succeed.
var ErrNoFrame = errors.New("capture: no frame")

// Camera is an open frame source.
type Camera struct {
	cfg  Config
	vc   *gocv.VideoCapture
	file bool
}

// Open opens the configured source.
func Open(cfg Config) (*Camera, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid capture config: %v", errs)
	}

	c := &Camera{cfg: cfg}
	if cfg.Source == SourceBlank {
		return c, nil
	}

	var err error
	if id, ok := cfg.Device(); ok {
		c.vc, err = gocv.VideoCaptureDevice(id)
	} else {
		c.vc, err = gocv.VideoCaptureFile(cfg.Source)
		c.file = true
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open capture %q: %w", cfg.Source, err)
	}
	if !c.vc.IsOpened() {
		c.vc.Close()
		return nil, fmt.Errorf("failed to open capture %q", cfg.Source)
	}

	if !c.file {
		c.vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		c.vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
		c.vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	}

	return c, nil
}

// Read fills frame with the next BGR frame, mirrored if configured. A device
// that yields nothing returns ErrNoFrame; a file source at its end returns io.EOF.
func (c *Camera) Read(frame *gocv.Mat) error {
	if c.vc == nil {
		blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), c.cfg.Height, c.cfg.Width, gocv.MatTypeCV8UC3)
		defer blank.Close()
		blank.CopyTo(frame)
		return nil
	}

	if ok := c.vc.Read(frame); !ok || frame.Empty() {
		if c.file {
			return io.EOF
		}
		return ErrNoFrame
	}

	if c.cfg.Mirror {
		gocv.Flip(*frame, frame, 1)
	}
	return nil
}

// Close releases the device.
func (c *Camera) Close() error {
	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.vc = nil
	return err
}
