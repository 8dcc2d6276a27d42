package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/teslashibe/go-vtuber/internal/log"
	"github.com/teslashibe/go-vtuber/pkg/capture"
	"github.com/teslashibe/go-vtuber/pkg/landmark"
	"gocv.io/x/gocv"
)

// FrameSource yields camera frames. *capture.Camera implements it.
type FrameSource interface {
	Read(frame *gocv.Mat) error
	Close() error
}

// Session is the explicit capture context of one run: it is opened at startup,
// passed to the frame loop and closed on quit.
type Session struct {
	ID       string
	Source   FrameSource
	Detector landmark.Detector
	Display  Display // nil when headless

	recording *os.File
	replay    *landmark.ReplayDetector // set when frames come from a recording
}

// NewSession assembles a session from already opened parts.
func NewSession(source FrameSource, detector landmark.Detector, display Display) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Source:   source,
		Detector: detector,
		Display:  display,
	}
}

// Open opens the camera, the landmark detector and the window described by cfg.
// On error everything opened so far is closed again.
func Open(cfg Config) (*Session, error) {
	s := &Session{ID: uuid.NewString()}
	fail := func(err error) (*Session, error) {
		s.Close()
		return nil, err
	}

	cam, err := capture.Open(cfg.Capture)
	if err != nil {
		return fail(err)
	}
	s.Source = cam

	if cfg.ReplayPath != "" {
		replay, err := landmark.OpenReplay(cfg.ReplayPath)
		if err != nil {
			return fail(fmt.Errorf("failed to open replay: %w", err))
		}
		replay.Loop = cfg.LoopReplay
		s.Detector = replay
		s.replay = replay
		log.Info("replaying landmarks", "path", cfg.ReplayPath, "frames", replay.Len())
	} else {
		det, err := landmark.NewDetector(cfg.Landmarks)
		if err != nil {
			return fail(err)
		}
		s.Detector = det
	}

	if cfg.RecordPath != "" {
		f, err := os.Create(cfg.RecordPath)
		if err != nil {
			return fail(fmt.Errorf("failed to create recording: %w", err))
		}
		s.recording = f
		s.Detector = landmark.NewRecorder(s.Detector, f)
		log.Info("recording landmarks", "path", cfg.RecordPath)
	}

	if cfg.Window {
		s.Display = NewWindow(cfg.WindowName)
	}

	return s, nil
}

// Close releases everything the session holds.
func (s *Session) Close() error {
	var errs []error
	if s.Display != nil {
		errs = append(errs, s.Display.Close())
		s.Display = nil
	}
	if s.Detector != nil {
		errs = append(errs, s.Detector.Close())
		s.Detector = nil
		s.replay = nil
	}
	if s.recording != nil {
		errs = append(errs, s.recording.Close())
		s.recording = nil
	}
	if s.Source != nil {
		errs = append(errs, s.Source.Close())
		s.Source = nil
	}
	return errors.Join(errs...)
}
