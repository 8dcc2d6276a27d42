package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/teslashibe/go-vtuber/internal/log"
	"github.com/teslashibe/go-vtuber/pkg/canvas"
	"github.com/teslashibe/go-vtuber/pkg/capture"
	"github.com/teslashibe/go-vtuber/pkg/landmark"
	"github.com/teslashibe/go-vtuber/pkg/metrics"
	"github.com/teslashibe/go-vtuber/pkg/pipeline"
	"github.com/teslashibe/go-vtuber/pkg/web"
	"gocv.io/x/gocv"
)

// Publisher receives every output frame and status update. *web.Server implements it.
type Publisher interface {
	UpdateStatus(update func(*web.Status))
	SendFrame(jpeg []byte)
	WantsFrames() bool
}

// Loop runs the per-frame pipeline on a single goroutine.
type Loop struct {
	session    *Session
	processor  *pipeline.Processor
	renderer   *canvas.Renderer
	controller *pipeline.Controller
	metrics    *metrics.Metrics
	quality    int
	maxFrames  int
	frames     uint64

	// Commands is polled once per frame after presenting. Defaults to the
	// session window when it has one.
	Commands pipeline.CommandSource

	// Publisher is optional.
	Publisher Publisher
}

// NewLoop creates the frame loop for an open session.
func NewLoop(cfg Config, s *Session, ctrl *pipeline.Controller, m *metrics.Metrics) *Loop {
	l := &Loop{
		session:    s,
		processor:  pipeline.NewProcessor(cfg.Avatar),
		renderer:   canvas.NewRenderer(cfg.Avatar),
		controller: ctrl,
		metrics:    m,
		quality:    cfg.Capture.Quality,
		maxFrames:  cfg.MaxFrames,
	}
	if src, ok := s.Display.(pipeline.CommandSource); ok {
		l.Commands = src
	}
	// A rewound replay is a new take; don't smooth across the seam
	if s.replay != nil {
		s.replay.OnRewind = l.processor.Reset
	}
	m.SetPrivacy(!ctrl.Mode().ShowCamera())
	return l
}

// Frames returns how many frames were presented.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Run processes frames until a quit command, the end of a file or replay
// source, MaxFrames, or ctx is done. Cancellation is only checked between
// frames, so the current frame always completes.
func (l *Loop) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	for {
		if ctx.Err() != nil {
			log.Info("frame loop cancelled", "frames", l.frames)
			return nil
		}
		if l.maxFrames > 0 && l.frames >= uint64(l.maxFrames) {
			return nil
		}

		quit, err := l.Step(&frame)
		if errors.Is(err, io.EOF) {
			log.Info("source ended", "frames", l.frames)
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			log.Info("quit requested", "frames", l.frames)
			return nil
		}
	}
}

// Step runs one frame: read, detect, process, paint, composite, present and
// poll commands. It reports whether a quit was requested.
func (l *Loop) Step(frame *gocv.Mat) (quit bool, err error) {
	start := time.Now()

	if err := l.session.Source.Read(frame); err != nil {
		if errors.Is(err, capture.ErrNoFrame) {
			l.metrics.FramesSkipped.Add(1)
			return l.poll(), nil
		}
		return false, err
	}
	l.metrics.FramesRead.Add(1)

	w, h := frame.Cols(), frame.Rows()
	set, err := l.detect(*frame)
	if err != nil {
		return false, err
	}

	res := l.processor.Process(set, w, h)
	switch {
	case !res.Face:
		l.metrics.FramesNoFace.Add(1)
	case !res.Solved:
		l.metrics.PoseFallbacks.Add(1)
	}

	mode := l.controller.Mode()
	preview := canvas.Preview(*frame, set, mode.ShowCamera())
	defer preview.Close()

	out := l.renderer.Compose(res.Scene, preview)
	defer out.Close()
	canvas.DrawHUD(&out, mode.ShowCamera(), res.Raw)

	l.present(out)
	l.frames++
	l.metrics.ObserveFrame(start)

	if l.Publisher != nil {
		n := l.frames
		l.Publisher.UpdateStatus(func(st *web.Status) {
			st.Mode = mode
			st.Frame = n
			st.Face = res.Face
			st.Pose = res.Smoothed
			st.Expression = res.Expression
		})
	}

	log.Debug("frame", "n", l.frames, "face", res.Face, "pose", res.Raw.String(), "mar", res.Expression.Mar)

	return l.poll(), nil
}

// detect encodes the frame and asks the detector for landmarks. Detector
// failures cost only this frame; io.EOF from a replay ends the loop and a
// malformed set is a broken source, which fails it.
func (l *Loop) detect(frame gocv.Mat) (*landmark.Set, error) {
	jpeg, err := canvas.EncodeJPEG(frame, l.quality)
	if err != nil {
		l.metrics.EncodeErrors.Add(1)
		log.Warn("frame encode failed", "error", err)
		return nil, nil
	}

	set, err := l.session.Detector.Detect(jpeg)
	if errors.Is(err, io.EOF) || errors.Is(err, landmark.ErrMalformed) {
		return nil, err
	}
	if err != nil {
		l.metrics.DetectorErrors.Add(1)
		log.Debug("landmark detection failed", "error", err)
		return nil, nil
	}
	return set, nil
}

func (l *Loop) present(out gocv.Mat) {
	if l.session.Display != nil {
		l.session.Display.Show(out)
	}

	if l.Publisher == nil || !l.Publisher.WantsFrames() {
		return
	}
	jpeg, err := canvas.EncodeJPEG(out, l.quality)
	if err != nil {
		l.metrics.EncodeErrors.Add(1)
		return
	}
	l.Publisher.SendFrame(jpeg)
}

func (l *Loop) poll() bool {
	if l.Commands == nil {
		return false
	}
	cmd := l.Commands.Poll()
	if cmd == pipeline.CommandToggleMode {
		l.metrics.ModeToggles.Add(1)
	}
	quit := l.controller.Apply(cmd)
	l.metrics.SetPrivacy(!l.controller.Mode().ShowCamera())
	if cmd != pipeline.CommandNone {
		log.Info("command", "command", cmd.String(), "mode", l.controller.Mode().String())
	}
	return quit
}
