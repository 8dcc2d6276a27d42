package pipeline

import (
	"math"
	"reflect"
	"testing"

	"github.com/teslashibe/go-vtuber/pkg/avatar"
	"github.com/teslashibe/go-vtuber/pkg/expression"
	"github.com/teslashibe/go-vtuber/pkg/landmark"
	"github.com/teslashibe/go-vtuber/pkg/pose"
)

// syntheticFace projects the canonical model turned by yaw degrees.
func syntheticFace(yaw float64, w, h int) *landmark.Set {
	pts := make([]landmark.Point, landmark.Count)
	for i := range pts {
		pts[i] = landmark.Point{X: 0.5, Y: 0.5}
	}
	r := pose.EulerMatrix(170, yaw, 0)
	k := pose.NewIntrinsics(w, h)
	for _, a := range pose.CanonicalFaceModel {
		c := r.Apply(a.Position)
		c[2] += 3000
		u, v := k.Project(c)
		pts[a.Index] = landmark.Point{X: u / float64(w), Y: v / float64(h)}
	}
	// Open eyes, closed mouth
	pts[landmark.LeftEyeUpper] = landmark.Point{X: 0.40, Y: 0.39}
	pts[landmark.LeftEyeLower] = landmark.Point{X: 0.40, Y: 0.42}
	pts[landmark.LeftEyeInner] = landmark.Point{X: 0.45, Y: 0.40}
	return landmark.NewSet(pts)
}

func TestMode_Toggle(t *testing.T) {
	c := NewController(ModeReal)
	if got := c.Toggle(); got != ModePrivacy {
		t.Errorf("first toggle: got %v", got)
	}
	if got := c.Toggle(); got != ModeReal {
		t.Errorf("second toggle: got %v", got)
	}
	if !ModeReal.ShowCamera() || ModePrivacy.ShowCamera() {
		t.Error("ShowCamera mismatch")
	}
	if ModePrivacy.String() != "PRIVACY" {
		t.Errorf("String: got %q", ModePrivacy.String())
	}
}

func TestController_Apply(t *testing.T) {
	c := NewController(ModeReal)

	if c.Apply(CommandNone) || c.Mode() != ModeReal {
		t.Error("none should change nothing")
	}
	if c.Apply(CommandToggleMode) || c.Mode() != ModePrivacy {
		t.Error("toggle should flip the mode without quitting")
	}
	if !c.Apply(CommandQuit) {
		t.Error("quit should report quit")
	}
	if c.Mode() != ModePrivacy {
		t.Error("quit should not touch the mode")
	}
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  int
		want Command
	}{
		{-1, CommandNone},
		{'e', CommandToggleMode},
		{'q', CommandQuit},
		{'x', CommandNone},
		{0x100 | 'q', CommandQuit},
	}
	for _, tc := range tests {
		if got := KeyCommand(tc.key); got != tc.want {
			t.Errorf("KeyCommand(%d): got %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	if !q.Send(CommandToggleMode) || !q.Send(CommandQuit) {
		t.Fatal("Send should accept up to capacity")
	}
	if q.Send(CommandToggleMode) {
		t.Error("Send should drop when full")
	}
	if got := q.Poll(); got != CommandToggleMode {
		t.Errorf("first Poll: got %v", got)
	}
	if got := q.Poll(); got != CommandQuit {
		t.Errorf("second Poll: got %v", got)
	}
	if got := q.Poll(); got != CommandNone {
		t.Errorf("empty Poll: got %v", got)
	}
}

func TestMerge_KeepsEveryCommand(t *testing.T) {
	keys := []int{'e', -1, -1}
	var polls int
	src := KeySource(func() int {
		k := keys[polls%len(keys)]
		polls++
		return k
	})
	q := NewQueue(4)
	q.Send(CommandQuit)

	m := Merge(src, nil, q)
	if got := m.Poll(); got != CommandToggleMode {
		t.Errorf("first: got %v, want toggle", got)
	}
	if got := m.Poll(); got != CommandQuit {
		t.Errorf("second: got %v, want quit", got)
	}
	if got := m.Poll(); got != CommandNone {
		t.Errorf("third: got %v, want none", got)
	}
	if polls != 3 {
		t.Errorf("key source polled %d times, want 3", polls)
	}
}

func TestProcess_NoFace(t *testing.T) {
	p := NewProcessor(avatar.DefaultConfig())
	res := p.Process(nil, 640, 480)

	if res.Face || res.Solved {
		t.Error("no face should report Face and Solved false")
	}
	if res.Raw != (pose.Pose{}) || res.Smoothed != (pose.Pose{}) {
		t.Errorf("pose: got raw %+v smoothed %+v", res.Raw, res.Smoothed)
	}
	if res.Expression != expression.Neutral() {
		t.Errorf("expression: got %+v", res.Expression)
	}
	if len(res.Scene.Find(avatar.PartEyeLeft)) != 5 {
		t.Error("neutral avatar should have open eyes")
	}
}

func TestProcess_SmoothsAcrossFrames(t *testing.T) {
	p := NewProcessor(avatar.DefaultConfig())
	face := syntheticFace(20, 640, 480)

	first := p.Process(face, 640, 480)
	if !first.Face || !first.Solved {
		t.Fatal("expected a solved face")
	}
	if math.Abs(first.Raw.Yaw-20) > 0.01 {
		t.Fatalf("raw yaw: got %v", first.Raw.Yaw)
	}
	if first.Smoothed != first.Raw {
		t.Errorf("first frame should not be damped: %+v vs %+v", first.Smoothed, first.Raw)
	}

	// A dropout pulls the average toward zero
	second := p.Process(nil, 640, 480)
	if math.Abs(second.Smoothed.Yaw-10) > 0.01 {
		t.Errorf("smoothed yaw after dropout: got %v, want 10", second.Smoothed.Yaw)
	}
}

func TestProcess_ModeToggleDoesNotAffectOutput(t *testing.T) {
	frames := []*landmark.Set{
		syntheticFace(10, 640, 480),
		nil,
		syntheticFace(-15, 640, 480),
		syntheticFace(5, 640, 480),
	}

	plain := NewProcessor(avatar.DefaultConfig())
	toggled := NewProcessor(avatar.DefaultConfig())
	ctrl := NewController(ModeReal)

	for i, f := range frames {
		want := plain.Process(f, 640, 480)
		ctrl.Apply(CommandToggleMode)
		got := toggled.Process(f, 640, 480)

		if !reflect.DeepEqual(got, want) {
			t.Fatalf("frame %d: result changed with mode %v", i, ctrl.Mode())
		}
	}
	if ctrl.Mode() != ModeReal {
		t.Errorf("four toggles should return to REAL, got %v", ctrl.Mode())
	}
}

func TestProcess_ResetClearsHistory(t *testing.T) {
	p := NewProcessor(avatar.DefaultConfig())
	p.Process(nil, 640, 480)
	p.Process(nil, 640, 480)

	p.Reset()
	res := p.Process(syntheticFace(20, 640, 480), 640, 480)
	if math.Abs(res.Smoothed.Yaw-20) > 0.01 {
		t.Errorf("smoothed yaw after reset: got %v, want 20", res.Smoothed.Yaw)
	}
}
