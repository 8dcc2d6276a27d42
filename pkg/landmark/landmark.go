// Package landmark defines the face-mesh landmark set consumed by the avatar pipeline
// and the sources that produce it.
package landmark

import (
	"errors"
	"fmt"
	"math"
)

// Landmark indices following the MediaPipe FaceMesh topology.
// "Left" and "Right" name the image side after the camera frame is mirrored.
const (
	NoseTip = 1
	Chin    = 152

	LeftEyeOuter = 33
	LeftEyeInner = 133
	LeftEyeUpper = 159
	LeftEyeLower = 145

	RightEyeOuter = 263
	RightEyeInner = 362
	RightEyeUpper = 386
	RightEyeLower = 374

	MouthLeft     = 61
	MouthRight    = 291
	LipInnerUpper = 13
	LipInnerLower = 14
)

// Cardinalities a detector may produce.
const (
	BaseCount = 468 // FaceMesh without iris refinement
	Count     = 478 // FaceMesh with iris refinement
)

// ErrMalformed is returned by sources that receive a set with the wrong point count.
var ErrMalformed = errors.New("malformed landmark set")

// Point is a landmark in normalized image coordinates (0-1).
// Z is relative depth as reported by the detector; the pipeline ignores it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Set is one frame's ordered landmarks. The same index always names the same
// anatomical point, so callers address points through the named constants.
type Set struct {
	Points []Point
}

// NewSet wraps points in a Set without copying.
func NewSet(points []Point) *Set {
	return &Set{Points: points}
}

// Len returns the number of points.
func (s *Set) Len() int {
	return len(s.Points)
}

// At returns the point at index i.
func (s *Set) At(i int) Point {
	return s.Points[i]
}

// Pixel converts point i to pixel coordinates for a w×h frame.
func (s *Set) Pixel(i int, w, h int) (x, y float64) {
	p := s.Points[i]
	return p.X * float64(w), p.Y * float64(h)
}

// Validate checks the cardinality contract. The pipeline itself never calls this;
// sources do, at the boundary where sets enter the process.
func (s *Set) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil set", ErrMalformed)
	}
	if n := len(s.Points); n != Count && n != BaseCount {
		return fmt.Errorf("%w: got %d points, want %d or %d", ErrMalformed, n, BaseCount, Count)
	}
	return nil
}

// Distance is the Euclidean distance between two points in the image plane.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
