package landmark

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func uniformPoints(n int, x, y float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: x, Y: y}
	}
	return pts
}

func TestSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		set     *Set
		wantErr bool
	}{
		{"refined mesh", NewSet(uniformPoints(Count, 0.5, 0.5)), false},
		{"base mesh", NewSet(uniformPoints(BaseCount, 0.5, 0.5)), false},
		{"too few", NewSet(uniformPoints(6, 0.5, 0.5)), true},
		{"empty", NewSet(nil), true},
		{"nil set", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("Validate: got %v, want ErrMalformed", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate: unexpected error %v", err)
			}
		})
	}
}

func TestSet_Pixel(t *testing.T) {
	pts := uniformPoints(Count, 0, 0)
	pts[NoseTip] = Point{X: 0.25, Y: 0.5}
	set := NewSet(pts)

	x, y := set.Pixel(NoseTip, 640, 480)
	if x != 160 || y != 240 {
		t.Errorf("Pixel: got (%v, %v), want (160, 240)", x, y)
	}
}

func TestDistance(t *testing.T) {
	d := Distance(Point{X: 0, Y: 0}, Point{X: 0.3, Y: 0.4})
	if math.Abs(d-0.5) > 1e-12 {
		t.Errorf("Distance: got %v, want 0.5", d)
	}
	if Distance(Point{X: 0.1, Y: 0.1, Z: 5}, Point{X: 0.1, Y: 0.1}) != 0 {
		t.Error("Distance should ignore Z")
	}
}

func TestContour_Segments(t *testing.T) {
	open := Contour{Indices: []int{1, 2, 3}}
	if got := len(open.Segments()); got != 2 {
		t.Errorf("open contour: got %d segments, want 2", got)
	}

	closed := Contour{Indices: []int{1, 2, 3}, Closed: true}
	segs := closed.Segments()
	if len(segs) != 3 {
		t.Fatalf("closed contour: got %d segments, want 3", len(segs))
	}
	if segs[2] != [2]int{3, 1} {
		t.Errorf("closing segment: got %v, want [3 1]", segs[2])
	}

	if (Contour{Indices: []int{7}}).Segments() != nil {
		t.Error("single point contour should have no segments")
	}
}

func TestContours_IndicesInRange(t *testing.T) {
	for _, c := range Contours() {
		limit := BaseCount
		if c.Name == LeftIris.Name || c.Name == RightIris.Name {
			limit = Count
		}
		for _, idx := range c.Indices {
			if idx < 0 || idx >= limit {
				t.Errorf("%s: index %d outside mesh of %d points", c.Name, idx, limit)
			}
		}
	}
}

func TestNamedIndices_InBaseMesh(t *testing.T) {
	for _, idx := range []int{
		NoseTip, Chin, LeftEyeOuter, LeftEyeInner, LeftEyeUpper, LeftEyeLower,
		RightEyeOuter, RightEyeInner, RightEyeUpper, RightEyeLower,
		MouthLeft, MouthRight, LipInnerUpper, LipInnerLower,
	} {
		if idx >= BaseCount {
			t.Errorf("index %d exceeds base mesh size", idx)
		}
	}
}

func TestResponse_First(t *testing.T) {
	empty := Response{}
	set, err := empty.First()
	if set != nil || err != nil {
		t.Errorf("no faces: got (%v, %v), want (nil, nil)", set, err)
	}

	bad := Response{Faces: []Face{{Landmarks: uniformPoints(10, 0, 0)}}}
	if _, err := bad.First(); !errors.Is(err, ErrMalformed) {
		t.Errorf("short face: got %v, want ErrMalformed", err)
	}

	good := Response{Faces: []Face{
		{Landmarks: uniformPoints(Count, 0.1, 0.1)},
		{Landmarks: uniformPoints(Count, 0.9, 0.9)},
	}}
	set, err = good.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if set.At(0).X != 0.1 {
		t.Errorf("First should pick the first face, got X=%v", set.At(0).X)
	}
}

func TestNewDetector_Scheme(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"http://127.0.0.1:8765/landmarks", "*landmark.HTTPDetector", false},
		{"https://example.com/landmarks", "*landmark.HTTPDetector", false},
		{"ws://127.0.0.1:8765/stream", "*landmark.StreamDetector", false},
		{"ftp://example.com", "", true},
		{"://bad", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			det, err := NewDetector(Config{URL: tc.url, Timeout: time.Second})
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDetector: %v", err)
			}
			defer det.Close()
			if got := fmt.Sprintf("%T", det); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
