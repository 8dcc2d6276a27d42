package avatar

import (
	"image"
	"image/color"
)

// Part names the avatar feature a primitive belongs to.
type Part string

const (
	PartHair     Part = "hair"
	PartSkin     Part = "skin"
	PartEyeLeft  Part = "eye_left"
	PartEyeRight Part = "eye_right"
	PartBlush    Part = "blush"
	PartMouth    Part = "mouth"
	PartNose     Part = "nose"
	PartFringe   Part = "fringe"
)

// Filled as a thickness fills the shape.
const Filled = -1

// Shape is one drawing primitive of a Scene.
type Shape interface {
	part() Part
}

// Ellipse is an elliptic arc from Start to End degrees. Start 0, End 360 is the
// full ellipse.
type Ellipse struct {
	Part      Part
	Center    image.Point
	Axes      image.Point // Half-width, half-height
	Start     float64
	End       float64
	Color     color.RGBA
	Thickness int
}

// Circle is a circle of Radius pixels.
type Circle struct {
	Part      Part
	Center    image.Point
	Radius    int
	Color     color.RGBA
	Thickness int
}

// Line is a straight segment.
type Line struct {
	Part      Part
	From, To  image.Point
	Color     color.RGBA
	Thickness int
}

// Polygon is a filled polygon.
type Polygon struct {
	Part   Part
	Points []image.Point
	Color  color.RGBA
}

func (e Ellipse) part() Part { return e.Part }
func (c Circle) part() Part  { return c.Part }
func (l Line) part() Part    { return l.Part }
func (p Polygon) part() Part { return p.Part }

// PartOf returns the feature s belongs to.
func PartOf(s Shape) Part {
	return s.part()
}

// Full reports whether e covers the whole ellipse.
func (e Ellipse) Full() bool {
	return e.Start == 0 && e.End == 360
}

// Rotation turns the finished canvas about Center. Positive is counter-clockwise.
type Rotation struct {
	Center  image.Point
	Degrees float64
}

// Scene is the avatar for one frame: shapes are painted in order onto a canvas
// filled with Background, then the whole canvas is rotated.
type Scene struct {
	Width      int
	Height     int
	Background color.RGBA
	Shapes     []Shape
	Rotation   Rotation
}

// Find returns the shapes belonging to part, in paint order.
func (s *Scene) Find(part Part) []Shape {
	var out []Shape
	for _, sh := range s.Shapes {
		if sh.part() == part {
			out = append(out, sh)
		}
	}
	return out
}

func (s *Scene) add(shapes ...Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}
