// Package canvas rasterises avatar scenes and composites the output frame with OpenCV.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/teslashibe/go-vtuber/pkg/avatar"
	"gocv.io/x/gocv"
)

// Paint rasterises scene onto a new BGR canvas filled with the scene background,
// then rotates the whole canvas. The caller owns the returned Mat.
func Paint(scene avatar.Scene) gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(scalar(scene.Background), scene.Height, scene.Width, gocv.MatTypeCV8UC3)

	for _, s := range scene.Shapes {
		draw(&img, s)
	}

	if scene.Rotation.Degrees == 0 {
		return img
	}

	rotated := rotate(img, scene.Rotation, scene.Background)
	img.Close()
	return rotated
}

func draw(img *gocv.Mat, s avatar.Shape) {
	switch sh := s.(type) {
	case avatar.Ellipse:
		gocv.EllipseWithParams(img, sh.Center, sh.Axes, 0, sh.Start, sh.End, sh.Color, sh.Thickness, gocv.LineAA, 0)
	case avatar.Circle:
		gocv.CircleWithParams(img, sh.Center, sh.Radius, sh.Color, sh.Thickness, gocv.LineAA, 0)
	case avatar.Line:
		strokeAA(img, sh.From, sh.To, sh.Color, sh.Thickness)
	case avatar.Polygon:
		pts := gocv.NewPointsVectorFromPoints([][]image.Point{sh.Points})
		defer pts.Close()
		gocv.FillPolyWithParams(img, pts, sh.Color, gocv.LineAA, 0, image.Point{})
	}
}

// strokeAA draws an anti-aliased segment with round caps as a filled quad.
func strokeAA(img *gocv.Mat, from, to image.Point, c color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	dx, dy := float64(to.X-from.X), float64(to.Y-from.Y)
	n := math.Hypot(dx, dy)
	half := float64(thickness) / 2
	if n == 0 {
		gocv.CircleWithParams(img, from, int(math.Round(half)), c, avatar.Filled, gocv.LineAA, 0)
		return
	}
	ox, oy := -dy/n*half, dx/n*half
	pt := func(p image.Point, sx, sy float64) image.Point {
		return image.Pt(int(math.Round(float64(p.X)+sx)), int(math.Round(float64(p.Y)+sy)))
	}
	quad := []image.Point{pt(from, ox, oy), pt(to, ox, oy), pt(to, -ox, -oy), pt(from, -ox, -oy)}

	pts := gocv.NewPointsVectorFromPoints([][]image.Point{quad})
	defer pts.Close()
	gocv.FillPolyWithParams(img, pts, c, gocv.LineAA, 0, image.Point{})

	r := int(math.Round(half))
	gocv.CircleWithParams(img, from, r, c, avatar.Filled, gocv.LineAA, 0)
	gocv.CircleWithParams(img, to, r, c, avatar.Filled, gocv.LineAA, 0)
}

// rotate turns img about r.Center; uncovered corners take the border colour.
func rotate(img gocv.Mat, r avatar.Rotation, border color.RGBA) gocv.Mat {
	m := gocv.GetRotationMatrix2D(r.Center, r.Degrees, 1.0)
	defer m.Close()

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(img, &dst, m, image.Point{X: img.Cols(), Y: img.Rows()},
		gocv.InterpolationLinear, gocv.BorderConstant, border)
	return dst
}

// scalar converts an RGBA colour to an OpenCV BGR scalar.
func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}
