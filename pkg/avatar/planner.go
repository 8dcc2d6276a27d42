package avatar

import (
	"image"

	"github.com/teslashibe/go-vtuber/pkg/expression"
	"github.com/teslashibe/go-vtuber/pkg/pose"
)

// Face geometry in canvas pixels, relative to the feature center unless noted.
const (
	headDrop = 50 // Head center sits this far below the canvas center

	hairAxisX = 160
	hairAxisY = 170
	skinAxisX = 140
	skinAxisY = 160

	eyeSpacing          = 60
	eyeRise             = 10
	eyeAxisX            = 35
	eyeAxisY            = 45
	eyeOutlineThickness = 2
	closedEyeThickness  = 3
	lashLength          = 5
	lashThickness       = 2
	irisDrop            = 5
	highlightX          = -10
	highlightY          = -5
	highlightRadius     = 8
	browGap             = 15
	browAxisY           = 5
	browThickness       = 3

	blushX     = 70
	blushY     = 40
	blushAxisX = 20
	blushAxisY = 15
	noseDrop   = 20
	noseRadius = 3

	mouthDrop            = 60
	mouthAxisX           = 30
	mouthMaxHeight       = 50
	mouthHeightGain      = 5
	mouthOutlineThick    = 2
	closedMouthLift      = 5
	closedMouthAxisX     = 20
	closedMouthAxisY     = 10
	closedMouthThickness = 3

	fringeRise = 140
)

// Planner turns pose and expression into a Scene.
type Planner struct {
	cfg Config
}

// NewPlanner creates a planner for cfg.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Offset returns the feature offset for a pose: yaw moves features along x,
// pitch along y, both truncated then clamped.
func (p *Planner) Offset(hp pose.Pose) (x, y int) {
	x = clampInt(int(hp.Yaw*p.cfg.OffsetGain), -p.cfg.MaxOffsetX, p.cfg.MaxOffsetX)
	y = clampInt(int(hp.Pitch*p.cfg.OffsetGain), -p.cfg.MaxOffsetY, p.cfg.MaxOffsetY)
	return x, y
}

// Plan builds the scene for one frame.
func (p *Planner) Plan(hp pose.Pose, expr expression.State) Scene {
	pal := p.cfg.Palette
	base := image.Pt(p.cfg.Width/2, p.cfg.Height/2+headDrop)

	scene := Scene{
		Width:      p.cfg.Width,
		Height:     p.cfg.Height,
		Background: pal.Background,
		Rotation:   Rotation{Center: base, Degrees: hp.Roll},
	}

	offX, offY := p.Offset(hp)

	// Head stays put, features move
	scene.add(
		Ellipse{Part: PartHair, Center: base, Axes: image.Pt(hairAxisX, hairAxisY), End: 360, Color: pal.Hair, Thickness: Filled},
		Ellipse{Part: PartSkin, Center: base, Axes: image.Pt(skinAxisX, skinAxisY), End: 360, Color: pal.Skin, Thickness: Filled},
	)

	face := image.Pt(base.X-offX, base.Y+offY)

	scene.add(p.eye(PartEyeLeft, image.Pt(face.X-eyeSpacing, face.Y-eyeRise), expr.EarLeft)...)
	scene.add(p.eye(PartEyeRight, image.Pt(face.X+eyeSpacing, face.Y-eyeRise), expr.EarRight)...)

	blush := image.Pt(blushAxisX, blushAxisY)
	scene.add(
		Ellipse{Part: PartBlush, Center: image.Pt(face.X-blushX, face.Y+blushY), Axes: blush, End: 360, Color: pal.Blush, Thickness: Filled},
		Ellipse{Part: PartBlush, Center: image.Pt(face.X+blushX, face.Y+blushY), Axes: blush, End: 360, Color: pal.Blush, Thickness: Filled},
	)

	scene.add(p.mouth(image.Pt(face.X, face.Y+mouthDrop), expr.Mar)...)

	scene.add(Circle{Part: PartNose, Center: image.Pt(face.X, face.Y+noseDrop), Radius: noseRadius, Color: pal.Nose, Thickness: Filled})

	scene.add(p.fringe(base, offX, offY))

	return scene
}

func (p *Planner) eye(part Part, c image.Point, ear float64) []Shape {
	pal := p.cfg.Palette

	if ear < p.cfg.EyeClosedThreshold {
		return []Shape{
			Ellipse{Part: part, Center: c, Axes: image.Pt(eyeAxisX, eyeAxisY/4), Start: 180, End: 360, Color: pal.ClosedEye, Thickness: closedEyeThickness},
			Line{Part: part, From: image.Pt(c.X-eyeAxisX, c.Y), To: image.Pt(c.X-eyeAxisX-lashLength, c.Y+lashLength), Color: pal.ClosedEye, Thickness: lashThickness},
		}
	}

	axes := image.Pt(eyeAxisX, eyeAxisY)
	return []Shape{
		Ellipse{Part: part, Center: c, Axes: axes, End: 360, Color: pal.EyeWhite, Thickness: Filled},
		Ellipse{Part: part, Center: c, Axes: axes, End: 360, Color: pal.EyeOutline, Thickness: eyeOutlineThickness},
		Circle{Part: part, Center: image.Pt(c.X, c.Y+irisDrop), Radius: IrisRadius, Color: pal.Iris, Thickness: Filled},
		Circle{Part: part, Center: image.Pt(c.X+highlightX, c.Y+highlightY), Radius: highlightRadius, Color: pal.Highlight, Thickness: Filled},
		Ellipse{Part: part, Center: image.Pt(c.X, c.Y-eyeAxisY-browGap), Axes: image.Pt(eyeAxisX, browAxisY), Start: 180, End: 360, Color: pal.Hair, Thickness: browThickness},
	}
}

// IrisRadius is half the eye width.
const IrisRadius = eyeAxisX / 2

// MouthHeight returns the half-height of the open mouth for mar.
func MouthHeight(mar float64) int {
	h := int(mar * mouthHeightGain)
	if h > mouthMaxHeight {
		return mouthMaxHeight
	}
	return h
}

func (p *Planner) mouth(c image.Point, mar float64) []Shape {
	pal := p.cfg.Palette

	if mar > p.cfg.MouthOpenThreshold {
		axes := image.Pt(mouthAxisX, MouthHeight(mar))
		return []Shape{
			Ellipse{Part: PartMouth, Center: c, Axes: axes, End: 360, Color: pal.MouthOpen, Thickness: Filled},
			Ellipse{Part: PartMouth, Center: c, Axes: axes, End: 360, Color: pal.MouthOutline, Thickness: mouthOutlineThick},
		}
	}

	return []Shape{
		Ellipse{Part: PartMouth, Center: image.Pt(c.X, c.Y-closedMouthLift), Axes: image.Pt(closedMouthAxisX, closedMouthAxisY), End: 180, Color: pal.MouthClosed, Thickness: closedMouthThickness},
	}
}

// fringe follows the features only partially so the head reads as turning.
func (p *Planner) fringe(base image.Point, offX, offY int) Polygon {
	hx := base.X - int(float64(offX)*p.cfg.FringeFollow)
	hy := base.Y + int(float64(offY)*p.cfg.FringeFollow) - fringeRise

	return Polygon{
		Part: PartFringe,
		Points: []image.Point{
			{X: hx - 140, Y: hy + 80},
			{X: hx, Y: hy},
			{X: hx + 140, Y: hy + 80},
			{X: hx + 150, Y: hy - 60},
			{X: hx - 150, Y: hy - 60},
		},
		Color: p.cfg.Palette.Hair,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
