package canvas

import (
	"github.com/teslashibe/go-vtuber/pkg/avatar"
	"github.com/teslashibe/go-vtuber/pkg/expression"
	"github.com/teslashibe/go-vtuber/pkg/pose"
	"gocv.io/x/gocv"
)

// Renderer draws the avatar for a smoothed pose and expression.
type Renderer struct {
	planner *avatar.Planner
}

// NewRenderer creates a renderer for cfg.
func NewRenderer(cfg avatar.Config) *Renderer {
	return &Renderer{planner: avatar.NewPlanner(cfg)}
}

// Render plans and paints a fresh avatar canvas and insets preview at the
// top-left. Pass an empty Mat for the avatar alone. The caller owns the result.
func (r *Renderer) Render(preview gocv.Mat, p pose.Pose, earLeft, earRight, mar float64) gocv.Mat {
	scene := r.planner.Plan(p, expression.State{EarLeft: earLeft, EarRight: earRight, Mar: mar})
	return r.Compose(scene, preview)
}

// Compose paints an already planned scene and insets preview.
func (r *Renderer) Compose(scene avatar.Scene, preview gocv.Mat) gocv.Mat {
	out := Paint(scene)
	Inset(&out, preview)
	return out
}
