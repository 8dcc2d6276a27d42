package pipeline

import (
	"github.com/teslashibe/go-vtuber/pkg/avatar"
	"github.com/teslashibe/go-vtuber/pkg/expression"
	"github.com/teslashibe/go-vtuber/pkg/landmark"
	"github.com/teslashibe/go-vtuber/pkg/pose"
)

// Result is everything derived from one frame of landmarks.
type Result struct {
	Face       bool             `json:"face"`
	Solved     bool             `json:"solved"` // PnP converged; false also when Face is false
	Raw        pose.Pose        `json:"raw"`
	Smoothed   pose.Pose        `json:"smoothed"`
	Expression expression.State `json:"expression"`
	Scene      avatar.Scene     `json:"-"`
}

// Processor runs landmarks → pose + expression → smoothed pose → avatar scene.
// The smoother is its only cross-frame state. Not safe for concurrent use.
type Processor struct {
	estimator *pose.Estimator
	smoother  *pose.Smoother
	planner   *avatar.Planner
}

// NewProcessor creates a processor planning scenes with cfg.
func NewProcessor(cfg avatar.Config) *Processor {
	return &Processor{
		estimator: pose.NewEstimator(),
		smoother:  pose.NewSmoother(pose.HistorySize),
		planner:   avatar.NewPlanner(cfg),
	}
}

// Process handles one frame of size w×h. A nil set means no face was detected:
// the neutral pose and expression are used, and the neutral pose still enters
// the smoothing history.
func (p *Processor) Process(set *landmark.Set, w, h int) Result {
	res := Result{Expression: expression.Neutral()}

	if set != nil {
		res.Face = true
		res.Raw, res.Solved = p.estimator.Solve(set, w, h)
		res.Expression = expression.Extract(set)
	}

	res.Smoothed = p.smoother.Push(res.Raw)
	res.Scene = p.planner.Plan(res.Smoothed, res.Expression)
	return res
}

// Reset clears the smoothing history.
func (p *Processor) Reset() {
	p.smoother.Reset()
}
