package pose

import "github.com/teslashibe/go-vtuber/pkg/landmark"

// Estimator maps the six anchor landmarks onto the canonical face model.
type Estimator struct {
	object []Vec3
}

// NewEstimator creates an estimator for CanonicalFaceModel.
func NewEstimator() *Estimator {
	return &Estimator{object: modelPoints()}
}

// Estimate returns the clamped head pose for one frame, or the zero pose when
// the solve fails. It never returns an error: a bad frame only costs that frame.
func (e *Estimator) Estimate(set *landmark.Set, w, h int) Pose {
	p, _ := e.Solve(set, w, h)
	return p
}

// Solve is Estimate with the solver outcome exposed for metrics.
func (e *Estimator) Solve(set *landmark.Set, w, h int) (Pose, bool) {
	pixels := make([][2]float64, len(CanonicalFaceModel))
	for i, a := range CanonicalFaceModel {
		pixels[i][0], pixels[i][1] = set.Pixel(a.Index, w, h)
	}

	ext, ok := SolvePnP(e.object, pixels, NewIntrinsics(w, h))
	if !ok {
		return Pose{}, false
	}

	pitch, yaw, roll := DecomposeRQ(Rodrigues(ext.Rotation))
	return Pose{Pitch: pitch, Yaw: yaw, Roll: roll}.Clamped(), true
}
