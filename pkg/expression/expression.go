// Package expression derives eye and mouth openness signals from face landmarks.
package expression

import "github.com/teslashibe/go-vtuber/pkg/landmark"

// Defaults used when no face is present.
const (
	NeutralEar = 0.3
	NeutralMar = 0.0
)

// earEpsilon keeps EyeAspectRatio finite when the eye corners coincide.
const earEpsilon = 1e-6

// marScale lifts the normalized lip gap into a range comparable with pixel thresholds.
const marScale = 100.0

// State is the per-frame expression signal. Values are not clamped.
type State struct {
	EarLeft  float64 `json:"ear_left"`
	EarRight float64 `json:"ear_right"`
	Mar      float64 `json:"mar"`
}

// Neutral returns open eyes and a closed mouth.
func Neutral() State {
	return State{EarLeft: NeutralEar, EarRight: NeutralEar, Mar: NeutralMar}
}

// EyeAspectRatio is the eyelid gap over the eye width.
func EyeAspectRatio(upper, lower, outer, inner landmark.Point) float64 {
	return landmark.Distance(upper, lower) / (landmark.Distance(outer, inner) + earEpsilon)
}

// MouthAspectRatio is the inner lip gap scaled by 100.
func MouthAspectRatio(upper, lower landmark.Point) float64 {
	return landmark.Distance(upper, lower) * marScale
}

// Extract computes both eye ratios and the mouth ratio for one face.
func Extract(set *landmark.Set) State {
	return State{
		EarLeft: EyeAspectRatio(
			set.At(landmark.LeftEyeUpper), set.At(landmark.LeftEyeLower),
			set.At(landmark.LeftEyeOuter), set.At(landmark.LeftEyeInner),
		),
		EarRight: EyeAspectRatio(
			set.At(landmark.RightEyeUpper), set.At(landmark.RightEyeLower),
			set.At(landmark.RightEyeInner), set.At(landmark.RightEyeOuter),
		),
		Mar: MouthAspectRatio(set.At(landmark.LipInnerUpper), set.At(landmark.LipInnerLower)),
	}
}
