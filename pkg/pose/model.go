package pose

import "github.com/teslashibe/go-vtuber/pkg/landmark"

// Vec3 is a point in face-model space.
type Vec3 [3]float64

// Anchor pairs a landmark index with its position in the canonical model.
type Anchor struct {
	Name     string
	Index    int
	Position Vec3
}

// CanonicalFaceModel is the generic 3D face used as the PnP reference.
// Units are arbitrary; only the shape matters.
var CanonicalFaceModel = [6]Anchor{
	{Name: "nose_tip", Index: landmark.NoseTip, Position: Vec3{0, 0, 0}},
	{Name: "chin", Index: landmark.Chin, Position: Vec3{0, -330, -65}},
	{Name: "left_eye_outer", Index: landmark.LeftEyeOuter, Position: Vec3{-225, 170, -135}},
	{Name: "right_eye_outer", Index: landmark.RightEyeOuter, Position: Vec3{225, 170, -135}},
	{Name: "mouth_left", Index: landmark.MouthLeft, Position: Vec3{-150, -150, -125}},
	{Name: "mouth_right", Index: landmark.MouthRight, Position: Vec3{150, -150, -125}},
}

// modelPoints returns the anchor positions in model order.
func modelPoints() []Vec3 {
	pts := make([]Vec3, len(CanonicalFaceModel))
	for i, a := range CanonicalFaceModel {
		pts[i] = a.Position
	}
	return pts
}
