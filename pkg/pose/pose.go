// Package pose recovers head orientation from face landmarks and smooths it over time.
package pose

import "fmt"

// MaxAngle bounds every axis of an estimated pose, in degrees.
const MaxAngle = 50.0

// Pose is a head orientation in degrees.
type Pose struct {
	Pitch float64 `json:"pitch"` // Rotation about the side-to-side axis
	Yaw   float64 `json:"yaw"`   // Rotation about the vertical axis
	Roll  float64 `json:"roll"`  // Rotation about the front-back axis
}

// Clamped returns p with each axis limited to ±MaxAngle.
func (p Pose) Clamped() Pose {
	return Pose{
		Pitch: clamp(p.Pitch, -MaxAngle, MaxAngle),
		Yaw:   clamp(p.Yaw, -MaxAngle, MaxAngle),
		Roll:  clamp(p.Roll, -MaxAngle, MaxAngle),
	}
}

// IsZero reports whether p is the neutral pose.
func (p Pose) IsZero() bool {
	return p == Pose{}
}

// String renders the pose the way the HUD shows it, truncated to whole degrees.
func (p Pose) String() string {
	return fmt.Sprintf("Pitch:%d Yaw:%d Roll:%d", int(p.Pitch), int(p.Yaw), int(p.Roll))
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
