package pose

import "math"

// Mat3 is a row-major 3×3 matrix.
type Mat3 [3][3]float64

// Identity returns the 3×3 identity.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// Apply returns m·v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Rodrigues converts a rotation vector (axis × angle in radians) to a matrix.
func Rodrigues(r Vec3) Mat3 {
	theta := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	if theta < 1e-12 {
		return Identity()
	}
	kx, ky, kz := r[0]/theta, r[1]/theta, r[2]/theta
	c, s := math.Cos(theta), math.Sin(theta)
	v := 1 - c

	return Mat3{
		{c + kx*kx*v, kx*ky*v - kz*s, kx*kz*v + ky*s},
		{ky*kx*v + kz*s, c + ky*ky*v, ky*kz*v - kx*s},
		{kz*kx*v - ky*s, kz*ky*v + kx*s, c + kz*kz*v},
	}
}

// RotationVector is the inverse of Rodrigues for a proper rotation matrix.
// The angle comes from atan2 of the skew and trace parts so it stays accurate
// near 0 and near π.
func RotationVector(m Mat3) Vec3 {
	w := Vec3{m[2][1] - m[1][2], m[0][2] - m[2][0], m[1][0] - m[0][1]}
	sin := math.Sqrt(w[0]*w[0]+w[1]*w[1]+w[2]*w[2]) / 2
	cos := (m[0][0] + m[1][1] + m[2][2] - 1) / 2
	theta := math.Atan2(sin, cos)

	if theta < 1e-12 {
		return Vec3{}
	}

	if math.Pi-theta < 1e-6 {
		// sin(theta) ~ 0: recover the axis from the symmetric part
		v := 1 - cos
		kx := math.Sqrt(math.Max(0, (m[0][0]-cos)/v))
		ky := math.Sqrt(math.Max(0, (m[1][1]-cos)/v))
		kz := math.Sqrt(math.Max(0, (m[2][2]-cos)/v))
		switch {
		case kx >= ky && kx >= kz:
			ky = math.Copysign(ky, m[0][1]+m[1][0])
			kz = math.Copysign(kz, m[0][2]+m[2][0])
		case ky >= kz:
			kx = math.Copysign(kx, m[0][1]+m[1][0])
			kz = math.Copysign(kz, m[1][2]+m[2][1])
		default:
			kx = math.Copysign(kx, m[0][2]+m[2][0])
			ky = math.Copysign(ky, m[1][2]+m[2][1])
		}
		n := math.Sqrt(kx*kx + ky*ky + kz*kz)
		// The skew part still carries the sign of the axis below π
		if kx*w[0]+ky*w[1]+kz*w[2] < 0 {
			n = -n
		}
		return Vec3{theta * kx / n, theta * ky / n, theta * kz / n}
	}

	f := theta / (2 * sin)
	return Vec3{
		f * (m[2][1] - m[1][2]),
		f * (m[0][2] - m[2][0]),
		f * (m[1][0] - m[0][1]),
	}
}

// EulerMatrix builds Rz(roll)·Ry(yaw)·Rx(pitch) from angles in degrees.
// DecomposeRQ inverts it for |yaw| < 90.
func EulerMatrix(pitch, yaw, roll float64) Mat3 {
	x, y, z := radians(pitch), radians(yaw), radians(roll)
	rx := Mat3{{1, 0, 0}, {0, math.Cos(x), -math.Sin(x)}, {0, math.Sin(x), math.Cos(x)}}
	ry := Mat3{{math.Cos(y), 0, math.Sin(y)}, {0, 1, 0}, {-math.Sin(y), 0, math.Cos(y)}}
	rz := Mat3{{math.Cos(z), -math.Sin(z), 0}, {math.Sin(z), math.Cos(z), 0}, {0, 0, 1}}
	return rz.Mul(ry).Mul(rx)
}

// DecomposeRQ factors m into an upper-triangular matrix and three Givens rotations
// Qx, Qy, Qz (m·Qx·Qy·Qz is upper triangular) and returns the rotation angles in
// degrees. For a rotation matrix the triangular factor is the identity, so the
// result satisfies m = EulerMatrix(pitch, yaw, roll).
func DecomposeRQ(m Mat3) (pitch, yaw, roll float64) {
	const eps = 2.220446049250313e-16

	// Qx zeroes m[2][1]
	s, c := m[2][1], m[2][2]
	z := 1 / math.Sqrt(c*c+s*s+eps)
	c, s = c*z, s*z
	qx := Mat3{{1, 0, 0}, {0, c, s}, {0, -s, c}}
	r := m.Mul(qx)

	// Qy zeroes r[2][0]
	s, c = -r[2][0], r[2][2]
	z = 1 / math.Sqrt(c*c+s*s+eps)
	c, s = c*z, s*z
	qy := Mat3{{c, 0, -s}, {0, 1, 0}, {s, 0, c}}
	r = r.Mul(qy)

	// Qz zeroes r[1][0]
	s, c = r[1][0], r[1][1]
	z = 1 / math.Sqrt(c*c+s*s+eps)
	c, s = c*z, s*z
	qz := Mat3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}}

	pitch = signedAcos(qx[1][1], qx[1][2])
	yaw = signedAcos(qy[0][0], qy[2][0])
	roll = signedAcos(qz[0][0], qz[0][1])
	return pitch, yaw, roll
}

// signedAcos returns acos(c) in degrees, negated when s is negative.
func signedAcos(c, s float64) float64 {
	a := degrees(math.Acos(clamp(c, -1, 1)))
	if s < 0 {
		return -a
	}
	return a
}

func degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
