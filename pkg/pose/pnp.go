package pose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Solver limits.
const (
	lmMaxIterations = 50
	lmInitialLambda = 1e-3
	// rankTolerance is the smallest acceptable ratio between the second-smallest
	// and the largest singular value of the DLT system.
	rankTolerance = 1e-9
)

// Extrinsics is a solved object-to-camera transform.
type Extrinsics struct {
	Rotation    Vec3 // Rotation vector (Rodrigues)
	Translation Vec3
	Error       float64 // RMS reprojection error in pixels
}

// SolvePnP recovers the transform of the object points given their pixel
// projections. It initialises with a direct linear transform over the (non-coplanar)
// object points and refines with Levenberg-Marquardt on the reprojection error.
// ok is false when the correspondences are degenerate or the result is unusable.
func SolvePnP(object []Vec3, pixels [][2]float64, k Intrinsics) (Extrinsics, bool) {
	n := len(object)
	if n < 6 || len(pixels) != n || k.F == 0 {
		return Extrinsics{}, false
	}

	img := make([][2]float64, n)
	for i, p := range pixels {
		if !finite(p[0]) || !finite(p[1]) {
			return Extrinsics{}, false
		}
		img[i][0], img[i][1] = k.Normalize(p[0], p[1])
	}

	rot, t, ok := dlt(object, img)
	if !ok {
		return Extrinsics{}, false
	}

	params := refine(object, img, [6]float64{
		rot[0], rot[1], rot[2], t[0], t[1], t[2],
	})

	ext := Extrinsics{
		Rotation:    Vec3{params[0], params[1], params[2]},
		Translation: Vec3{params[3], params[4], params[5]},
	}
	for _, v := range params {
		if !finite(v) {
			return Extrinsics{}, false
		}
	}
	if ext.Translation[2] <= 0 {
		return Extrinsics{}, false
	}

	ext.Error = k.F * math.Sqrt(cost(object, img, params)/float64(n))
	return ext, true
}

// dlt estimates [R|t] from normalized image points.
func dlt(object []Vec3, img [][2]float64) (Vec3, Vec3, bool) {
	n := len(object)

	// Hartley normalisation of the object points
	var centroid Vec3
	for _, p := range object {
		centroid[0] += p[0] / float64(n)
		centroid[1] += p[1] / float64(n)
		centroid[2] += p[2] / float64(n)
	}
	meanDist := 0.0
	for _, p := range object {
		dx, dy, dz := p[0]-centroid[0], p[1]-centroid[1], p[2]-centroid[2]
		meanDist += math.Sqrt(dx*dx+dy*dy+dz*dz) / float64(n)
	}
	if meanDist == 0 {
		return Vec3{}, Vec3{}, false
	}
	scale := math.Sqrt(3) / meanDist

	a := mat.NewDense(2*n, 12, nil)
	for i, p := range object {
		X := (p[0] - centroid[0]) * scale
		Y := (p[1] - centroid[1]) * scale
		Z := (p[2] - centroid[2]) * scale
		x, y := img[i][0], img[i][1]
		a.SetRow(2*i, []float64{X, Y, Z, 1, 0, 0, 0, 0, -x * X, -x * Y, -x * Z, -x})
		a.SetRow(2*i+1, []float64{0, 0, 0, 0, X, Y, Z, 1, -y * X, -y * Y, -y * Z, -y})
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return Vec3{}, Vec3{}, false
	}
	values := svd.Values(nil)
	if values[0] == 0 || values[10]/values[0] < rankTolerance {
		return Vec3{}, Vec3{}, false
	}
	var v mat.Dense
	svd.VTo(&v)

	// Projection for normalized points, then undo the normalisation: P = P'·T
	pn := mat.NewDense(3, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			pn.Set(r, c, v.At(r*4+c, 11))
		}
	}
	norm := mat.NewDense(4, 4, []float64{
		scale, 0, 0, -scale * centroid[0],
		0, scale, 0, -scale * centroid[1],
		0, 0, scale, -scale * centroid[2],
		0, 0, 0, 1,
	})
	var p mat.Dense
	p.Mul(pn, norm)

	// Points must lie in front of the camera
	depth := p.At(2, 0)*centroid[0] + p.At(2, 1)*centroid[1] + p.At(2, 2)*centroid[2] + p.At(2, 3)
	if depth < 0 {
		p.Scale(-1, &p)
	}

	m := p.Slice(0, 3, 0, 3)
	var msvd mat.SVD
	if !msvd.Factorize(m, mat.SVDFull) {
		return Vec3{}, Vec3{}, false
	}
	var u, vm mat.Dense
	msvd.UTo(&u)
	msvd.VTo(&vm)
	sv := msvd.Values(nil)
	lambda := (sv[0] + sv[1] + sv[2]) / 3
	if lambda == 0 || !finite(lambda) {
		return Vec3{}, Vec3{}, false
	}

	var r mat.Dense
	r.Mul(&u, vm.T())
	if mat.Det(&r) < 0 {
		// Nearest proper rotation
		d := mat.NewDiagDense(3, []float64{1, 1, -1})
		var ud mat.Dense
		ud.Mul(&u, d)
		r.Mul(&ud, vm.T())
	}

	var rot Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[i][j] = r.At(i, j)
		}
	}
	t := Vec3{p.At(0, 3) / lambda, p.At(1, 3) / lambda, p.At(2, 3) / lambda}
	return RotationVector(rot), t, true
}

// refine runs Levenberg-Marquardt over (rvec, t).
func refine(object []Vec3, img [][2]float64, params [6]float64) [6]float64 {
	n := len(object)
	lambda := lmInitialLambda
	current := cost(object, img, params)

	jac := mat.NewDense(2*n, 6, nil)
	res := mat.NewVecDense(2*n, nil)

	for iter := 0; iter < lmMaxIterations; iter++ {
		residuals(object, img, params, res.RawVector().Data)
		jacobian(object, img, params, jac)

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var g mat.VecDense
		g.MulVec(jac.T(), res)
		g.ScaleVec(-1, &g)

		improved := false
		for attempt := 0; attempt < 10; attempt++ {
			damped := mat.DenseCopyOf(&jtj)
			for i := 0; i < 6; i++ {
				damped.Set(i, i, jtj.At(i, i)*(1+lambda)+1e-12)
			}

			var step mat.VecDense
			if err := step.SolveVec(damped, &g); err != nil {
				lambda *= 10
				continue
			}

			var candidate [6]float64
			for i := range candidate {
				candidate[i] = params[i] + step.AtVec(i)
			}
			next := cost(object, img, candidate)
			if next < current {
				params, current = candidate, next
				lambda = math.Max(lambda/10, 1e-12)
				improved = true
				if mat.Norm(&step, 2) < 1e-12*(1+norm6(params)) {
					return params
				}
				break
			}
			lambda *= 10
		}
		if !improved || current < 1e-24 {
			break
		}
	}
	return params
}

// residuals fills out with predicted-minus-observed normalized coordinates.
func residuals(object []Vec3, img [][2]float64, params [6]float64, out []float64) {
	r := Rodrigues(Vec3{params[0], params[1], params[2]})
	for i, p := range object {
		c := r.Apply(p)
		c[0] += params[3]
		c[1] += params[4]
		c[2] += params[5]
		if c[2] <= 1e-9 {
			// Behind the camera: push hard back to the front
			out[2*i], out[2*i+1] = 1e6, 1e6
			continue
		}
		out[2*i] = c[0]/c[2] - img[i][0]
		out[2*i+1] = c[1]/c[2] - img[i][1]
	}
}

// jacobian fills jac with central differences of the residuals.
func jacobian(object []Vec3, img [][2]float64, params [6]float64, jac *mat.Dense) {
	rows, _ := jac.Dims()
	plus := make([]float64, rows)
	minus := make([]float64, rows)

	for j := 0; j < 6; j++ {
		h := 1e-6 * math.Max(1, math.Abs(params[j]))
		p, m := params, params
		p[j] += h
		m[j] -= h
		residuals(object, img, p, plus)
		residuals(object, img, m, minus)
		for i := 0; i < rows; i++ {
			jac.Set(i, j, (plus[i]-minus[i])/(2*h))
		}
	}
}

func cost(object []Vec3, img [][2]float64, params [6]float64) float64 {
	out := make([]float64, 2*len(object))
	residuals(object, img, params, out)
	sum := 0.0
	for _, v := range out {
		sum += v * v
	}
	return sum
}

func norm6(v [6]float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
