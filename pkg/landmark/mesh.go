package landmark

// Contour is a run of landmark indices drawn as one polyline.
type Contour struct {
	Name    string
	Indices []int
	Closed  bool
}

// Contours used for the preview mesh overlay.
var (
	FaceOval = Contour{Name: "face_oval", Closed: true, Indices: []int{
		10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288, 397, 365, 379, 378, 400, 377,
		152, 148, 176, 149, 150, 136, 172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109,
	}}

	LeftEye = Contour{Name: "left_eye", Closed: true, Indices: []int{
		33, 7, 163, 144, 145, 153, 154, 155, 133, 173, 157, 158, 159, 160, 161, 246,
	}}

	RightEye = Contour{Name: "right_eye", Closed: true, Indices: []int{
		263, 249, 390, 373, 374, 380, 381, 382, 362, 398, 384, 385, 386, 387, 388, 466,
	}}

	// Iris loops exist only in refined sets of Count points.
	LeftIris  = Contour{Name: "left_iris", Closed: true, Indices: []int{469, 470, 471, 472}}
	RightIris = Contour{Name: "right_iris", Closed: true, Indices: []int{474, 475, 476, 477}}

	LeftBrow  = Contour{Name: "left_brow", Indices: []int{70, 63, 105, 66, 107}}
	RightBrow = Contour{Name: "right_brow", Indices: []int{336, 296, 334, 293, 300}}

	LipsOuter = Contour{Name: "lips_outer", Closed: true, Indices: []int{
		61, 146, 91, 181, 84, 17, 314, 405, 321, 375, 291, 409, 270, 269, 267, 0, 37, 39, 40, 185,
	}}

	LipsInner = Contour{Name: "lips_inner", Closed: true, Indices: []int{
		78, 95, 88, 178, 87, 14, 317, 402, 318, 324, 308, 415, 310, 311, 312, 13, 82, 81, 80, 191,
	}}
)

// Contours returns all overlay contours in drawing order.
func Contours() []Contour {
	return []Contour{FaceOval, LeftBrow, RightBrow, LeftEye, RightEye, LeftIris, RightIris, LipsOuter, LipsInner}
}

// Segments returns the index pairs that make up the contour's polyline.
func (c Contour) Segments() [][2]int {
	n := len(c.Indices)
	if n < 2 {
		return nil
	}
	segs := make([][2]int, 0, n)
	for i := 0; i+1 < n; i++ {
		segs = append(segs, [2]int{c.Indices[i], c.Indices[i+1]})
	}
	if c.Closed {
		segs = append(segs, [2]int{c.Indices[n-1], c.Indices[0]})
	}
	return segs
}
