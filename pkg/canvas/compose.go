package canvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-vtuber/pkg/landmark"
	"github.com/teslashibe/go-vtuber/pkg/pose"
	"gocv.io/x/gocv"
)

// Picture-in-picture size, anchored at the canvas top-left.
const (
	PreviewWidth  = 300
	PreviewHeight = 225
)

// HUD text.
const (
	hudReal    = "Mode: REAL (Press 'e')"
	hudPrivacy = "Mode: PRIVACY (Mesh Only) (Press 'e')"
)

var (
	hudRealColor    = color.RGBA{G: 255, A: 255}
	hudPrivacyColor = color.RGBA{R: 255, A: 255}
	hudPoseColor    = color.RGBA{R: 50, G: 50, B: 50, A: 255}

	meshDotColor  = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	meshLineColor = color.RGBA{R: 224, G: 224, B: 224, A: 255}
	meshLeftEye   = color.RGBA{R: 255, G: 48, B: 48, A: 255}
	meshRightEye  = color.RGBA{R: 48, G: 255, B: 48, A: 255}
)

// Blank returns a black w×h BGR frame.
func Blank(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC3)
}

// Preview builds the picture-in-picture source at camera resolution: a copy of
// the camera frame, or a black frame when the camera is hidden. The mesh is drawn
// on top when set is non-nil. The caller owns the returned Mat.
func Preview(frame gocv.Mat, set *landmark.Set, showCamera bool) gocv.Mat {
	var out gocv.Mat
	if showCamera {
		out = frame.Clone()
	} else {
		out = Blank(frame.Cols(), frame.Rows())
	}
	if set != nil {
		DrawMesh(&out, set)
	}
	return out
}

// DrawMesh draws every landmark as a dot and the feature contours as polylines.
// Contours that reach past the set, such as the irises of a 468-point mesh, are skipped.
func DrawMesh(img *gocv.Mat, set *landmark.Set) {
	w, h := img.Cols(), img.Rows()

	for i := 0; i < set.Len(); i++ {
		gocv.Circle(img, pixel(set, i, w, h), 1, meshDotColor, -1)
	}

	for _, c := range landmark.Contours() {
		col := meshLineColor
		switch c.Name {
		case landmark.LeftEye.Name, landmark.LeftBrow.Name, landmark.LeftIris.Name:
			col = meshLeftEye
		case landmark.RightEye.Name, landmark.RightBrow.Name, landmark.RightIris.Name:
			col = meshRightEye
		}
		for _, seg := range c.Segments() {
			if seg[0] >= set.Len() || seg[1] >= set.Len() {
				continue
			}
			gocv.Line(img, pixel(set, seg[0], w, h), pixel(set, seg[1], w, h), col, 1)
		}
	}
}

// Inset down-scales src into the top-left PreviewWidth×PreviewHeight of dst.
func Inset(dst *gocv.Mat, src gocv.Mat) {
	if src.Empty() || dst.Cols() < PreviewWidth || dst.Rows() < PreviewHeight {
		return
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(src, &small, image.Point{X: PreviewWidth, Y: PreviewHeight}, 0, 0, gocv.InterpolationLinear)

	roi := dst.Region(image.Rect(0, 0, PreviewWidth, PreviewHeight))
	defer roi.Close()
	small.CopyTo(&roi)
}

// DrawHUD writes the mode banner and the pose readout.
func DrawHUD(img *gocv.Mat, showCamera bool, p pose.Pose) {
	text, col := hudReal, hudRealColor
	if !showCamera {
		text, col = hudPrivacy, hudPrivacyColor
	}
	gocv.PutText(img, text, image.Pt(400, 30), gocv.FontHersheySimplex, 0.6, col, 2)
	gocv.PutText(img, p.String(), image.Pt(400, 50), gocv.FontHersheySimplex, 0.7, hudPoseColor, 2)
}

// EncodeJPEG encodes img at the given quality (1-100).
func EncodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func pixel(set *landmark.Set, i, w, h int) image.Point {
	x, y := set.Pixel(i, w, h)
	return image.Pt(int(x), int(y))
}
