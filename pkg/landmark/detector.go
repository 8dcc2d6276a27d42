package landmark

// Detector is the interface for landmark backends.
// Detect returns a nil set and a nil error when no face is visible;
// that is a normal per-frame state, not a failure.
type Detector interface {
	// Detect finds the face mesh in a JPEG-encoded camera frame
	Detect(jpeg []byte) (*Set, error)

	// Close releases resources
	Close() error
}

// Face is one face in a landmark service response.
type Face struct {
	Landmarks []Point `json:"landmarks"`
}

// Response is the JSON body returned by landmark services.
type Response struct {
	Faces []Face `json:"faces"`
}

// First returns the first face as a validated Set, or nil when no face was found.
// Only one face is tracked.
func (r *Response) First() (*Set, error) {
	if len(r.Faces) == 0 || len(r.Faces[0].Landmarks) == 0 {
		return nil, nil
	}
	set := NewSet(r.Faces[0].Landmarks)
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
