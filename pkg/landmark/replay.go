package landmark

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// record is one line of a JSON-lines landmark recording.
// A null landmarks field marks a frame without a face.
type record struct {
	Landmarks []Point `json:"landmarks"`
}

// ReplayDetector plays back a recording frame by frame, ignoring the camera image.
type ReplayDetector struct {
	frames []*Set
	next   int
	Loop   bool // Restart from the first frame at the end

	// OnRewind, if set, is called each time a looping replay restarts.
	OnRewind func()
}

// NewReplay reads a whole JSON-lines recording into memory.
func NewReplay(r io.Reader) (*ReplayDetector, error) {
	var frames []*Set

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Landmarks == nil {
			frames = append(frames, nil)
			continue
		}
		set := NewSet(rec.Landmarks)
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		frames = append(frames, set)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}

	return &ReplayDetector{frames: frames}, nil
}

// OpenReplay loads a recording from a file.
func OpenReplay(path string) (*ReplayDetector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewReplay(f)
}

// Len returns the number of recorded frames.
func (d *ReplayDetector) Len() int {
	return len(d.frames)
}

// Detect returns the next recorded frame. After the last frame it returns io.EOF
// unless Loop is set.
func (d *ReplayDetector) Detect(_ []byte) (*Set, error) {
	if d.next >= len(d.frames) {
		if !d.Loop || len(d.frames) == 0 {
			return nil, io.EOF
		}
		d.next = 0
		if d.OnRewind != nil {
			d.OnRewind()
		}
	}
	set := d.frames[d.next]
	d.next++
	return set, nil
}

// Close is a no-op.
func (d *ReplayDetector) Close() error {
	return nil
}

// Recorder tees every detection result to a JSON-lines writer in the replay format.
type Recorder struct {
	inner Detector
	out   *bufio.Writer
	enc   *json.Encoder
	mu    sync.Mutex
}

// NewRecorder wraps inner and records its results to w.
func NewRecorder(inner Detector, w io.Writer) *Recorder {
	out := bufio.NewWriter(w)
	return &Recorder{
		inner: inner,
		out:   out,
		enc:   json.NewEncoder(out),
	}
}

// Detect runs the wrapped detector and records the outcome. Failed detections
// are not recorded.
func (r *Recorder) Detect(jpeg []byte) (*Set, error) {
	set, err := r.inner.Detect(jpeg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := record{}
	if set != nil {
		rec.Landmarks = set.Points
	}
	if err := r.enc.Encode(rec); err != nil {
		return set, fmt.Errorf("record frame: %w", err)
	}
	return set, nil
}

// Close flushes the recording and closes the wrapped detector.
func (r *Recorder) Close() error {
	r.mu.Lock()
	flushErr := r.out.Flush()
	r.mu.Unlock()

	if err := r.inner.Close(); err != nil {
		return err
	}
	return flushErr
}
