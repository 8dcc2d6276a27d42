package landmark

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func testConfig(url string) Config {
	return Config{URL: url, Timeout: 2 * time.Second}
}

func TestHTTPDetector_Detect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("Content-Type: got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "jpeg" {
			t.Errorf("body: got %q", body)
		}
		json.NewEncoder(w).Encode(Response{Faces: []Face{{Landmarks: uniformPoints(Count, 0.4, 0.6)}}})
	}))
	defer srv.Close()

	d := NewHTTP(testConfig(srv.URL))
	defer d.Close()

	set, err := d.Detect([]byte("jpeg"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if set == nil || set.Len() != Count {
		t.Fatalf("Detect: got %v, want %d points", set, Count)
	}
	if set.At(NoseTip).Y != 0.6 {
		t.Errorf("NoseTip.Y: got %v, want 0.6", set.At(NoseTip).Y)
	}
}

func TestHTTPDetector_NoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"faces":[]}`))
	}))
	defer srv.Close()

	set, err := NewHTTP(testConfig(srv.URL)).Detect([]byte("jpeg"))
	if err != nil || set != nil {
		t.Errorf("no face: got (%v, %v), want (nil, nil)", set, err)
	}
}

func TestHTTPDetector_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewHTTP(testConfig(srv.URL))
	if _, err := d.Detect([]byte("jpeg")); err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status error, got %v", err)
	}
	if _, err := d.Detect(nil); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestStreamDetector_RoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; ; i++ {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage || len(data) == 0 {
				t.Errorf("frame %d: unexpected message type %d", i, mt)
			}
			// Alternate face / no face
			resp := Response{}
			if i%2 == 0 {
				resp.Faces = []Face{{Landmarks: uniformPoints(BaseCount, 0.5, 0.5)}}
			}
			conn.WriteJSON(resp)
		}
	}))
	defer srv.Close()

	d := NewStream(testConfig("ws" + strings.TrimPrefix(srv.URL, "http")))
	defer d.Close()

	set, err := d.Detect([]byte{0xff, 0xd8})
	if err != nil || set == nil {
		t.Fatalf("frame 0: got (%v, %v)", set, err)
	}
	set, err = d.Detect([]byte{0xff, 0xd8})
	if err != nil || set != nil {
		t.Fatalf("frame 1: got (%v, %v), want no face", set, err)
	}
}

func TestStreamDetector_DialFailure(t *testing.T) {
	d := NewStream(Config{URL: "ws://127.0.0.1:1/none", Timeout: 200 * time.Millisecond})
	if _, err := d.Detect([]byte{1}); err == nil {
		t.Error("expected dial error")
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close without connection: %v", err)
	}
}

func TestReplayDetector(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.Encode(record{Landmarks: uniformPoints(Count, 0.2, 0.2)})
	enc.Encode(record{})
	enc.Encode(record{Landmarks: uniformPoints(Count, 0.8, 0.8)})

	d, err := NewReplay(&buf)
	if err != nil {
		t.Fatalf("NewReplay: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", d.Len())
	}

	first, _ := d.Detect(nil)
	if first == nil || first.At(0).X != 0.2 {
		t.Errorf("frame 0: got %v", first)
	}
	second, err := d.Detect(nil)
	if second != nil || err != nil {
		t.Errorf("frame 1 should be no face, got (%v, %v)", second, err)
	}
	d.Detect(nil)
	if _, err := d.Detect(nil); !errors.Is(err, io.EOF) {
		t.Errorf("after end: got %v, want io.EOF", err)
	}

	rewinds := 0
	d.Loop = true
	d.OnRewind = func() { rewinds++ }
	again, err := d.Detect(nil)
	if err != nil || again == nil || again.At(0).X != 0.2 {
		t.Errorf("looped frame: got (%v, %v)", again, err)
	}
	d.Detect(nil)
	if rewinds != 1 {
		t.Errorf("rewinds: got %d, want 1", rewinds)
	}
}

func TestReplayDetector_Malformed(t *testing.T) {
	if _, err := NewReplay(strings.NewReader(`{"landmarks":[{"x":0,"y":0}]}` + "\n")); !errors.Is(err, ErrMalformed) {
		t.Errorf("short frame: got %v, want ErrMalformed", err)
	}
	if _, err := NewReplay(strings.NewReader("not json\n")); err == nil {
		t.Error("expected JSON error")
	}
}

type stubDetector struct {
	results []*Set
	closed  bool
}

func (s *stubDetector) Detect([]byte) (*Set, error) {
	if len(s.results) == 0 {
		return nil, io.EOF
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r, nil
}

func (s *stubDetector) Close() error {
	s.closed = true
	return nil
}

func TestRecorder_ProducesReplay(t *testing.T) {
	inner := &stubDetector{results: []*Set{NewSet(uniformPoints(Count, 0.3, 0.7)), nil}}
	var out bytes.Buffer
	rec := NewRecorder(inner, &out)

	rec.Detect(nil)
	rec.Detect(nil)
	if _, err := rec.Detect(nil); err == nil {
		t.Error("inner error should propagate")
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !inner.closed {
		t.Error("Close should close the wrapped detector")
	}

	replay, err := NewReplay(&out)
	if err != nil {
		t.Fatalf("NewReplay: %v", err)
	}
	if replay.Len() != 2 {
		t.Fatalf("recorded %d frames, want 2", replay.Len())
	}
	set, _ := replay.Detect(nil)
	if set == nil || set.At(5).Y != 0.7 {
		t.Errorf("recorded frame 0: got %v", set)
	}
	if set, _ := replay.Detect(nil); set != nil {
		t.Error("recorded frame 1 should be no face")
	}
}
