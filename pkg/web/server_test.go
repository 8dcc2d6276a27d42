package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teslashibe/go-vtuber/pkg/metrics"
	"github.com/teslashibe/go-vtuber/pkg/pipeline"
	"github.com/teslashibe/go-vtuber/pkg/pose"
)

func newTestServer() (*Server, *pipeline.Queue, *metrics.Metrics) {
	q := pipeline.NewQueue(1)
	m := metrics.New()
	return NewServer("0", "session-1", q, m), q, m
}

func TestStatus(t *testing.T) {
	s, _, m := newTestServer()
	m.FramesRead.Add(7)
	s.UpdateStatus(func(st *Status) {
		st.Mode = pipeline.ModePrivacy
		st.Face = true
		st.Pose = pose.Pose{Yaw: 12}
		st.Frame = 7
	})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status code: got %d", resp.StatusCode)
	}

	var got map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["session_id"] != "session-1" || got["mode"] != "PRIVACY" || got["face"] != true {
		t.Errorf("status: got %v", got)
	}
	if frames := got["metrics"].(map[string]interface{})["frames_read"]; frames != float64(7) {
		t.Errorf("frames_read: got %v", frames)
	}
}

func TestCommands_AreQueued(t *testing.T) {
	s, q, _ := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("POST", "/api/mode/toggle", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 202 {
		t.Errorf("toggle: got %d, want 202", resp.StatusCode)
	}

	// Queue holds one command
	resp, err = s.App().Test(httptest.NewRequest("POST", "/api/quit", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("quit on full queue: got %d, want 503", resp.StatusCode)
	}

	if got := q.Poll(); got != pipeline.CommandToggleMode {
		t.Errorf("queued: got %v", got)
	}

	resp, _ = s.App().Test(httptest.NewRequest("POST", "/api/quit", nil))
	if resp.StatusCode != 202 || q.Poll() != pipeline.CommandQuit {
		t.Error("quit should be queued once there is room")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, m := newTestServer()
	m.DetectorErrors.Add(4)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "vtuber_detector_errors_total 4") {
		t.Errorf("metrics body missing detector errors:\n%s", body)
	}
}

func TestWebSocketRoutes_RequireUpgrade(t *testing.T) {
	s, _, _ := newTestServer()

	for _, path := range []string{"/ws/avatar", "/ws/status"} {
		resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != 426 {
			t.Errorf("%s: got %d, want 426", path, resp.StatusCode)
		}
	}
}

func TestIndex(t *testing.T) {
	s, _, _ := newTestServer()
	resp, err := s.App().Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}
	if s.WantsFrames() {
		t.Error("no avatar clients yet")
	}
}
