package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q missing", name)
		}
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("preset %q invalid: %v", name, errs)
		}
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Source: "", Width: 10, Height: 5000, Framerate: 0, Quality: 101}
	if errs := cfg.Validate(); len(errs) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(errs), errs)
	}
}

func TestConfig_Device(t *testing.T) {
	tests := []struct {
		source string
		id     int
		ok     bool
	}{
		{"0", 0, true},
		{"2", 2, true},
		{"-1", 0, false},
		{"clip.mp4", 0, false},
		{SourceBlank, 0, false},
	}
	for _, tc := range tests {
		cfg := Config{Source: tc.source}
		id, ok := cfg.Device()
		if id != tc.id || ok != tc.ok {
			t.Errorf("Device(%q): got (%d, %v), want (%d, %v)", tc.source, id, ok, tc.id, tc.ok)
		}
	}
}

func TestOpen_Blank(t *testing.T) {
	cam, err := Open(BlankConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cam.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	for i := 0; i < 3; i++ {
		if err := cam.Read(&frame); err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
	}
	if frame.Cols() != 640 || frame.Rows() != 480 || frame.Channels() != 3 {
		t.Errorf("frame: got %dx%d c%d", frame.Cols(), frame.Rows(), frame.Channels())
	}
}

func TestOpen_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quality = 0
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestOpen_Device(t *testing.T) {
	cam, err := Open(DefaultConfig())
	if err != nil {
		t.Skipf("no camera available: %v", err)
	}
	defer cam.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if err := cam.Read(&frame); err != nil {
		t.Skipf("camera opened but produced no frame: %v", err)
	}
	if frame.Empty() {
		t.Error("expected a frame")
	}
}
