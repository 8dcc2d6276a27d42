// VTuber - drives a 2D avatar from webcam head pose and facial expression
// Landmarks come from a face-mesh service or a replay file
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-vtuber/internal/config"
	"github.com/teslashibe/go-vtuber/internal/log"
	"github.com/teslashibe/go-vtuber/pkg/app"
	"github.com/teslashibe/go-vtuber/pkg/capture"
	"github.com/teslashibe/go-vtuber/pkg/metrics"
	"github.com/teslashibe/go-vtuber/pkg/pipeline"
	"github.com/teslashibe/go-vtuber/pkg/web"
)

func main() {
	cfg := parseFlags()

	level := config.LogLevel()
	if cfg.Debug {
		level = "debug"
	}
	log.Init(level)

	if err := cfg.Validate(); err != nil {
		fatal("❌ Configuration error: %v", err)
	}

	fmt.Println("🎭 Virtual Avatar VTuber")
	fmt.Printf("📷 Camera: %s (%dx%d)\n", cfg.Capture.Source, cfg.Capture.Width, cfg.Capture.Height)
	if cfg.ReplayPath != "" {
		fmt.Printf("📼 Landmarks: replay %s\n", cfg.ReplayPath)
	} else {
		fmt.Printf("🧠 Landmarks: %s\n", cfg.Landmarks.URL)
	}

	session, err := app.Open(cfg)
	if err != nil {
		fatal("❌ Initialization failed: %v", err)
	}
	defer session.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	initial := pipeline.ModeReal
	if cfg.StartPrivacy {
		initial = pipeline.ModePrivacy
	}
	m := metrics.New()
	loop := app.NewLoop(cfg, session, pipeline.NewController(initial), m)

	queue := pipeline.NewQueue(0)
	if loop.Commands != nil {
		loop.Commands = pipeline.Merge(loop.Commands, queue)
	} else {
		loop.Commands = queue
	}

	if cfg.WebPort != "" {
		server := web.NewServer(cfg.WebPort, session.ID, queue, m)
		server.StartAsync(ctx)
		defer server.Shutdown()
		loop.Publisher = server
		fmt.Printf("🌐 Dashboard: http://localhost:%s\n", cfg.WebPort)
	}

	fmt.Printf("⌨️  Press '%c' to toggle privacy mode, '%c' to quit\n", pipeline.KeyToggle, pipeline.KeyQuit)

	if err := loop.Run(ctx); err != nil {
		log.Error("frame loop failed", "error", err, "frames", loop.Frames())
		session.Close()
		os.Exit(1)
	}
	fmt.Printf("👋 Stopped after %d frames\n", loop.Frames())
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// parseFlags parses command line flags and returns configuration.
// Environment variables are applied first so flags override them.
func parseFlags() app.Config {
	cfg := app.DefaultConfig()
	cfg.LoadEnvConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	camera := flag.String("camera", cfg.Capture.Source, "Camera device index, video file, or \"blank\" (overrides VTUBER_CAMERA)")
	preset := flag.String("preset", "", fmt.Sprintf("Capture preset: %v", capture.PresetNames()))
	landmarks := flag.String("landmarks", cfg.Landmarks.URL, "Landmark service URL, http(s) or ws(s) (overrides VTUBER_LANDMARKS_URL)")
	replay := flag.String("replay", "", "Replay landmarks from a recording instead of calling the service")
	loopReplay := flag.Bool("loop", false, "Restart the replay when it ends")
	record := flag.String("record", "", "Record every detection to this file")
	noWindow := flag.Bool("no-window", false, "Run without the OpenCV window")
	webPort := flag.String("web-port", cfg.WebPort, "Dashboard port, empty to disable (overrides VTUBER_WEB_PORT)")
	privacy := flag.Bool("privacy", cfg.StartPrivacy, "Start in mesh-only privacy mode")
	noMirror := flag.Bool("no-mirror", false, "Do not mirror camera frames")
	maxFrames := flag.Int("frames", 0, "Stop after this many frames (0 = until quit)")
	flag.Parse()

	if *preset != "" {
		p := capture.GetPreset(*preset)
		if p == nil {
			fatal("❌ Unknown capture preset %q, available: %v", *preset, capture.PresetNames())
		}
		if p.Source == capture.SourceBlank {
			*camera = capture.SourceBlank
		}
		cfg.Capture = *p
	}

	cfg.Debug = *debug
	cfg.Capture.Source = *camera
	cfg.Capture.Mirror = !*noMirror
	cfg.Landmarks.URL = *landmarks
	cfg.ReplayPath, cfg.LoopReplay, cfg.RecordPath = *replay, *loopReplay, *record
	cfg.Window = !*noWindow
	cfg.WebPort = *webPort
	cfg.StartPrivacy = *privacy
	cfg.MaxFrames = *maxFrames
	return cfg
}
