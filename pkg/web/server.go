// Package web provides the avatar dashboard: live frames, loop status and a small command API.
package web

import (
	"context"
	_ "embed"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-vtuber/internal/log"
	"github.com/teslashibe/go-vtuber/pkg/expression"
	"github.com/teslashibe/go-vtuber/pkg/hub"
	"github.com/teslashibe/go-vtuber/pkg/metrics"
	"github.com/teslashibe/go-vtuber/pkg/pipeline"
	"github.com/teslashibe/go-vtuber/pkg/pose"
)

//go:embed index.html
var indexHTML []byte

// Status is the dashboard view of the frame loop
type Status struct {
	SessionID  string           `json:"session_id"`
	Mode       pipeline.Mode    `json:"mode"`
	Frame      uint64           `json:"frame"`
	Face       bool             `json:"face"`
	Pose       pose.Pose        `json:"pose"` // Smoothed
	Expression expression.State `json:"expression"`
	Metrics    metrics.Snapshot `json:"metrics"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	commands *pipeline.Queue
	metrics  *metrics.Metrics

	status   Status
	statusMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	avatarHub *hub.Hub
}

// NewServer creates the dashboard. Commands posted to the API are queued on
// commands for the frame loop to pick up.
func NewServer(port, sessionID string, commands *pipeline.Queue, m *metrics.Metrics) *Server {
	s := &Server{
		port:      port,
		commands:  commands,
		metrics:   m,
		status:    Status{SessionID: sessionID},
		statusHub: hub.New("status"),
		avatarHub: hub.New("avatar"),
	}

	clients := func(int) {
		m.ActiveClients.Store(int64(s.statusHub.ClientCount() + s.avatarHub.ClientCount()))
	}
	s.statusHub.OnCount = clients
	s.avatarHub.OnCount = clients

	app := fiber.New(fiber.Config{
		AppName:               "VTuber Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/", s.handleIndex)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/mode/toggle", s.handleCommand(pipeline.CommandToggleMode))
	api.Post("/quit", s.handleCommand(pipeline.CommandQuit))

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/avatar", websocket.New(s.serveHub(s.avatarHub)))
	app.Get("/ws/status", websocket.New(s.serveHub(s.statusHub)))

	s.app = app
	return s
}

// Start runs the hubs until ctx is done and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	go s.statusHub.Run(ctx)
	go s.avatarHub.Run(ctx)

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			log.Warn("web server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// UpdateStatus applies update to the status and broadcasts it to status clients
func (s *Server) UpdateStatus(update func(*Status)) {
	s.statusMu.Lock()
	update(&s.status)
	s.status.Metrics = s.metrics.Snapshot()
	status := s.status
	s.statusMu.Unlock()

	if s.statusHub.ClientCount() > 0 {
		if err := s.statusHub.BroadcastJSON(status); err != nil {
			log.Debug("status broadcast failed", "error", err)
		}
	}
}

// SendFrame sends an encoded avatar frame to all avatar clients
func (s *Server) SendFrame(jpeg []byte) {
	s.avatarHub.BroadcastBinary(jpeg)
}

// WantsFrames reports whether any client is watching the avatar stream, so the
// caller can skip encoding otherwise.
func (s *Server) WantsFrames() bool {
	return s.avatarHub.ClientCount() > 0
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
