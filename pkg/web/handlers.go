package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-vtuber/pkg/hub"
	"github.com/teslashibe/go-vtuber/pkg/pipeline"
)

// handleIndex serves the embedded dashboard page
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.Send(indexHTML)
}

// handleStatus returns the latest loop status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()

	status.Metrics = s.metrics.Snapshot()
	return c.JSON(status)
}

// handleCommand queues cmd for the frame loop
func (s *Server) handleCommand(cmd pipeline.Command) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.commands.Send(cmd) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "command queue full",
			})
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"queued": cmd.String(),
		})
	}
}

// serveHub attaches a websocket connection to h until it closes
func (s *Server) serveHub(h *hub.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		hub.NewClient(h, c).Run()
	}
}
