package landmark

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StreamDetector keeps one websocket open to the landmark service.
// Every Detect call writes one binary frame and waits for one JSON reply.
type StreamDetector struct {
	config Config
	dialer *websocket.Dialer
	conn   *websocket.Conn
	mu     sync.Mutex
}

// NewStream creates a websocket detector. The connection is dialed lazily
// and re-dialed on the next frame after any I/O failure.
func NewStream(cfg Config) *StreamDetector {
	return &StreamDetector{
		config: cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.Timeout},
	}
}

// Detect sends the frame over the socket and returns the first face, if any.
func (d *StreamDetector) Detect(jpeg []byte) (*Set, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(jpeg) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	if d.conn == nil {
		conn, _, err := d.dialer.Dial(d.config.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("dial landmark stream: %w", err)
		}
		d.conn = conn
	}

	deadline := time.Now().Add(d.config.Timeout)
	d.conn.SetWriteDeadline(deadline)
	if err := d.conn.WriteMessage(websocket.BinaryMessage, jpeg); err != nil {
		d.drop()
		return nil, fmt.Errorf("send frame: %w", err)
	}

	var result Response
	d.conn.SetReadDeadline(deadline)
	if err := d.conn.ReadJSON(&result); err != nil {
		d.drop()
		return nil, fmt.Errorf("read landmarks: %w", err)
	}
	return result.First()
}

// drop closes a broken connection so the next frame re-dials.
func (d *StreamDetector) drop() {
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
}

// Close closes the socket with a normal closure frame.
func (d *StreamDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	d.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := d.conn.Close()
	d.conn = nil
	return err
}
