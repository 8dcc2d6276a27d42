package landmark

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds remote detector configuration
type Config struct {
	URL     string        // Landmark service endpoint (http, https, ws or wss)
	Timeout time.Duration // Per-frame request budget
}

// DefaultConfig returns defaults for a detector running on the same host
func DefaultConfig() Config {
	return Config{
		URL:     "http://127.0.0.1:8765/landmarks",
		Timeout: 500 * time.Millisecond,
	}
}

// NewDetector picks the transport from the URL scheme: http(s) posts one
// request per frame, ws(s) keeps a socket open.
func NewDetector(cfg Config) (Detector, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid landmark url: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("landmark timeout must be positive")
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTP(cfg), nil
	case "ws", "wss":
		return NewStream(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported landmark url scheme %q", u.Scheme)
	}
}
