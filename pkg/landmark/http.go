package landmark

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/teslashibe/go-vtuber/internal/httpc"
)

// HTTPDetector posts each JPEG frame to a landmark service and decodes the reply
type HTTPDetector struct {
	client *http.Client
	config Config
}

// NewHTTP creates a detector that issues one POST per frame.
func NewHTTP(cfg Config) *HTTPDetector {
	return &HTTPDetector{
		client: httpc.NewClient(cfg.Timeout),
		config: cfg,
	}
}

// Detect sends the frame and returns the first face, if any.
func (d *HTTPDetector) Detect(jpeg []byte) (*Set, error) {
	if len(jpeg) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
	defer cancel()

	resp, err := httpc.Post(ctx, d.client, d.config.URL, "image/jpeg", jpeg)
	if err != nil {
		return nil, fmt.Errorf("landmark request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("landmark service error %d: %s", resp.StatusCode, string(body))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode landmarks: %w", err)
	}
	return result.First()
}

// Close releases idle connections.
func (d *HTTPDetector) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
