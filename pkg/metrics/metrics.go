// Package metrics exposes frame loop counters for Prometheus.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all frame loop metrics
type Metrics struct {
	// Frame counters
	FramesRead    atomic.Uint64
	FramesSkipped atomic.Uint64 // Capture produced nothing
	FramesNoFace  atomic.Uint64
	PoseFallbacks atomic.Uint64 // Face present but the solve failed

	// Error counters
	DetectorErrors atomic.Uint64
	EncodeErrors   atomic.Uint64

	// Loop state
	PrivacyMode   atomic.Uint64 // 0 = real, 1 = privacy
	ModeToggles   atomic.Uint64
	LastFrameUnix atomic.Int64

	// Stream clients
	ActiveClients atomic.Int64

	frameDuration prometheus.Histogram
	registry      *prometheus.Registry
}

// New creates a new Metrics instance with Prometheus collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vtuber_frame_duration_seconds",
			Help:    "Time from capture to presented frame",
			Buckets: []float64{0.005, 0.01, 0.02, 0.033, 0.05, 0.075, 0.1, 0.2, 0.5},
		}),
	}

	m.registerPrometheusMetrics()

	return m
}

func (m *Metrics) counter(name, help string, v *atomic.Uint64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{Name: name, Help: help},
		func() float64 { return float64(v.Load()) },
	))
}

// registerPrometheusMetrics registers all metrics with Prometheus
func (m *Metrics) registerPrometheusMetrics() {
	m.counter("vtuber_frames_read_total", "Total frames read from the capture source", &m.FramesRead)
	m.counter("vtuber_frames_skipped_total", "Total capture reads that produced no frame", &m.FramesSkipped)
	m.counter("vtuber_frames_no_face_total", "Total frames without a detected face", &m.FramesNoFace)
	m.counter("vtuber_pose_fallbacks_total", "Total frames where the pose solve fell back to zero", &m.PoseFallbacks)
	m.counter("vtuber_detector_errors_total", "Total landmark detector errors", &m.DetectorErrors)
	m.counter("vtuber_encode_errors_total", "Total JPEG encode errors", &m.EncodeErrors)
	m.counter("vtuber_mode_toggles_total", "Total display mode toggles", &m.ModeToggles)

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vtuber_privacy_mode",
			Help: "Display mode (0=real, 1=privacy)",
		},
		func() float64 { return float64(m.PrivacyMode.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vtuber_stream_clients",
			Help: "Number of connected websocket clients",
		},
		func() float64 { return float64(m.ActiveClients.Load()) },
	))

	m.registry.MustRegister(m.frameDuration)
}

// ObserveFrame records one completed frame that started at start.
func (m *Metrics) ObserveFrame(start time.Time) {
	now := time.Now()
	m.frameDuration.Observe(now.Sub(start).Seconds())
	m.LastFrameUnix.Store(now.UnixMilli())
}

// SetPrivacy records the current display mode.
func (m *Metrics) SetPrivacy(privacy bool) {
	if privacy {
		m.PrivacyMode.Store(1)
	} else {
		m.PrivacyMode.Store(0)
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	FramesRead     uint64 `json:"frames_read"`
	FramesSkipped  uint64 `json:"frames_skipped"`
	FramesNoFace   uint64 `json:"frames_no_face"`
	PoseFallbacks  uint64 `json:"pose_fallbacks"`
	DetectorErrors uint64 `json:"detector_errors"`
	EncodeErrors   uint64 `json:"encode_errors"`
	ModeToggles    uint64 `json:"mode_toggles"`
	StreamClients  int64  `json:"stream_clients"`
	LastFrameMs    int64  `json:"last_frame_ms"`
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		FramesRead:     m.FramesRead.Load(),
		FramesSkipped:  m.FramesSkipped.Load(),
		FramesNoFace:   m.FramesNoFace.Load(),
		PoseFallbacks:  m.PoseFallbacks.Load(),
		DetectorErrors: m.DetectorErrors.Load(),
		EncodeErrors:   m.EncodeErrors.Load(),
		ModeToggles:    m.ModeToggles.Load(),
		StreamClients:  m.ActiveClients.Load(),
		LastFrameMs:    m.LastFrameUnix.Load(),
	}
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
