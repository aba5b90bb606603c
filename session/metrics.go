// Package session
package session

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	directionRead  = "read"
	directionWrite = "write"
)

var (
	registerOnce sync.Once

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "session",
			Name:      "frames_total",
			Help:      "Complete frames moved through sessions.",
		},
		[]string{"direction"},
	)
	frameBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "session",
			Name:      "frame_bytes_total",
			Help:      "Payload bytes moved through sessions.",
		},
		[]string{"direction"},
	)
	decodeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "session",
			Name:      "decode_errors_total",
			Help:      "Fatal framing errors that closed a session.",
		},
	)
)

// RegisterMetrics registers the session collectors with the default
// prometheus registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesTotal, frameBytesTotal, decodeErrorsTotal)
	})
}

func recordFrame(direction string, payloadBytes int) {
	framesTotal.WithLabelValues(direction).Inc()
	frameBytesTotal.WithLabelValues(direction).Add(float64(payloadBytes))
}

func recordDecodeError() {
	decodeErrorsTotal.Inc()
}
