package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sv2wire",
			Subsystem: "codec",
			Name:      "frames_decoded_total",
			Help:      "Frames decoded, by message name.",
		},
		[]string{"message"},
	)
	framesEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sv2wire",
			Subsystem: "codec",
			Name:      "frames_encoded_total",
			Help:      "Frames encoded, by message name.",
		},
		[]string{"message"},
	)
	encodedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sv2wire",
			Subsystem: "codec",
			Name:      "encoded_bytes_total",
			Help:      "Total bytes of encoded frames, headers included.",
		},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sv2wire",
			Subsystem: "codec",
			Name:      "decode_errors_total",
			Help:      "Terminal decode failures, by kind.",
		},
		[]string{"kind"},
	)
	connsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sv2wire",
			Subsystem: "session",
			Name:      "connections_active",
			Help:      "Connections currently driving a codec pair.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sv2wire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sv2wire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesDecoded, framesEncoded, encodedBytes, decodeErrors,
			connsActive, httpRequests, httpDuration,
		)
	})
}

func RecordFrameDecoded(message string) {
	RegisterMetrics()
	framesDecoded.WithLabelValues(message).Inc()
}

func RecordFrameEncoded(message string, bytes int) {
	RegisterMetrics()
	framesEncoded.WithLabelValues(message).Inc()
	encodedBytes.Add(float64(bytes))
}

func RecordDecodeError(kind string) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(kind).Inc()
}

func RecordConnOpen() {
	RegisterMetrics()
	connsActive.Inc()
}

func RecordConnClose() {
	connsActive.Dec()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
