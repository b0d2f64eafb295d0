package observability

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	OpEncode = "encode"
	OpDecode = "decode"

	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEOF   = "eof"
)

var (
	registerOnce sync.Once

	codecMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lrpmp",
			Subsystem: "codec",
			Name:      "messages_total",
			Help:      "Messages encoded or decoded per backend.",
		},
		[]string{"backend", "op", "kind", "outcome"},
	)
	codecDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lrpmp",
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Time spent encoding or decoding one message.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"backend", "op"},
	)
	frameBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lrpmp",
			Subsystem: "frame",
			Name:      "payload_bytes_total",
			Help:      "Frame payload bytes read or written, after compression.",
		},
		[]string{"op", "compressed"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecMessages, codecDuration, frameBytes)
	})
}

// RecordCodec counts one message and observes its duration since start.
func RecordCodec(backend, op, kind, outcome string, start time.Time) {
	RegisterMetrics()
	codecMessages.WithLabelValues(backend, op, kind, outcome).Inc()
	codecDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func RecordFrame(op string, payloadLen int, compressed bool) {
	RegisterMetrics()
	label := "false"
	if compressed {
		label = "true"
	}
	frameBytes.WithLabelValues(op, label).Add(float64(payloadLen))
}

// WriteText dumps the lrpmp metric families in the text exposition format.
func WriteText(w io.Writer) error {
	RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "lrpmp_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
