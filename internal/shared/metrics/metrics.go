package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	detectStartedTotal   atomic.Uint64
	detectCompletedTotal atomic.Uint64
	detectFailedTotal    atomic.Uint64
	llmCallsTotal        atomic.Uint64
	llmFailuresTotal     atomic.Uint64
	uploadsTotal         atomic.Uint64

	detectDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncDetectStarted counts an anomaly detection request that passed validation.
func IncDetectStarted() {
	detectStartedTotal.Add(1)
}

// IncDetectCompleted counts a successful anomaly detection.
func IncDetectCompleted() {
	detectCompletedTotal.Add(1)
}

// IncDetectFailed counts a failed anomaly detection.
func IncDetectFailed() {
	detectFailedTotal.Add(1)
}

// IncLLMCall counts a call to the language model; failed marks it as an error.
func IncLLMCall(failed bool) {
	llmCallsTotal.Add(1)
	if failed {
		llmFailuresTotal.Add(1)
	}
}

// IncUpload counts a stored upload.
func IncUpload() {
	uploadsTotal.Add(1)
}

// ObserveDetectDurationMs records an anomaly detection duration in milliseconds.
func ObserveDetectDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	detectDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "anomaly_detect_started_total", "Total anomaly detections started", detectStartedTotal.Load())
	writeCounter(&buf, "anomaly_detect_completed_total", "Total anomaly detections completed", detectCompletedTotal.Load())
	writeCounter(&buf, "anomaly_detect_failed_total", "Total anomaly detections failed", detectFailedTotal.Load())
	writeCounter(&buf, "llm_calls_total", "Total language model calls", llmCallsTotal.Load())
	writeCounter(&buf, "llm_failures_total", "Total failed language model calls", llmFailuresTotal.Load())
	writeCounter(&buf, "uploads_total", "Total stored uploads", uploadsTotal.Load())
	writeHistogram(&buf, "anomaly_detect_duration_ms", "Anomaly detection duration in milliseconds", detectDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Since returns the milliseconds elapsed since start.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
