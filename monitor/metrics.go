package monitor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/songquanpeng/image-studio/common/logger"
)

// maxLatencySamples bounds the latency window kept between flushes.
const maxLatencySamples = 4096

// MetricData is the request window accumulated between two flushes.
type MetricData struct {
	SuccessLatencies []float64
	FailureLatencies []float64

	RequestCount  int64
	MaxConcurrent int64

	ExplicitErrors int64 // 4xx
	ImplicitErrors int64 // 5xx
	PolicyErrors   int64 // 401, 403, 429

	mutex sync.Mutex
}

type Reporter struct {
	buffer             *MetricData
	concurrentRequests int64
	totalRequests      int64
	startTime          time.Time
}

var globalReporter = newReporter()

func newReporter() *Reporter {
	return &Reporter{
		buffer:    &MetricData{},
		startTime: time.Now(),
	}
}

func RecordRequest(latency time.Duration, statusCode int, success bool) {
	globalReporter.recordRequest(latency, statusCode, success)
}

func IncrementConcurrent() {
	current := atomic.AddInt64(&globalReporter.concurrentRequests, 1)
	globalReporter.updateMaxConcurrent(current)
}

func DecrementConcurrent() {
	atomic.AddInt64(&globalReporter.concurrentRequests, -1)
}

func (r *Reporter) recordRequest(latency time.Duration, statusCode int, success bool) {
	atomic.AddInt64(&r.totalRequests, 1)

	r.buffer.mutex.Lock()
	defer r.buffer.mutex.Unlock()

	latencyMs := float64(latency.Milliseconds())
	if success {
		r.buffer.SuccessLatencies = appendBounded(r.buffer.SuccessLatencies, latencyMs)
	} else {
		r.buffer.FailureLatencies = appendBounded(r.buffer.FailureLatencies, latencyMs)
	}
	r.buffer.RequestCount++

	switch classifyError(statusCode) {
	case "explicit_error":
		r.buffer.ExplicitErrors++
	case "implicit_error":
		r.buffer.ImplicitErrors++
	case "policy_error":
		r.buffer.PolicyErrors++
	}
}

func appendBounded(samples []float64, v float64) []float64 {
	if len(samples) >= maxLatencySamples {
		samples = samples[1:]
	}
	return append(samples, v)
}

func (r *Reporter) updateMaxConcurrent(current int64) {
	r.buffer.mutex.Lock()
	defer r.buffer.mutex.Unlock()

	if current > r.buffer.MaxConcurrent {
		r.buffer.MaxConcurrent = current
	}
}

func classifyError(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 400:
		return "success"
	case statusCode == 401 || statusCode == 403 || statusCode == 429:
		return "policy_error"
	case statusCode >= 400 && statusCode < 500:
		return "explicit_error"
	case statusCode >= 500:
		return "implicit_error"
	default:
		return "unknown"
	}
}

// percentile expects sorted input.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}

type LatencySummary struct {
	Count int     `json:"count"`
	P50   float64 `json:"p50_ms"`
	P90   float64 `json:"p90_ms"`
	P99   float64 `json:"p99_ms"`
}

func summarize(samples []float64) LatencySummary {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return LatencySummary{
		Count: len(sorted),
		P50:   percentile(sorted, 0.50),
		P90:   percentile(sorted, 0.90),
		P99:   percentile(sorted, 0.99),
	}
}

type Snapshot struct {
	UptimeSeconds  int64          `json:"uptime_seconds"`
	TotalRequests  int64          `json:"total_requests"`
	WindowRequests int64          `json:"window_requests"`
	Concurrent     int64          `json:"concurrent"`
	MaxConcurrent  int64          `json:"max_concurrent"`
	ExplicitErrors int64          `json:"explicit_errors"`
	ImplicitErrors int64          `json:"implicit_errors"`
	PolicyErrors   int64          `json:"policy_errors"`
	Success        LatencySummary `json:"success_latency"`
	Failure        LatencySummary `json:"failure_latency"`
	Goroutines     int            `json:"goroutines"`
	AllocMB        uint64         `json:"alloc_mb"`
	SysMB          uint64         `json:"sys_mb"`
	NumGC          uint32         `json:"num_gc"`
}

func (r *Reporter) snapshot(reset bool) Snapshot {
	r.buffer.mutex.Lock()
	s := Snapshot{
		UptimeSeconds:  int64(time.Since(r.startTime).Seconds()),
		TotalRequests:  atomic.LoadInt64(&r.totalRequests),
		WindowRequests: r.buffer.RequestCount,
		Concurrent:     atomic.LoadInt64(&r.concurrentRequests),
		MaxConcurrent:  r.buffer.MaxConcurrent,
		ExplicitErrors: r.buffer.ExplicitErrors,
		ImplicitErrors: r.buffer.ImplicitErrors,
		PolicyErrors:   r.buffer.PolicyErrors,
		Success:        summarize(r.buffer.SuccessLatencies),
		Failure:        summarize(r.buffer.FailureLatencies),
	}
	if reset {
		r.buffer.SuccessLatencies = nil
		r.buffer.FailureLatencies = nil
		r.buffer.RequestCount = 0
		r.buffer.MaxConcurrent = s.Concurrent
		r.buffer.ExplicitErrors = 0
		r.buffer.ImplicitErrors = 0
		r.buffer.PolicyErrors = 0
	}
	r.buffer.mutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.Goroutines = runtime.NumGoroutine()
	s.AllocMB = m.Alloc / 1024 / 1024
	s.SysMB = m.Sys / 1024 / 1024
	s.NumGC = m.NumGC
	return s
}

// GetSnapshot reads the current window without resetting it.
func GetSnapshot() Snapshot {
	return globalReporter.snapshot(false)
}

// StartReporter logs and resets the request window every interval until
// ctx is done.
func StartReporter(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				globalReporter.flush()
			}
		}
	}()
	logger.SysLog(fmt.Sprintf("metrics reporter started (interval: %s)", interval))
}

func (r *Reporter) flush() {
	s := r.snapshot(true)
	if s.WindowRequests == 0 {
		return
	}
	logger.SysLog(fmt.Sprintf("metrics: requests=%d max_concurrent=%d 4xx=%d 5xx=%d policy=%d p50=%.0fms p99=%.0fms goroutines=%d alloc=%dMB",
		s.WindowRequests, s.MaxConcurrent, s.ExplicitErrors, s.ImplicitErrors, s.PolicyErrors,
		s.Success.P50, s.Success.P99, s.Goroutines, s.AllocMB))
	if s.Goroutines > 5000 {
		logger.SysError(fmt.Sprintf("high goroutine count detected: %d", s.Goroutines))
	}
}
