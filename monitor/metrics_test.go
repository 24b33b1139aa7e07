package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "success", classifyError(200))
	assert.Equal(t, "success", classifyError(303))
	assert.Equal(t, "policy_error", classifyError(429))
	assert.Equal(t, "policy_error", classifyError(401))
	assert.Equal(t, "explicit_error", classifyError(400))
	assert.Equal(t, "implicit_error", classifyError(503))
}

func TestReporterSnapshot(t *testing.T) {
	r := newReporter()
	for i := 1; i <= 10; i++ {
		r.recordRequest(time.Duration(i)*time.Millisecond, 200, true)
	}
	r.recordRequest(50*time.Millisecond, 400, false)
	r.recordRequest(60*time.Millisecond, 503, false)
	r.updateMaxConcurrent(3)

	s := r.snapshot(true)
	assert.EqualValues(t, 12, s.TotalRequests)
	assert.EqualValues(t, 12, s.WindowRequests)
	assert.EqualValues(t, 3, s.MaxConcurrent)
	assert.EqualValues(t, 1, s.ExplicitErrors)
	assert.EqualValues(t, 1, s.ImplicitErrors)
	assert.Equal(t, 10, s.Success.Count)
	assert.Equal(t, 5.0, s.Success.P50)
	assert.Equal(t, 9.0, s.Success.P90)
	assert.Equal(t, 2, s.Failure.Count)

	s = r.snapshot(false)
	assert.EqualValues(t, 0, s.WindowRequests)
	assert.EqualValues(t, 12, s.TotalRequests)
	assert.Equal(t, 0, s.Success.Count)
}

func TestAppendBounded(t *testing.T) {
	var samples []float64
	for i := 0; i < maxLatencySamples+10; i++ {
		samples = appendBounded(samples, float64(i))
	}
	assert.Len(t, samples, maxLatencySamples)
	assert.Equal(t, float64(maxLatencySamples+9), samples[len(samples)-1])
}
