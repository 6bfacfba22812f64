package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/mcohen01/rusttpx/packages/client"
)

// Metrics counts dispatches and records per-response latency. Latencies
// are kept in a histogram (microsecond resolution) so percentiles stay
// accurate under load.
type Metrics struct {
	requests  atomic.Int64
	responses atomic.Int64

	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

func (m *Metrics) ProcessRequest(_ context.Context, req *client.Request) (*client.Request, error) {
	m.requests.Add(1)
	return req, nil
}

func (m *Metrics) ProcessResponse(_ context.Context, resp *client.Response) (*client.Response, error) {
	m.responses.Add(1)

	m.mu.Lock()
	_ = m.histogram.RecordValue(resp.Duration.Microseconds())
	m.mu.Unlock()

	return resp, nil
}

// Requests reports the number of dispatches seen, redirect hops included.
func (m *Metrics) Requests() int64 {
	return m.requests.Load()
}

// Responses reports the number of completed responses.
func (m *Metrics) Responses() int64 {
	return m.responses.Load()
}

// Percentile returns the latency at the given percentile (e.g. 50, 99).
func (m *Metrics) Percentile(p float64) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.histogram.ValueAtQuantile(p)) * time.Microsecond
}

// Mean returns the mean recorded latency.
func (m *Metrics) Mean() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.histogram.Mean()) * time.Microsecond
}
