package logger

import (
	"sync"
	"time"
)

// Metrics tracks counters and timings for one process. All methods are safe for
// concurrent use, so parallel document extractions can share it.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// AddCounter adds delta to a counter
func (m *Metrics) AddCounter(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// RecordTiming records one duration measurement
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// Fields summarizes the metrics as log fields: counters by name and, for each
// timing, its count and total.
func (m *Metrics) Fields() Fields {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := make(Fields, len(m.counters)+len(m.timings))
	for name, v := range m.counters {
		fields[name] = v
	}
	for name, durations := range m.timings {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		fields[name+".count"] = len(durations)
		fields[name+".total"] = total.String()
	}
	return fields
}

// IncrCounter increments a counter on the default tracker
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// AddCounter adds to a counter on the default tracker
func AddCounter(name string, delta int64) {
	defaultMetrics.AddCounter(name, delta)
}

// RecordTiming records a timing on the default tracker
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// MetricsFields returns the default tracker summary
func MetricsFields() Fields {
	return defaultMetrics.Fields()
}
