package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Gauge and counter names recorded by the application.
const (
	SystemCpuuse    = "system_cpuuse"
	SystemMemuse    = "system_memuse"
	ProcessCpuuse   = "stocknexus_cpuuse"
	ProcessMemuse   = "stocknexus_memuse"
	AlertsCreated   = "alerts_created"
	ReportsRendered = "reports_rendered"
	UsersApproved   = "users_approved"
)

var (
	mu       sync.Mutex
	store    tstorage.Storage
	counters = map[string]int64{}
)

// InitMetrics opens the embedded time-series store under the workdir.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	store = s
	mu.Unlock()
	return nil
}

func insert(name string, value float64) {
	mu.Lock()
	s := store
	mu.Unlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// SetGauge records the current value of a gauge metric.
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// IncrCounter increments a monotonic counter and records its new value.
func IncrCounter(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	v := counters[name]
	mu.Unlock()
	insert(name, float64(v))
}

// CounterValue returns the in-process value of a counter.
func CounterValue(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// Select returns the raw datapoints of a metric between start and end (unix seconds).
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	s := store
	mu.Unlock()
	if s == nil {
		return nil, nil
	}
	return s.Select(name, nil, start, end)
}

// Close flushes and closes the metrics store.
func Close() error {
	mu.Lock()
	s := store
	store = nil
	mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
