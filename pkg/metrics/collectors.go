package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RuntimeCollector собирает метрики runtime
type RuntimeCollector struct {
	goroutines *prometheus.Desc
	memAlloc   *prometheus.Desc
	memTotal   *prometheus.Desc
	memSys     *prometheus.Desc
	gcPause    *prometheus.Desc
	gcRuns     *prometheus.Desc
}

// NewRuntimeCollector создаёт новый коллектор runtime метрик
func NewRuntimeCollector(namespace, subsystem string) *RuntimeCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name),
			help,
			nil, nil,
		)
	}

	return &RuntimeCollector{
		goroutines: desc("runtime_goroutines", "Number of goroutines"),
		memAlloc:   desc("runtime_memory_alloc_bytes", "Bytes allocated and still in use"),
		memTotal:   desc("runtime_memory_total_alloc_bytes", "Total bytes allocated (even if freed)"),
		memSys:     desc("runtime_memory_sys_bytes", "Bytes obtained from system"),
		gcPause:    desc("runtime_gc_pause_seconds", "GC pause duration"),
		gcRuns:     desc("runtime_gc_runs_total", "Total number of completed GC cycles"),
	}
}

// Describe implements prometheus.Collector
func (c *RuntimeCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.goroutines, c.memAlloc, c.memTotal, c.memSys, c.gcPause, c.gcRuns} {
		ch <- d
	}
}

// Collect implements prometheus.Collector
func (c *RuntimeCollector) Collect(ch chan<- prometheus.Metric) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	ch <- prometheus.MustNewConstMetric(c.goroutines, prometheus.GaugeValue, float64(runtime.NumGoroutine()))
	ch <- prometheus.MustNewConstMetric(c.memAlloc, prometheus.GaugeValue, float64(stats.Alloc))
	ch <- prometheus.MustNewConstMetric(c.memTotal, prometheus.CounterValue, float64(stats.TotalAlloc))
	ch <- prometheus.MustNewConstMetric(c.memSys, prometheus.GaugeValue, float64(stats.Sys))
	ch <- prometheus.MustNewConstMetric(c.gcRuns, prometheus.CounterValue, float64(stats.NumGC))

	// Последняя пауза GC
	if stats.NumGC > 0 {
		pause := stats.PauseNs[(stats.NumGC-1)%uint32(len(stats.PauseNs))]
		ch <- prometheus.MustNewConstMetric(c.gcPause, prometheus.GaugeValue, float64(pause)/1e9)
	}
}

// SolveTracker отслеживает активные решения по именам экземпляров
type SolveTracker struct {
	mu       sync.Mutex
	active   map[string]int
	inFlight prometheus.Gauge
}

// NewSolveTracker создаёт новый трекер решений
func NewSolveTracker(inFlight prometheus.Gauge) *SolveTracker {
	return &SolveTracker{
		active:   make(map[string]int),
		inFlight: inFlight,
	}
}

// Start отмечает начало решения
func (t *SolveTracker) Start(instance string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active[instance]++
	t.inFlight.Inc()
}

// End отмечает завершение решения
func (t *SolveTracker) End(instance string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active[instance] > 0 {
		t.active[instance]--
		t.inFlight.Dec()
	}
}

// Timer для измерения времени выполнения
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer создаёт новый таймер
func NewTimer(histogram *prometheus.HistogramVec, labels ...string) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram.WithLabelValues(labels...),
	}
}

// ObserveDuration записывает длительность
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	t.observer.Observe(duration.Seconds())
	return duration
}
