package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry 清洗流程与缓存的计数器；nil Registry 的方法均为空操作
type Registry struct {
	reg         *prometheus.Registry
	RowsRead    prometheus.Counter
	RowsDropped prometheus.Counter
	RowsKept    prometheus.Counter
	Imputed     *prometheus.CounterVec
	NonFinite   prometheus.Counter
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	PipelineSec prometheus.Histogram
	LastRunUnix prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	rowsRead := prometheus.NewCounter(prometheus.CounterOpts{Name: "delivery_rows_read_total"})
	rowsDropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "delivery_rows_dropped_total"})
	rowsKept := prometheus.NewCounter(prometheus.CounterOpts{Name: "delivery_rows_kept_total"})
	imputed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "delivery_values_imputed_total"}, []string{"column"})
	nonFinite := prometheus.NewCounter(prometheus.CounterOpts{Name: "delivery_velocity_non_finite_total"})
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "delivery_cache_hits_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "delivery_cache_misses_total"})
	pipelineSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "delivery_pipeline_seconds",
		Buckets: prometheus.DefBuckets,
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{Name: "delivery_pipeline_last_run_unixtime"})

	r.MustRegister(rowsRead, rowsDropped, rowsKept, imputed, nonFinite, hits, misses, pipelineSec, lastRun)
	return &Registry{
		reg:         r,
		RowsRead:    rowsRead,
		RowsDropped: rowsDropped,
		RowsKept:    rowsKept,
		Imputed:     imputed,
		NonFinite:   nonFinite,
		CacheHits:   hits,
		CacheMisses: misses,
		PipelineSec: pipelineSec,
		LastRunUnix: lastRun,
	}
}

// Run 一次清洗的结果
type Run struct {
	Read, Dropped, Kept, NonFinite int
	Imputed                        map[string]int
	Seconds                        float64
}

func (r *Registry) ObserveRun(run Run) {
	if r == nil {
		return
	}
	r.RowsRead.Add(float64(run.Read))
	r.RowsDropped.Add(float64(run.Dropped))
	r.RowsKept.Add(float64(run.Kept))
	r.NonFinite.Add(float64(run.NonFinite))
	for column, n := range run.Imputed {
		r.Imputed.WithLabelValues(column).Add(float64(n))
	}
	r.PipelineSec.Observe(run.Seconds)
	r.LastRunUnix.SetToCurrentTime()
}

func (r *Registry) CacheHit() {
	if r != nil {
		r.CacheHits.Inc()
	}
}

func (r *Registry) CacheMiss() {
	if r != nil {
		r.CacheMisses.Inc()
	}
}

// WriteTextfile 以 node_exporter textfile 格式写出
func (r *Registry) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
