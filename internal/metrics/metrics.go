package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg             *prometheus.Registry
	SnapshotLoads   prometheus.Counter
	LoadFailures    *prometheus.CounterVec
	SnapshotSize    prometheus.Gauge
	LoadDurationSec prometheus.Histogram

	// HTTP
	Requests *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	loads := prometheus.NewCounter(prometheus.CounterOpts{Name: "markets_snapshot_loads_total"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "markets_snapshot_load_failures_total"}, []string{"kind"})
	size := prometheus.NewGauge(prometheus.GaugeOpts{Name: "markets_snapshot_size"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "markets_snapshot_load_seconds",
		Buckets: prometheus.DefBuckets,
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "markets_http_requests_total"}, []string{"route", "code"})

	r.MustRegister(loads, failures, size, duration, requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:             r,
		SnapshotLoads:   loads,
		LoadFailures:    failures,
		SnapshotSize:    size,
		LoadDurationSec: duration,
		Requests:        requests,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
