// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "football_dashboard"

// Recorder owns a private registry. All methods are safe on a nil receiver so
// callers can run with metrics disabled.
type Recorder struct {
	registry *prometheus.Registry

	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	reportRenders    *prometheus.CounterVec
	reportLatency    *prometheus.HistogramVec
	loginAttempts    *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	datasetRows      prometheus.Gauge
}

type Option func(*options)

type options struct {
	namespace     string
	buckets       []float64
	runtimeCounts bool
}

func WithNamespace(namespace string) Option {
	return func(o *options) {
		if namespace != "" {
			o.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(o *options) {
		o.runtimeCounts = true
	}
}

func New(opts ...Option) *Recorder {
	o := options{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := prometheus.NewRegistry()
	if o.runtimeCounts {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "football-data.org requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "football-data.org request latency.",
			Buckets:   o.buckets,
		}, []string{"endpoint"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups by key class and result.",
		}, []string{"class", "result"}),
		reportRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "report",
			Name:      "renders_total",
			Help:      "PDF report renders by kind and outcome.",
		}, []string{"kind", "outcome"}),
		reportLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "report",
			Name:      "render_duration_seconds",
			Help:      "PDF report render latency.",
			Buckets:   o.buckets,
		}, []string{"kind"}),
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   o.buckets,
		}, []string{"method", "route"}),
		datasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Subsystem: "dataset",
			Name:      "forward_rows",
			Help:      "Rows in the last loaded forwards dataset.",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveProviderRequest(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.providerRequests.WithLabelValues(endpoint, outcome).Inc()
	r.providerLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveCacheLookup(class string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(class, result).Inc()
}

func (r *Recorder) ObserveReportRender(kind, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.reportRenders.WithLabelValues(kind, outcome).Inc()
	r.reportLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveLogin(outcome string) {
	if r == nil {
		return
	}
	r.loginAttempts.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Recorder) SetDatasetRows(n int) {
	if r == nil {
		return
	}
	r.datasetRows.Set(float64(n))
}
