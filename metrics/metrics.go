package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inkworld"

// Metrics holds the site collectors on their own registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	PagesRendered       *prometheus.CounterVec
	BuildDurationSecond prometheus.Histogram
	BuildsTotal         *prometheus.CounterVec
	BrokenLinks         prometheus.Counter
	Reloads             *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		PagesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages rendered, by page kind and response status.",
		}, []string{"kind", "status"}),
		BuildDurationSecond: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of static builds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Static builds, by result.",
		}, []string{"result"}),
		BrokenLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broken_links_total",
			Help:      "Broken internal links found in generated pages.",
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Dev server site reloads, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.PagesRendered, m.BuildDurationSecond, m.BuildsTotal, m.BrokenLinks, m.Reloads)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) PageRendered(kind string, code int) {
	if m == nil {
		return
	}
	m.PagesRendered.WithLabelValues(kind, http.StatusText(code)).Inc()
}

func (m *Metrics) BuildFinished(seconds float64, err error) {
	if m == nil {
		return
	}
	m.BuildDurationSecond.Observe(seconds)
	m.BuildsTotal.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) BrokenLinksFound(n int) {
	if m == nil {
		return
	}
	m.BrokenLinks.Add(float64(n))
}

func (m *Metrics) Reloaded(err error) {
	if m == nil {
		return
	}
	m.Reloads.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
