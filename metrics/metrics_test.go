package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the counters named name whose labels include want.
func counterValue(t *testing.T, m *Metrics, name string, want map[string]string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecorders(t *testing.T) {
	m := New()
	m.PageRendered("doc", http.StatusOK)
	m.PageRendered("doc", http.StatusOK)
	m.PageRendered("notfound", http.StatusNotFound)
	m.BuildFinished(0.3, nil)
	m.BuildFinished(0.1, errors.New("boom"))
	m.BrokenLinksFound(3)
	m.Reloaded(nil)

	assert.Equal(t, 2.0, counterValue(t, m, "inkworld_pages_rendered_total", map[string]string{"kind": "doc", "status": "OK"}))
	assert.Equal(t, 1.0, counterValue(t, m, "inkworld_pages_rendered_total", map[string]string{"status": "Not Found"}))
	assert.Equal(t, 1.0, counterValue(t, m, "inkworld_builds_total", map[string]string{"result": "error"}))
	assert.Equal(t, 3.0, counterValue(t, m, "inkworld_broken_links_total", nil))
	assert.Equal(t, 1.0, counterValue(t, m, "inkworld_reloads_total", map[string]string{"result": "ok"}))
}

func TestRegistriesAreIsolated(t *testing.T) {
	m1, m2 := New(), New()
	m1.BrokenLinksFound(5)
	assert.Equal(t, 0.0, counterValue(t, m2, "inkworld_broken_links_total", nil))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PageRendered("doc", http.StatusOK)
		m.BuildFinished(1, nil)
		m.BrokenLinksFound(1)
		m.Reloaded(nil)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.BrokenLinksFound(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inkworld_broken_links_total 1")
}
