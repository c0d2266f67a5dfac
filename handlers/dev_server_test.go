package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ink-kai/inkworld/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDevServerFallsThroughToSite(t *testing.T) {
	_, router := setupSite(t, nil)
	d := NewDevServer(router, metrics.New(), nil)

	rec := get(t, d, "/docs/docusaurus/intro")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, d, MetricsPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDevServerPollTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d := NewDevServer(http.NotFoundHandler(), nil, nil)
	d.PollTimeout = 20 * time.Millisecond

	rec := get(t, d, LiveReloadPath)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = get(t, d, MetricsPath)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDevServerSwapWakesPollers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d := NewDevServer(http.NotFoundHandler(), nil, nil)
	d.PollTimeout = 5 * time.Second

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, LiveReloadPath, nil))
	}()

	replacement := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
wait:
	for {
		select {
		case <-done:
			break wait
		case <-ticker.C:
			d.Swap(replacement)
		}
	}

	assert.Equal(t, http.StatusResetContent, rec.Code)
	assert.Equal(t, http.StatusTeapot, get(t, d, "/anything").Code)
}

func TestDevServerClose(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d := NewDevServer(http.NotFoundHandler(), nil, nil)
	d.Close()
	d.Close()

	rec := get(t, d, LiveReloadPath)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	assert.NotPanics(t, func() { d.Swap(http.NotFoundHandler()) })
}
