package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ink-kai/inkworld/metrics"
	"github.com/julienschmidt/httprouter"
)

// Dev server control routes.
const (
	LiveReloadPath = "/__livereload"
	MetricsPath    = "/metrics"
)

// DefaultPollTimeout bounds how long a live reload request waits for a change.
const DefaultPollTimeout = 30 * time.Second

// DevServer serves the current site handler and lets browsers wait for the
// next reload. Swap replaces the site handler and wakes every waiting client.
type DevServer struct {
	PollTimeout time.Duration

	mu      sync.RWMutex
	site    http.Handler
	changed chan struct{}
	closed  bool

	router  *httprouter.Router
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewDevServer wraps site with the live reload and metrics endpoints. m may
// be nil, in which case no metrics route is registered.
func NewDevServer(site http.Handler, m *metrics.Metrics, logger *slog.Logger) *DevServer {
	if logger == nil {
		logger = slog.Default()
	}
	d := &DevServer{
		PollTimeout: DefaultPollTimeout,
		site:        site,
		changed:     make(chan struct{}),
		metrics:     m,
		logger:      logger,
	}

	router := httprouter.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false
	router.GET(LiveReloadPath, d.poll)
	if m != nil {
		router.Handler(http.MethodGet, MetricsPath, m.Handler())
	}
	router.NotFound = http.HandlerFunc(d.serveSite)
	d.router = router
	return d
}

func (d *DevServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

// Swap installs a freshly built site handler and notifies waiting clients.
func (d *DevServer) Swap(site http.Handler) {
	d.mu.Lock()
	d.site = site
	if !d.closed {
		close(d.changed)
		d.changed = make(chan struct{})
	}
	d.mu.Unlock()
	d.logger.Info("Site reloaded")
}

// Close releases every waiting client without asking it to reload.
func (d *DevServer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.changed)
	}
}

func (d *DevServer) serveSite(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	site := d.site
	d.mu.RUnlock()
	site.ServeHTTP(w, r)
}

// poll answers 205 Reset Content when the site changed while the request
// waited, and 204 No Content on timeout.
func (d *DevServer) poll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	d.mu.RLock()
	changed, closed := d.changed, d.closed
	d.mu.RUnlock()
	w.Header().Set("Cache-Control", "no-store")
	if closed {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	timer := time.NewTimer(d.PollTimeout)
	defer timer.Stop()
	select {
	case <-changed:
		d.mu.RLock()
		closed = d.closed
		d.mu.RUnlock()
		if closed {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusResetContent)
	case <-timer.C:
		w.WriteHeader(http.StatusNoContent)
	case <-r.Context().Done():
	}
}
