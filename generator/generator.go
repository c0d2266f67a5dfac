// Package generator writes a static copy of a site by requesting every
// registered route from the site router.
package generator

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/ink-kai/inkworld/handlers"
	"github.com/ink-kai/inkworld/linkcheck"
	"github.com/ink-kai/inkworld/metrics"
	"github.com/ink-kai/inkworld/site"
	"github.com/pkg/errors"
)

// NotFoundFile is the page static hosts serve for unknown paths.
const NotFoundFile = linkcheck.NotFoundFile

// fileExts are routes written as files rather than directory indexes.
var fileExts = map[string]bool{
	".xml": true,
	".xsl": true,
	".js":  true,
	".css": true,
	".txt": true,
}

// Report lists what a build produced.
type Report struct {
	// Pages are the generated routes, sorted.
	Pages       []string
	Files       int
	StaticFiles int
	BrokenLinks []linkcheck.BrokenLink
	Duration    time.Duration
}

type Options struct {
	Metrics *metrics.Metrics
}

// Build renders every route of s into outDir, copies the static
// directories and checks links with the site's on_broken_links severity.
// outDir is emptied first.
func Build(ctx context.Context, s *site.Site, outDir string, opts Options) (report *Report, err error) {
	start := time.Now()
	logger := s.Options.Logger
	defer func() {
		opts.Metrics.BuildFinished(time.Since(start).Seconds(), err)
	}()

	router, err := handlers.SetupRouter(s, opts.Metrics)
	if err != nil {
		return nil, errors.Wrap(err, "error setting up router")
	}

	if err := checkOutDir(s.Root, outDir); err != nil {
		return nil, err
	}
	if err := os.RemoveAll(outDir); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "error creating output directory")
	}

	report = &Report{}
	for _, dir := range s.StaticDirs() {
		n, err := copyDir(dir, outDir)
		if err != nil {
			return nil, errors.Wrapf(err, "error copying static files from %s", dir)
		}
		report.StaticFiles += n
	}

	server := httptest.NewServer(router)
	defer server.Close()

	routes, err := walkRoutes(router)
	if err != nil {
		return nil, err
	}
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		file, err := generateStaticPage(ctx, server, outputPath(outDir, s.Config.BaseURL, route), route, http.StatusOK)
		if err != nil {
			return nil, errors.Wrapf(err, "error generating static page for %s", route)
		}
		logger.Debug("Generated", "route", route, "file", file)
		if path.Ext(route) == "" || strings.HasSuffix(route, "/") {
			report.Pages = append(report.Pages, route)
		}
		report.Files++
	}

	notFound := path.Join(s.Config.BaseURL, NotFoundFile)
	if _, err := generateStaticPage(ctx, server, outputPath(outDir, s.Config.BaseURL, notFound), notFound, http.StatusNotFound); err != nil {
		return nil, errors.Wrap(err, "error generating 404 page")
	}
	report.Files++
	sort.Strings(report.Pages)

	report.BrokenLinks, err = linkcheck.Check(outDir, s.Config.BaseURL)
	if err != nil {
		return nil, err
	}
	opts.Metrics.BrokenLinksFound(len(report.BrokenLinks))
	if err := linkcheck.Report(report.BrokenLinks, s.Config.OnBrokenLinks, logger); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	logger.Info("Static site generated", "out", outDir, "pages", len(report.Pages),
		"files", report.Files, "static", report.StaticFiles, "duration", report.Duration)
	return report, nil
}

// checkOutDir refuses output directories that would wipe the site sources.
func checkOutDir(root, outDir string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.WithStack(err)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return errors.WithStack(err)
	}
	rel, err := filepath.Rel(absOut, absRoot)
	if err == nil && (rel == "." || !strings.HasPrefix(rel, "..")) {
		return errors.Errorf("output directory %s contains the site root", outDir)
	}
	return nil
}

// walkRoutes lists the path templates of every page route, in registration
// order and without duplicates.
func walkRoutes(router *mux.Router) ([]string, error) {
	var routes []string
	seen := make(map[string]bool)
	err := router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		if route.GetName() == handlers.StaticRouteName {
			return nil
		}
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil // Skip routes without a path template
		}
		if !seen[tpl] {
			seen[tpl] = true
			routes = append(routes, tpl)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return routes, nil
}

func generateStaticPage(ctx context.Context, server *httptest.Server, filePath, route string, want int) (string, error) {
	target := server.URL + (&url.URL{Path: route}).EscapedPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", errors.WithStack(err)
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return "", errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", errors.WithStack(err)
	}
	if err := os.WriteFile(filePath, body, 0o644); err != nil {
		return "", errors.WithStack(err)
	}
	return filePath, nil
}

// outputPath maps a route to its file below outDir, which stands for the
// base url. Pages become directory indexes, routes with a file extension are
// written as is.
func outputPath(outDir, baseURL, route string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(route, strings.TrimSuffix(baseURL, "/")), "/")
	if fileExts[strings.ToLower(path.Ext(route))] || path.Base(route) == NotFoundFile {
		return filepath.Join(outDir, filepath.FromSlash(rel))
	}
	return filepath.Join(outDir, filepath.FromSlash(rel), "index.html")
}

func copyDir(src, dst string) (int, error) {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
			return err
		}
		if err := copyFile(p, destPath); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src, dst string) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, input, 0o644)
}
