// Package linkcheck finds internal links in generated HTML that point at no
// generated file.
package linkcheck

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ink-kai/inkworld/config"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// NotFoundFile is skipped by Check.
const NotFoundFile = "404.html"

// BrokenLink is an unresolved link found on a page.
type BrokenLink struct {
	// Page is the route of the page holding the link.
	Page string
	Link string
}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"script": "src",
	"img":    "src",
	"source": "src",
	"iframe": "src",
}

// Check scans every HTML file below outDir. Links are resolved against the
// route of their page and must stay below baseURL.
func Check(outDir, baseURL string) ([]BrokenLink, error) {
	var broken []BrokenLink
	err := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		// The 404 page is served at arbitrary paths.
		if rel, _ := filepath.Rel(outDir, p); rel == NotFoundFile {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		page := pageRoute(baseURL, filepath.ToSlash(rel))

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		for _, link := range extractLinks(content) {
			target, ok := resolve(page, link)
			if !ok {
				continue
			}
			if !exists(outDir, baseURL, target) {
				broken = append(broken, BrokenLink{Page: page, Link: link})
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].Link < broken[j].Link
	})
	return broken, nil
}

// Report surfaces broken links with severity. With SeverityThrow a single
// error listing every link is returned.
func Report(broken []BrokenLink, severity config.ReportingSeverity, logger *slog.Logger) error {
	if len(broken) == 0 {
		return nil
	}
	if severity == config.SeverityThrow {
		var b strings.Builder
		fmt.Fprintf(&b, "found %d broken links:", len(broken))
		for _, l := range broken {
			fmt.Fprintf(&b, "\n  %s -> %s", l.Page, l.Link)
		}
		return errors.New(b.String())
	}
	for _, l := range broken {
		_ = severity.Report(logger, "Broken link", "page", l.Page, "link", l.Link)
	}
	return nil
}

func pageRoute(baseURL, rel string) string {
	if path.Base(rel) == "index.html" {
		dir := path.Dir(rel)
		if dir == "." {
			return baseURL
		}
		return path.Join(baseURL, dir) + "/"
	}
	return path.Join(baseURL, rel)
}

func extractLinks(content []byte) []string {
	var links []string
	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attr, ok := linkAttrs[tok.Data]
			if !ok {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == attr && a.Val != "" {
					links = append(links, a.Val)
				}
			}
		}
	}
}

// resolve returns the absolute path a link points at, or false when the
// link is external or only a fragment.
func resolve(page, link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	base := &url.URL{Path: page}
	return base.ResolveReference(&url.URL{Path: u.Path}).Path, true
}

func exists(outDir, baseURL, target string) bool {
	if target+"/" == baseURL {
		target = baseURL
	}
	if !strings.HasPrefix(target, baseURL) {
		return false
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(target, baseURL), "/")
	candidates := []string{
		filepath.Join(outDir, filepath.FromSlash(rel), "index.html"),
		filepath.Join(outDir, filepath.FromSlash(rel)),
		filepath.Join(outDir, filepath.FromSlash(rel)+".html"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
