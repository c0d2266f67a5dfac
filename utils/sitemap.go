package utils

import (
	"encoding/xml"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemapContent lists routes as absolute URLs below siteURL.
// Routes are sorted and duplicates dropped. A zero lastMod omits <lastmod>.
func GenerateSitemapContent(siteURL string, routes []string, lastMod time.Time) ([]byte, error) {
	origin := strings.TrimRight(siteURL, "/")
	sitemap := Sitemap{Xmlns: sitemapNS}

	sorted := append([]string(nil), routes...)
	sort.Strings(sorted)
	for i, route := range sorted {
		if i > 0 && sorted[i-1] == route {
			continue
		}
		u := Url{
			Loc:        origin + (&url.URL{Path: route}).EscapedPath(),
			ChangeFreq: "weekly",
			Priority:   "0.5",
		}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.Format("2006-01-02")
		}
		sitemap.Urls = append(sitemap.Urls, u)
	}

	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append([]byte(xml.Header), out...), nil
}
