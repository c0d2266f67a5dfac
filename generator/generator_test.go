package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ink-kai/inkworld/metrics"
	"github.com/ink-kai/inkworld/site"
	"github.com/ink-kai/inkworld/site/sitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSite(t *testing.T, extra map[string]string) *site.Site {
	t.Helper()
	s, err := site.Load(sitetest.Write(t, extra), site.Options{})
	require.NoError(t, err)
	return s
}

func readOut(t *testing.T, out, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
	require.NoError(t, err, rel)
	return string(data)
}

func TestBuild(t *testing.T) {
	s := loadSite(t, nil)
	out := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.html"), []byte("old"), 0o644))

	report, err := Build(context.Background(), s, out, Options{})
	require.NoError(t, err)
	assert.Empty(t, report.BrokenLinks)
	assert.Equal(t, 1, report.StaticFiles)

	for _, route := range []string{
		"/",
		"/en/",
		"/docs/docusaurus/intro",
		"/en/docs/docusaurus/intro",
		"/blog",
		"/blog/page/2",
		"/blog/tags",
		"/about",
		"/friends",
	} {
		assert.Contains(t, report.Pages, route)
	}

	assert.NoFileExists(t, filepath.Join(out, "stale.html"))
	assert.Contains(t, readOut(t, out, "docs/docusaurus/intro/index.html"), "<h1")
	assert.Contains(t, readOut(t, out, "en/docs/docusaurus/intro/index.html"), "Introduction")
	assert.Contains(t, readOut(t, out, "friends/index.html"), "<h1>Ink Test</h1>")
	assert.Contains(t, readOut(t, out, "blog/rss.xml"), "<rss")
	assert.Contains(t, readOut(t, out, "blog/atom.xml"), "http://www.w3.org/2005/Atom")
	assert.Contains(t, readOut(t, out, "blog/rss.xsl"), "xsl:stylesheet")
	assert.Contains(t, readOut(t, out, "sitemap.xml"), "https://docs.example.com/docs/docusaurus/intro")
	assert.Contains(t, readOut(t, out, "img/logo.svg"), "<svg")
	assert.Contains(t, readOut(t, out, NotFoundFile), "<html")

	assert.FileExists(t, filepath.Join(out, filepath.FromSlash(strings.TrimPrefix(s.Assets.Script.Path, "/"))))
	assert.FileExists(t, filepath.Join(out, filepath.FromSlash(strings.TrimPrefix(s.Assets.Style.Path, "/"))))
}

func TestBuildAutogeneratedDocs(t *testing.T) {
	s := loadSite(t, map[string]string{
		"docs/docusaurus/c-third.md":         "# Third\n\nLast.\n",
		"docs/docusaurus/guides/advanced.md": "---\nsidebar_position: 1\n---\n# Advanced\n\nDeep.\n",
	})
	out := t.TempDir()

	report, err := Build(context.Background(), s, out, Options{})
	require.NoError(t, err)

	// Every doc in the autogenerated directory is generated and listed in
	// filesystem order on its own page.
	intro := readOut(t, out, "docs/docusaurus/intro/index.html")
	last := -1
	for _, id := range []string{
		"docusaurus/intro",
		"docusaurus/guides/advanced",
		"docusaurus/guides/setup",
		"docusaurus/a-first",
		"docusaurus/b-second",
		"docusaurus/c-third",
	} {
		route := "/docs/" + id
		assert.Contains(t, report.Pages, route)
		assert.FileExists(t, filepath.Join(out, "docs", filepath.FromSlash(id), "index.html"))

		idx := strings.Index(intro, `href="`+route+`"`)
		require.GreaterOrEqual(t, idx, 0, route)
		assert.Greater(t, idx, last, route)
		last = idx
	}
}

func TestBuildBaseURL(t *testing.T) {
	cfg := strings.Replace(sitetest.Config, "base_url: /\n", "base_url: /ink/\n", 1)
	cfg = strings.Replace(cfg, "      - href: https://github.com/ink-kai\n",
		"      - href: /about\n        label: About\n        position: right\n      - href: https://github.com/ink-kai\n", 1)
	s := loadSite(t, map[string]string{"site.yaml": cfg})
	out := t.TempDir()

	report, err := Build(context.Background(), s, out, Options{})
	require.NoError(t, err)
	assert.Empty(t, report.BrokenLinks)
	assert.Contains(t, report.Pages, "/ink/en/about")

	home := readOut(t, out, "index.html")
	assert.Contains(t, home, `href="/ink/about">About</a>`)
	assert.NotContains(t, home, `href="/about"`)

	query := readOut(t, out, "en/docs/database/optimization/query/index.html")
	assert.Contains(t, query, `href="/ink/en/about">About</a>`)
	assert.Contains(t, query, `href="/ink/en/docs/docusaurus/intro"`)
}

func TestBuildBrokenLinks(t *testing.T) {
	s := loadSite(t, map[string]string{
		"src/pages/broken.md": "# Broken\n\n[nowhere](/missing/page)\n",
	})

	_, err := Build(context.Background(), s, t.TempDir(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing/page")
}

func TestBuildBrokenLinksWarn(t *testing.T) {
	root := sitetest.Write(t, map[string]string{
		"site.yaml":           strings.Replace(sitetest.Config, "on_broken_links: throw", "on_broken_links: warn", 1),
		"src/pages/broken.md": "# Broken\n\n[nowhere](/missing/page)\n",
	})
	s, err := site.Load(root, site.Options{})
	require.NoError(t, err)
	m := metrics.New()

	report, err := Build(context.Background(), s, t.TempDir(), Options{Metrics: m})
	require.NoError(t, err)
	require.NotEmpty(t, report.BrokenLinks)
	assert.Equal(t, "/missing/page", report.BrokenLinks[0].Link)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "inkworld_broken_links_total" {
			found = true
			assert.GreaterOrEqual(t, mf.GetMetric()[0].GetCounter().GetValue(), 1.0)
		}
	}
	assert.True(t, found)
}

func TestBuildCanceled(t *testing.T) {
	s := loadSite(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, s, t.TempDir(), Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildRefusesSiteRoot(t *testing.T) {
	s := loadSite(t, nil)

	_, err := Build(context.Background(), s, s.Root, Options{})
	require.Error(t, err)
	_, err = Build(context.Background(), s, filepath.Dir(s.Root), Options{})
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(s.Root, "site.yaml"))
}

func TestOutputPath(t *testing.T) {
	out := filepath.FromSlash("/out")
	assert.Equal(t, filepath.FromSlash("/out/index.html"), outputPath(out, "/", "/"))
	assert.Equal(t, filepath.FromSlash("/out/docs/intro/index.html"), outputPath(out, "/", "/docs/intro"))
	assert.Equal(t, filepath.FromSlash("/out/docs/db/index.html"), outputPath(out, "/", "/docs/db/"))
	assert.Equal(t, filepath.FromSlash("/out/blog/rss.xml"), outputPath(out, "/", "/blog/rss.xml"))
	assert.Equal(t, filepath.FromSlash("/out/404.html"), outputPath(out, "/", "/404.html"))
	assert.Equal(t, filepath.FromSlash("/out/index.html"), outputPath(out, "/ink/", "/ink/"))
	assert.Equal(t, filepath.FromSlash("/out/en/docs/intro/index.html"), outputPath(out, "/ink/", "/ink/en/docs/intro"))
}
