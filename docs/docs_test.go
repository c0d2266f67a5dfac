package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ink-kai/inkworld/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestSplitFrontMatter(t *testing.T) {
	header, body := SplitFrontMatter([]byte("---\ntitle: Hi\n---\n# Body\n"))
	assert.Equal(t, "title: Hi\n", string(header))
	assert.Equal(t, "# Body\n", string(body))

	header, body = SplitFrontMatter([]byte("# No header\n---\n"))
	assert.Nil(t, header)
	assert.Equal(t, "# No header\n---\n", string(body))

	header, body = SplitFrontMatter([]byte("---\r\nid: x\r\n---\r\ntext"))
	assert.Equal(t, "id: x\r\n", string(header))
	assert.Equal(t, "text", string(body))

	// An unterminated header is treated as body.
	header, body = SplitFrontMatter([]byte("---\ntitle: x\n"))
	assert.Nil(t, header)
	assert.Equal(t, "---\ntitle: x\n", string(body))
}

func TestRenderCollectsHeadingsAndRewritesLinks(t *testing.T) {
	body := []byte("# Title\n\nFirst *paragraph* here.\n\n## Section One\n\nSee [next](next.md#top) and [site](https://example.com).\n\n### Deep\n")
	out := Render(body, func(dest string) (string, bool) {
		if dest == "next.md#top" {
			return "/docs/next#top", true
		}
		return "", false
	}, nil)

	assert.Equal(t, "Title", out.Title)
	assert.Equal(t, "First paragraph here.", out.Summary)
	require.Len(t, out.Headings, 3)
	assert.Equal(t, Heading{Level: 2, ID: "section-one", Text: "Section One"}, out.Headings[1])
	assert.Contains(t, string(out.HTML), `href="/docs/next#top"`)
	assert.Contains(t, string(out.HTML), `target="_blank"`)
}

func TestRenderHighlightsCode(t *testing.T) {
	body := []byte("```go\nfunc main() { return \"hi\" } // done\n```\n\n```sql\nselect 1;\n```\n\n```\nplain <b>\n```\n")

	out := Render(body, nil, NewHighlighter(nil))
	html := string(out.HTML)
	assert.Contains(t, html, `<pre class="prism-code language-go"><code class="language-go">`)
	assert.Contains(t, html, `<span class="token keyword">func</span>`)
	assert.Contains(t, html, `<span class="token string">&#34;hi&#34;</span>`)
	assert.Contains(t, html, `<span class="token comment">// done`)
	assert.NotContains(t, html, "language-sql\"><span")
	assert.Contains(t, html, "plain &lt;b&gt;")

	out = Render(body, nil, NewHighlighter([]string{"SQL"}))
	assert.Contains(t, string(out.HTML), `<pre class="prism-code language-sql">`)

	out = Render(body, nil, nil)
	assert.NotContains(t, string(out.HTML), "prism-code")
}

func TestHighlighterSupports(t *testing.T) {
	h := NewHighlighter([]string{"bash"})
	assert.True(t, h.Supports("Go"))
	assert.True(t, h.Supports("bash"))
	assert.False(t, h.Supports("powershell"))
	assert.False(t, h.Supports(""))

	var none *Highlighter
	assert.False(t, none.Supports("go"))
}

func TestIsMarkdownLink(t *testing.T) {
	file, frag, ok := IsMarkdownLink("../a/b.md#x")
	require.True(t, ok)
	assert.Equal(t, "../a/b.md", file)
	assert.Equal(t, "x", frag)

	_, _, ok = IsMarkdownLink("https://example.com/readme.md")
	assert.False(t, ok)
	_, _, ok = IsMarkdownLink("/img/logo.svg")
	assert.False(t, ok)
}

func TestLoadOrdersByPositionThenName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"guide/b.md":                "# B\n",
		"guide/a.md":                "# A\n",
		"guide/c.md":                "---\nsidebar_position: 1\n---\n# C\n",
		"guide/sub/x.md":            "# X\n",
		"guide/sub/_category_.yaml": "label: Sub Section\nposition: 2\n",
		"guide/empty/.keep":         "",
		"guide/_partial.md":         "# hidden\n",
		"guide/notes.txt":           "not markdown",
	})

	c, err := Load(root, Options{RoutePrefix: "/docs"})
	require.NoError(t, err)

	dir, ok := c.Dir("guide")
	require.True(t, ok)
	var names []string
	for _, e := range dir.Entries {
		names = append(names, e.name())
	}
	assert.Equal(t, []string{"c.md", "sub", "a.md", "b.md"}, names)
	assert.Equal(t, "Sub Section", dir.Entries[1].Dir.Label())

	_, ok = c.Dir("guide/empty")
	assert.False(t, ok)
	assert.False(t, c.Has("guide/_partial"))

	ids := []string{}
	for _, d := range c.DocsUnder("guide") {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"guide/c", "guide/sub/x", "guide/a", "guide/b"}, ids)
}

func TestLoadDocMetadata(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"intro.md":      "---\ntitle: Welcome\nsidebar_label: Start\ntags: [a]\n---\nHello **there**.\n\n## Setup\n",
		"db/index.md":   "# Database\n",
		"db/custom.md":  "---\nid: renamed\nslug: /special\n---\n# Custom\n",
		"db/rel.md":     "---\nslug: relative\n---\nbody\n",
		"draft.md":      "---\ndraft: true\n---\n# Draft\n",
		"component.mdx": "import Tabs from '@theme/Tabs';\n\n# Component\n\n```js\nimport x from 'y';\n```\n",
	})

	c, err := Load(root, Options{RoutePrefix: "/en/docs"})
	require.NoError(t, err)

	intro, ok := c.Get("intro")
	require.True(t, ok)
	assert.Equal(t, "Welcome", intro.Title)
	assert.Equal(t, "Start", intro.Label())
	assert.Equal(t, "Hello there.", intro.Description)
	assert.Equal(t, "/en/docs/intro", intro.Permalink)
	assert.False(t, intro.HasTitleHeading)
	assert.Equal(t, []Heading{{Level: 2, ID: "setup", Text: "Setup"}}, intro.TOC(2, 3))

	index, ok := c.Get("db/index")
	require.True(t, ok)
	assert.Equal(t, "/en/docs/db", index.Permalink)
	assert.Equal(t, "Database", index.Title)

	custom, ok := c.Get("db/renamed")
	require.True(t, ok)
	assert.Equal(t, "/en/docs/special", custom.Permalink)

	rel, ok := c.Get("db/rel")
	require.True(t, ok)
	assert.Equal(t, "/en/docs/db/relative", rel.Permalink)
	assert.Equal(t, "rel", rel.Title)

	assert.False(t, c.Has("draft"))

	mdx, ok := c.Get("component")
	require.True(t, ok)
	assert.NotContains(t, string(mdx.HTML), "@theme/Tabs")
	assert.Contains(t, string(mdx.HTML), "import x from")
}

func TestLoadIncludesDraftsOnRequest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"draft.md": "---\ndraft: true\n---\n# Draft\n"})

	c, err := Load(root, Options{IncludeDrafts: true})
	require.NoError(t, err)
	assert.True(t, c.Has("draft"))
}

func TestLoadMarkdownLinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/one.md": "[two](../b/two.md#part) [gone](missing.md)\n",
		"b/two.md": "# Two\n",
	})

	c, err := Load(root, Options{RoutePrefix: "/docs", OnBrokenMarkdownLinks: config.SeverityWarn})
	require.NoError(t, err)
	one, _ := c.Get("a/one")
	assert.Contains(t, string(one.HTML), `href="/docs/b/two#part"`)
	assert.Contains(t, string(one.HTML), `href="missing.md"`)

	_, err = Load(root, Options{RoutePrefix: "/docs", OnBrokenMarkdownLinks: config.SeverityThrow})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken markdown link")
}

func TestLoadSiteAbsoluteLinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/one.md": "[intro](/docs/intro) [cdn](//cdn.example.com/x.js) [two](../b/two.md)\n",
		"b/two.md": "# Two\n",
	})

	c, err := Load(root, Options{RoutePrefix: "/ink/en/docs", SitePrefix: "/ink/en/"})
	require.NoError(t, err)
	one, _ := c.Get("a/one")
	assert.Contains(t, string(one.HTML), `href="/ink/en/docs/intro"`)
	assert.Contains(t, string(one.HTML), `href="//cdn.example.com/x.js"`)
	assert.Contains(t, string(one.HTML), `href="/ink/en/docs/b/two"`)
}

func TestSiteLink(t *testing.T) {
	got, ok := SiteLink("/en/", "/docs/intro#top")
	require.True(t, ok)
	assert.Equal(t, "/en/docs/intro#top", got)

	for _, dest := range []string{"intro.md", "//cdn.example.com/a", "https://example.com/", "#top"} {
		_, ok := SiteLink("/en/", dest)
		assert.False(t, ok, dest)
	}
	_, ok = SiteLink("", "/docs/intro")
	assert.False(t, ok)
}

func TestLoadOverlay(t *testing.T) {
	root := t.TempDir()
	overlay := t.TempDir()
	writeTree(t, root, map[string]string{
		"intro.md": "# 介绍\n",
		"other.md": "# 其他\n",
	})
	writeTree(t, overlay, map[string]string{"intro.md": "# Introduction\n"})

	c, err := Load(root, Options{RoutePrefix: "/en/docs", OverlayDir: overlay})
	require.NoError(t, err)
	intro, _ := c.Get("intro")
	other, _ := c.Get("other")
	assert.Equal(t, "Introduction", intro.Title)
	assert.Equal(t, "其他", other.Title)
}

func TestLoadDuplicateIDs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.md": "# A\n",
		"b.md": "---\nid: a\n---\n# B\n",
	})
	_, err := Load(root, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate doc id "a"`)
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
}
