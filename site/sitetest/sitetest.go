// Package sitetest writes small website fixtures for tests.
package sitetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Config is the site.yaml written by Write.
const Config = `
title: Ink Test
tagline: Notes on databases
url: https://docs.example.com
base_url: /
on_broken_links: throw
on_broken_markdown_links: throw
i18n:
  default_locale: zh
  locales: [zh, en]
  locale_configs:
    zh:
      label: 简体中文
      html_lang: zh-CN
    en:
      label: English
      html_lang: en-US
presets:
  - name: classic
    docs: {}
    blog:
      show_reading_time: true
      posts_per_page: 1
      on_untruncated_blog_posts: ignore
      feed_options:
        xslt: true
    theme:
      custom_css: src/css/custom.css
theme_config:
  announcement_bar:
    id: welcome
    content: Welcome aboard
    is_closeable: true
  navbar:
    title: Ink
    logo:
      alt: Ink logo
      src: img/logo.svg
    items:
      - type: docSidebar
        sidebar_id: tutorialSidebar
        label: Tutorial
        position: left
      - type: doc
        doc_id: database/optimization/index
        label: Database
        position: left
      - to: /blog
        label: Blog
        position: left
      - href: https://github.com/ink-kai
        label: GitHub
        position: right
      - type: localeDropdown
        position: right
  footer:
    style: dark
    links:
      - title: Docs
        items:
          - label: Tutorial
            to: /docs/docusaurus/intro
    copyright: Copyright © {year} Ink
`

// Sidebars is the sidebars.yaml written by Write.
const Sidebars = `
tutorialSidebar:
  - type: autogenerated
    dir_name: docusaurus
databaseSidebar:
  - type: category
    label: Optimization
    items:
      - database/optimization/index
      - database/optimization/query
`

// Files maps fixture paths to their contents.
var Files = map[string]string{
	"docs/docusaurus/intro.md":               "---\nsidebar_position: 1\n---\n# Intro\n\nStart here.\n\n## Install\n\nRun it.\n",
	"docs/docusaurus/b-second.md":            "# Second\n\nMore.\n",
	"docs/docusaurus/a-first.md":             "# First\n\nSee [intro](./intro.md).\n",
	"docs/docusaurus/guides/_category_.yaml": "label: Guides\nposition: 2\n",
	"docs/docusaurus/guides/setup.md":        "# Setup\n\nSetting up.\n",
	"docs/database/optimization/index.md":    "---\ntitle: Optimization overview\n---\nWhy it matters.\n",
	"docs/database/optimization/query.md":    "# Query optimization\n\nBack to [overview](./index.md) and the [tutorial](/docs/docusaurus/intro).\n",
	"blog/2024-01-05-hello.md":               "---\ntitle: Hello\ntags: [intro]\n---\nFirst words.\n\n<!-- truncate -->\n\nThe rest.\n",
	"blog/2024-02-01-second.md":              "---\ntitle: Second post\n---\nNo marker here.\n",
	"src/pages/about.md":                     "---\ntitle: About\n---\n# About\n\nWho we are.\n",
	"src/pages/friends.plush.html":           "<h1><%= siteTitle %></h1>\n<p>Friends</p>\n",
	"src/css/custom.css":                     ".hero { padding: 2rem; }\n",
	"static/img/logo.svg":                    "<svg xmlns=\"http://www.w3.org/2000/svg\"/>\n",
	"i18n/en/docs/docusaurus/intro.md":       "---\nsidebar_position: 1\n---\n# Introduction\n\nStart here.\n\n## Install\n\nRun it.\n",
	"i18n/en/code.yaml":                      "theme.toc.title: Contents\n",
}

// Write creates the fixture site in a temporary directory and returns its
// root. extra files are written on top of the defaults.
func Write(t testing.TB, extra map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"site.yaml":     Config,
		"sidebars.yaml": Sidebars,
	}
	for name, content := range Files {
		files[name] = content
	}
	for name, content := range extra {
		files[name] = content
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}
