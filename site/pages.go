package site

import (
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ink-kai/inkworld/docs"
	"github.com/pkg/errors"
)

// PlushExt marks a page rendered as a plush template.
const PlushExt = ".plush.html"

type PageKind int

const (
	PageMarkdown PageKind = iota
	PagePlush
)

// Page is a standalone page from src/pages.
type Page struct {
	Route       string
	Source      string
	Kind        PageKind
	Title       string
	Description string
	// HTML is set for markdown pages.
	HTML template.HTML
	// Template is the raw plush source of plush pages.
	Template string
}

func pageName(rel string) (string, PageKind, bool) {
	lower := strings.ToLower(rel)
	switch {
	case strings.HasSuffix(lower, PlushExt):
		return rel[:len(rel)-len(PlushExt)], PagePlush, true
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".mdx"):
		return strings.TrimSuffix(rel, path.Ext(rel)), PageMarkdown, true
	}
	return "", 0, false
}

func loadPages(root, overlay, prefix string, hl *docs.Highlighter) ([]*Page, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var pages []*Page
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		base, kind, ok := pageName(rel)
		if !ok {
			return nil
		}

		source := p
		if overlay != "" {
			translated := filepath.Join(overlay, filepath.FromSlash(rel))
			if _, err := os.Stat(translated); err == nil {
				source = translated
			}
		}
		page, err := readPage(source, kind, prefix, hl)
		if err != nil {
			return err
		}
		if path.Base(base) == "index" {
			base = path.Dir(base)
		}
		page.Route = path.Join(prefix, base)
		if base == "." {
			page.Route = prefix
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return pages, nil
}

func readPage(source string, kind PageKind, prefix string, hl *docs.Highlighter) (*Page, error) {
	content, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	page := &Page{Source: source, Kind: kind}

	if kind == PagePlush {
		page.Template = string(content)
		return page, nil
	}

	var fm docs.FrontMatter
	body, err := docs.ParseFrontMatter(content, &fm)
	if err != nil {
		return nil, errors.Wrapf(err, "page %s", source)
	}
	out := docs.Render(body, func(dest string) (string, bool) {
		return docs.SiteLink(prefix, dest)
	}, hl)
	page.HTML = out.HTML
	page.Title = fm.Title
	if page.Title == "" {
		page.Title = out.Title
	}
	page.Description = fm.Description
	if page.Description == "" {
		page.Description = out.Summary
	}
	return page, nil
}

// Home returns the page served at the locale root, if any.
func (l *Locale) Home() (*Page, bool) {
	for _, p := range l.Pages {
		if p.Route == l.Prefix {
			return p, true
		}
	}
	return nil, false
}
