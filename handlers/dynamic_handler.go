package handlers

import (
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gobuffalo/plush"
	"github.com/gorilla/mux"
	"github.com/ink-kai/inkworld/blog"
	"github.com/ink-kai/inkworld/metrics"
	"github.com/ink-kai/inkworld/site"
	"github.com/ink-kai/inkworld/utils"
	"github.com/pkg/errors"
)

// StaticRouteName names the catch-all route serving static directories.
// It has no pages of its own, so the generator skips it.
const StaticRouteName = "static"

type renderer struct {
	site      *site.Site
	metrics   *metrics.Metrics
	templates map[string]*plush.Template

	registeredRoutes []string
}

// SetupRouter registers every page of s: per locale the home page, docs,
// blog lists, posts, tag pages and feeds, and custom pages; then theme
// assets, the sitemap, static files and the 404 page. m may be nil.
func SetupRouter(s *site.Site, m *metrics.Metrics) (*mux.Router, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	rd := &renderer{site: s, metrics: m, templates: templates}

	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = http.HandlerFunc(rd.notFound)

	for _, l := range s.Locales {
		if err := rd.setupLocale(router, l); err != nil {
			return nil, errors.Wrapf(err, "locale %s", l.ID)
		}
	}

	for _, a := range s.Assets.All() {
		router.HandleFunc(a.Path, serveBytes(a.Contents, a.ContentType, true)).Methods(http.MethodGet, http.MethodHead)
	}

	sitemap, err := utils.GenerateSitemapContent(s.Config.URL, rd.registeredRoutes, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "error generating sitemap")
	}
	router.HandleFunc(path.Join(s.Config.BaseURL, "sitemap.xml"),
		serveBytes(sitemap, "application/xml; charset=utf-8", false)).Methods(http.MethodGet, http.MethodHead)

	router.PathPrefix(s.Config.BaseURL).Handler(rd.static()).Name(StaticRouteName)
	return router, nil
}

func (rd *renderer) setupLocale(router *mux.Router, l *site.Locale) error {
	t := rd.templates

	if home, ok := l.Home(); ok {
		p, err := newCustomPage(home)
		if err != nil {
			return err
		}
		rd.handle(router, l, l.Prefix, p)
	} else {
		rd.handle(router, l, l.Prefix, &homePage{tmpl: t[tmplHome]})
	}

	if l.Docs != nil {
		for _, doc := range l.Docs.All() {
			rd.handle(router, l, doc.Permalink, &docPage{doc: doc, tmpl: t[tmplDoc]})
		}
	}

	if b := l.Blog; b != nil {
		pages := b.Pages()
		for i, posts := range pages {
			p := &blogListPage{blog: b, posts: posts, tmpl: t[tmplBlogList]}
			if i > 0 {
				p.newer = b.PagePath(i - 1)
			}
			if i+1 < len(pages) {
				p.older = b.PagePath(i + 1)
			}
			rd.handle(router, l, b.PagePath(i), p)
		}
		for _, post := range b.Posts {
			rd.handle(router, l, post.Permalink, &blogPostPage{blog: b, post: post, tmpl: t[tmplBlogPost]})
		}
		if tags := b.TagNames(); len(tags) > 0 {
			rd.handle(router, l, path.Join(b.RoutePrefix, "tags"), &blogTagsPage{blog: b, tmpl: t[tmplBlogTags]})
			for _, tag := range tags {
				rd.handle(router, l, b.TagPath(tag), &blogListPage{blog: b, posts: b.PostsTagged(tag), tag: tag, tmpl: t[tmplBlogList]})
			}
		}
		if err := rd.setupFeeds(router, l); err != nil {
			return err
		}
	}

	for _, page := range l.Pages {
		if page.Route == l.Prefix {
			continue
		}
		p, err := newCustomPage(page)
		if err != nil {
			return err
		}
		rd.handle(router, l, page.Route, p)
	}
	return nil
}

func (rd *renderer) setupFeeds(router *mux.Router, l *site.Locale) error {
	cfg := rd.site.Config
	opts := cfg.Blog().FeedOptions
	meta := blog.FeedMeta{
		Title:       firstNonEmpty(opts.Title, cfg.Title),
		Description: firstNonEmpty(opts.Description, cfg.Tagline),
		SiteURL:     cfg.URL,
		Language:    l.Config.HTMLLang,
		Copyright:   cfg.ThemeConfig.Footer.CopyrightFor(time.Now().Year()),
	}

	for _, kind := range opts.Types {
		body, err := l.Blog.Feed(kind, meta)
		if err != nil {
			return errors.Wrapf(err, "generating %s feed", kind)
		}
		router.HandleFunc(path.Join(l.Blog.RoutePrefix, blog.FeedFile(kind)),
			serveBytes(body, "application/xml; charset=utf-8", false)).Methods(http.MethodGet, http.MethodHead)
		if opts.XSLT {
			name, xsl := blog.Stylesheet(kind)
			router.HandleFunc(path.Join(l.Blog.RoutePrefix, name),
				serveBytes(xsl, "text/xsl; charset=utf-8", false)).Methods(http.MethodGet, http.MethodHead)
		}
	}
	return nil
}

func newCustomPage(page *site.Page) (*customPage, error) {
	p := &customPage{page: page}
	if page.Kind == site.PagePlush {
		t, err := plush.Parse(page.Template)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing page %s", page.Source)
		}
		p.tmpl = t
	}
	return p, nil
}

func (rd *renderer) handle(router *mux.Router, l *site.Locale, route string, p Page) {
	router.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		rd.serve(w, l, route, http.StatusOK, p)
	}).Methods(http.MethodGet, http.MethodHead)
	rd.registeredRoutes = append(rd.registeredRoutes, route)
}

// serve renders p into the layout and writes it with status.
func (rd *renderer) serve(w http.ResponseWriter, l *site.Locale, current string, status int, p Page) {
	v := rd.newView(l, current)
	content, err := p.Render(v)
	if err == nil {
		err = v.layoutVars(content)
	}
	var page template.HTML
	if err == nil {
		page, err = exec(rd.templates[tmplLayout], v.ctx)
	}
	if err != nil {
		rd.site.Options.Logger.Error("Error rendering page", "path", current, "kind", p.Kind(), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		rd.metrics.PageRendered(p.Kind(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, string(page)); err != nil {
		rd.site.Options.Logger.Debug("Error writing response", "path", current, "error", err)
	}
	rd.metrics.PageRendered(p.Kind(), status)
}

func serveBytes(body []byte, contentType string, immutable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		if immutable {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		_, _ = w.Write(body)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
