// Package site loads everything a build needs from a website directory:
// configuration, sidebars, docs and blog per locale, custom pages, UI strings
// and compiled theme assets.
package site

import (
	"log/slog"
	"path"
	"path/filepath"

	"github.com/ink-kai/inkworld/assets"
	"github.com/ink-kai/inkworld/blog"
	"github.com/ink-kai/inkworld/config"
	"github.com/ink-kai/inkworld/docs"
	"github.com/ink-kai/inkworld/i18n"
	"github.com/ink-kai/inkworld/sidebar"
	"github.com/pkg/errors"
)

// PagesDir holds standalone pages, relative to the site root.
const PagesDir = "src/pages"

type Options struct {
	Logger        *slog.Logger
	IncludeDrafts bool
	// LiveReload is the polling endpoint injected into pages. Empty disables
	// live reload.
	LiveReload string
}

// Locale is the content of a site rendered for one locale.
type Locale struct {
	ID     string
	Config config.LocaleConfig
	// Prefix is the URL prefix of the locale and always ends with "/".
	Prefix   string
	Docs     *docs.Collection
	Sidebars *sidebar.Resolved
	Blog     *blog.Blog
	Pages    []*Page
}

// Default reports whether l is served from the site root.
func (l *Locale) Default(cfg *config.SiteConfig) bool {
	return l.ID == cfg.I18n.DefaultLocale
}

type Site struct {
	Root     string
	Config   *config.SiteConfig
	Sidebars *sidebar.Definition
	// Locales are ordered as configured.
	Locales []*Locale
	Catalog *i18n.Catalog
	Assets  *assets.Bundle
	Options Options

	byID        map[string]*Locale
	highlighter *docs.Highlighter
}

// Locale returns the content of a locale.
func (s *Site) Locale(id string) (*Locale, bool) {
	l, ok := s.byID[id]
	return l, ok
}

// DefaultLocale returns the content served at the site root.
func (s *Site) DefaultLocale() *Locale {
	return s.byID[s.Config.I18n.DefaultLocale]
}

// StaticDirs returns the absolute static directories.
func (s *Site) StaticDirs() []string {
	dirs := make([]string, 0, len(s.Config.StaticDirectories))
	for _, d := range s.Config.StaticDirectories {
		dirs = append(dirs, filepath.Join(s.Root, filepath.FromSlash(d)))
	}
	return dirs
}

// Load reads and validates the site below root.
func Load(root string, opts Options) (*Site, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg, err := config.LoadFile(filepath.Join(root, config.DefaultFile))
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	s := &Site{
		Root:        root,
		Config:      cfg,
		Sidebars:    &sidebar.Definition{},
		Options:     opts,
		byID:        make(map[string]*Locale, len(cfg.I18n.Locales)),
		highlighter: docs.NewHighlighter(cfg.ThemeConfig.Prism.AdditionalLanguages),
	}

	if docsOpts := cfg.Docs(); docsOpts != nil {
		def, err := sidebar.LoadFile(filepath.Join(root, filepath.FromSlash(docsOpts.SidebarPath)))
		if err != nil {
			return nil, err
		}
		s.Sidebars = def
	}

	for _, id := range cfg.I18n.Locales {
		l, err := s.loadLocale(id)
		if err != nil {
			return nil, errors.Wrapf(err, "locale %s", id)
		}
		s.Locales = append(s.Locales, l)
		s.byID[id] = l
	}

	if err := s.validateReferences(); err != nil {
		return nil, err
	}

	if s.Catalog, err = i18n.Load(root, cfg); err != nil {
		return nil, err
	}

	var customCSS string
	if p := cfg.ClassicPreset(); p != nil && p.Theme != nil && p.Theme.CustomCSS != "" {
		customCSS = filepath.Join(root, filepath.FromSlash(p.Theme.CustomCSS))
	}
	if s.Assets, err = assets.CompileTheme(assets.Options{
		BaseURL:       cfg.BaseURL,
		CustomCSS:     customCSS,
		CodeTheme:     cfg.ThemeConfig.Prism.Theme,
		CodeDarkTheme: cfg.ThemeConfig.Prism.DarkTheme,
		Minify:        opts.LiveReload == "",
	}); err != nil {
		return nil, err
	}

	opts.Logger.Debug("site loaded", "root", root, "locales", len(s.Locales))
	return s, nil
}

func (s *Site) loadLocale(id string) (*Locale, error) {
	cfg := s.Config
	l := &Locale{
		ID:       id,
		Config:   cfg.LocaleConfig(id),
		Prefix:   i18n.Prefix(cfg, id),
		Sidebars: &sidebar.Resolved{},
	}
	logger := s.Options.Logger.With("locale", id)

	if d := cfg.Docs(); d != nil {
		collection, err := docs.Load(filepath.Join(s.Root, filepath.FromSlash(d.Path)), docs.Options{
			RoutePrefix:           path.Join(l.Prefix, d.RouteBasePath),
			SitePrefix:            l.Prefix,
			OverlayDir:            i18n.DocsOverlayDir(s.Root, id),
			IncludeDrafts:         s.Options.IncludeDrafts,
			OnBrokenMarkdownLinks: cfg.OnBrokenMarkdownLinks,
			Highlighter:           s.highlighter,
			Logger:                logger,
		})
		if err != nil {
			return nil, err
		}
		l.Docs = collection

		// Drafts may be filtered out, so the definition is checked against
		// what was actually loaded.
		if err := sidebar.Validate(s.Sidebars, collection); err != nil {
			return nil, err
		}
		if l.Sidebars, err = sidebar.Resolve(s.Sidebars, collection); err != nil {
			return nil, err
		}
	}

	if b := cfg.Blog(); b != nil {
		posts, err := blog.Load(filepath.Join(s.Root, filepath.FromSlash(b.Path)), blog.Options{
			RoutePrefix:   path.Join(l.Prefix, b.RouteBasePath),
			SitePrefix:    l.Prefix,
			OverlayDir:    i18n.BlogOverlayDir(s.Root, id),
			IncludeDrafts: s.Options.IncludeDrafts,
			Blog:          *b,
			Highlighter:   s.highlighter,
			Logger:        logger,
		})
		if err != nil {
			return nil, err
		}
		l.Blog = posts
	}

	pages, err := loadPages(filepath.Join(s.Root, filepath.FromSlash(PagesDir)),
		filepath.Join(s.Root, i18n.Dir, id, "pages"), l.Prefix, s.highlighter)
	if err != nil {
		return nil, err
	}
	l.Pages = pages
	return l, nil
}

// validateReferences checks navbar items against the loaded sidebars and
// docs of the default locale.
func (s *Site) validateReferences() error {
	v := &config.ValidationError{Subject: "navbar"}
	def := s.DefaultLocale()
	for i, item := range s.Config.ThemeConfig.Navbar.Items {
		switch item.Kind() {
		case config.NavbarItemDocSidebar:
			if _, ok := s.Sidebars.Get(item.SidebarID); !ok {
				v.Addf("items[%d]: sidebar %q is not declared", i, item.SidebarID)
			}
		case config.NavbarItemDoc:
			if def.Docs == nil || !def.Docs.Has(item.DocID) {
				v.Addf("items[%d]: doc %q does not exist", i, item.DocID)
			}
		}
	}
	return v.Err()
}
