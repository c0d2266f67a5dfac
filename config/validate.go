package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// PresetClassic is the only preset the generator understands.
const PresetClassic = "classic"

// CalendarGregory is the only calendar dates are formatted in.
const CalendarGregory = "gregory"

// Feed types accepted in blog feed options.
const (
	FeedRSS  = "rss"
	FeedAtom = "atom"
)

// ValidationError lists every problem found in one artifact.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Addf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Err returns e when it holds problems and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

type severityField struct {
	name string
	sev  ReportingSeverity
}

// Validate checks the configuration shape. Cross references into the sidebar
// definition and the docs tree are checked by the site loader.
func Validate(cfg *SiteConfig) error {
	v := &ValidationError{Subject: "site configuration"}

	if strings.TrimSpace(cfg.Title) == "" {
		v.Addf("title must not be empty")
	}
	validateURLs(cfg, v)

	for _, f := range []severityField{
		{"on_broken_links", cfg.OnBrokenLinks},
		{"on_broken_markdown_links", cfg.OnBrokenMarkdownLinks},
	} {
		if !f.sev.Valid() {
			v.Addf("%s: unknown severity %q", f.name, f.sev)
		}
	}

	validateI18n(&cfg.I18n, v)
	validatePresets(cfg, v)
	validateThemeConfig(&cfg.ThemeConfig, v)

	return v.Err()
}

func validateURLs(cfg *SiteConfig, v *ValidationError) {
	u, err := url.Parse(cfg.URL)
	switch {
	case cfg.URL == "":
		v.Addf("url must not be empty")
	case err != nil:
		v.Addf("url %q: %v", cfg.URL, err)
	case u.Scheme != "http" && u.Scheme != "https":
		v.Addf("url %q must use http or https", cfg.URL)
	case u.Host == "":
		v.Addf("url %q has no host", cfg.URL)
	case u.Path != "" && u.Path != "/":
		v.Addf("url %q must not contain a path, use base_url", cfg.URL)
	}

	if !strings.HasPrefix(cfg.BaseURL, "/") || !strings.HasSuffix(cfg.BaseURL, "/") {
		v.Addf("base_url %q must start and end with /", cfg.BaseURL)
	}
}

func validateI18n(i *I18n, v *ValidationError) {
	seen := make(map[string]bool, len(i.Locales))
	for _, id := range i.Locales {
		if seen[id] {
			v.Addf("i18n: duplicate locale %q", id)
			continue
		}
		seen[id] = true

		lc, ok := i.LocaleConfigs[id]
		if !ok {
			v.Addf("i18n: locale %q has no locale config", id)
			continue
		}
		if strings.TrimSpace(lc.Label) == "" {
			v.Addf("i18n: locale %q has no label", id)
		}
		if lc.HTMLLang == "" {
			v.Addf("i18n: locale %q has no html_lang", id)
		} else if _, err := language.Parse(lc.HTMLLang); err != nil {
			v.Addf("i18n: locale %q html_lang %q is not a language tag", id, lc.HTMLLang)
		}
		if lc.Direction != "" && lc.Direction != "ltr" && lc.Direction != "rtl" {
			v.Addf("i18n: locale %q direction must be ltr or rtl", id)
		}
		if lc.Calendar != "" && lc.Calendar != CalendarGregory {
			v.Addf("i18n: locale %q calendar %q is not supported, use %q", id, lc.Calendar, CalendarGregory)
		}
		if strings.Contains(lc.Path, "/") {
			v.Addf("i18n: locale %q path %q must be a single segment", id, lc.Path)
		}
	}
	if !seen[i.DefaultLocale] {
		v.Addf("i18n: default locale %q is not listed in locales", i.DefaultLocale)
	}
	ids := make([]string, 0, len(i.LocaleConfigs))
	for id := range i.LocaleConfigs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !seen[id] {
			v.Addf("i18n: locale config %q is not listed in locales", id)
		}
	}
}

func validatePresets(cfg *SiteConfig, v *ValidationError) {
	classic := 0
	for _, p := range cfg.Presets {
		if p.Name != PresetClassic {
			v.Addf("presets: unsupported preset %q", p.Name)
			continue
		}
		classic++
		if p.Blog == nil {
			continue
		}
		for _, t := range p.Blog.FeedOptions.Types {
			if t != FeedRSS && t != FeedAtom {
				v.Addf("presets: unknown blog feed type %q", t)
			}
		}
		for _, f := range []severityField{
			{"on_inline_tags", p.Blog.OnInlineTags},
			{"on_inline_authors", p.Blog.OnInlineAuthors},
			{"on_untruncated_blog_posts", p.Blog.OnUntruncatedBlogPosts},
		} {
			if !f.sev.Valid() {
				v.Addf("presets: blog %s: unknown severity %q", f.name, f.sev)
			}
		}
		if p.Docs != nil && p.Docs.RouteBasePath == p.Blog.RouteBasePath {
			v.Addf("presets: docs and blog share route base path %q", p.Blog.RouteBasePath)
		}
	}
	if classic != 1 {
		v.Addf("presets: exactly one %q preset is required, found %d", PresetClassic, classic)
	}
}

func validateThemeConfig(t *ThemeConfig, v *ValidationError) {
	toc := t.TableOfContents
	if toc.MinHeadingLevel < 2 || toc.MaxHeadingLevel > 6 || toc.MinHeadingLevel > toc.MaxHeadingLevel {
		v.Addf("table_of_contents: levels must satisfy 2 <= min (%d) <= max (%d) <= 6",
			toc.MinHeadingLevel, toc.MaxHeadingLevel)
	}

	switch t.ColorMode.DefaultMode {
	case "light", "dark":
	default:
		v.Addf("color_mode: default_mode %q must be light or dark", t.ColorMode.DefaultMode)
	}

	if t.AnnouncementBar != nil && t.AnnouncementBar.ID == "" {
		v.Addf("announcement_bar: id must not be empty")
	}

	for i, item := range t.Navbar.Items {
		switch item.Position {
		case "", "left", "right":
		default:
			v.Addf("navbar item %d: unknown position %q", i, item.Position)
		}
		switch item.Kind() {
		case NavbarItemDefault:
			if item.To == "" && item.Href == "" {
				v.Addf("navbar item %d (%s): needs to or href", i, item.Label)
			}
		case NavbarItemDocSidebar:
			if item.SidebarID == "" {
				v.Addf("navbar item %d (%s): docSidebar needs sidebar_id", i, item.Label)
			}
		case NavbarItemDoc:
			if item.DocID == "" {
				v.Addf("navbar item %d (%s): doc needs doc_id", i, item.Label)
			}
		case NavbarItemLocaleDropdown, NavbarItemSearch:
		default:
			v.Addf("navbar item %d: unknown type %q", i, item.Type)
		}
	}

	for _, group := range t.Footer.Links {
		for _, link := range group.Items {
			if link.To == "" && link.Href == "" {
				v.Addf("footer %q: link %q needs to or href", group.Title, link.Label)
			}
		}
	}
}
