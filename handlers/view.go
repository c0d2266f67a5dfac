package handlers

import (
	"html"
	"html/template"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/gobuffalo/plush"
	"github.com/ink-kai/inkworld/blog"
	"github.com/ink-kai/inkworld/config"
	"github.com/ink-kai/inkworld/docs"
	"github.com/ink-kai/inkworld/sidebar"
	"github.com/ink-kai/inkworld/site"
)

// view collects what a page contributes to the layout while it renders.
type view struct {
	ctx    *plush.Context
	site   *site.Site
	locale *site.Locale
	path   string

	title       string
	description string
	sidebarID   string
	sidebar     []sidebar.Entry
	toc         []docs.Heading
}

type feedLink struct {
	Type  string
	Title string
	Href  string
}

type footerGroup struct {
	Label string
	Items []template.HTML
}

func (rd *renderer) newView(l *site.Locale, current string) *view {
	v := &view{
		ctx:    plush.NewContext(),
		site:   rd.site,
		locale: l,
		path:   current,
	}
	cfg := rd.site.Config
	v.ctx.Set("t", v.t)
	v.ctx.Set("siteTitle", cfg.Title)
	v.ctx.Set("tagline", cfg.Tagline)
	v.ctx.Set("homeHref", l.Prefix)
	v.ctx.Set("lang", l.ID)
	v.ctx.Set("currentPath", current)
	return v
}

// t translates a UI string for the view's locale.
func (v *view) t(key string) string {
	return v.site.Catalog.T(v.locale.ID, key)
}

// tf translates key and substitutes {name} placeholders.
func (v *view) tf(key string, args map[string]string) string {
	s := v.t(key)
	for k, val := range args {
		s = strings.ReplaceAll(s, "{"+k+"}", val)
	}
	return s
}

// localize maps a site-relative "to" link into the view's locale.
func (v *view) localize(to string) string {
	if isExternal(to) {
		return to
	}
	return v.locale.Prefix + strings.TrimPrefix(to, "/")
}

// alternate returns the path of the current page in another locale.
func (v *view) alternate(other *site.Locale) string {
	return other.Prefix + strings.TrimPrefix(v.path, v.locale.Prefix)
}

func (v *view) layoutVars(content template.HTML) error {
	cfg := v.site.Config
	theme := cfg.ThemeConfig
	ctx := v.ctx

	ctx.Set("yield", content)
	ctx.Set("htmlLang", v.locale.Config.HTMLLang)
	ctx.Set("direction", v.locale.Config.Direction)

	title := cfg.Title
	if v.title != "" && v.title != cfg.Title {
		title = v.title + " | " + cfg.Title
	}
	ctx.Set("pageTitle", title)
	ctx.Set("hasDescription", v.description != "")
	ctx.Set("description", v.description)
	ctx.Set("canonical", strings.TrimRight(cfg.URL, "/")+v.path)
	ctx.Set("hasImage", theme.Image != "")
	ctx.Set("image", absoluteURL(cfg.URL, v.asset(theme.Image)))
	ctx.Set("hasFavicon", cfg.Favicon != "")
	ctx.Set("favicon", path.Join(cfg.BaseURL, cfg.Favicon))

	ctx.Set("colorMode", theme.ColorMode.DefaultMode)
	ctx.Set("respectPrefers", boolAttr(theme.ColorMode.RespectPrefersColorScheme))
	ctx.Set("autoCollapse", boolAttr(theme.Docs.Sidebar.AutoCollapseCategories))
	ctx.Set("sidebarHideable", theme.Docs.Sidebar.Hideable)
	ctx.Set("hideOnScroll", boolAttr(theme.Navbar.HideOnScroll))
	ctx.Set("colorToggle", !theme.ColorMode.DisableSwitch)
	ctx.Set("liveReload", v.site.Options.LiveReload)
	ctx.Set("styleHref", v.site.Assets.Style.Path)
	ctx.Set("scriptSrc", v.site.Assets.Script.Path)
	ctx.Set("headTags", headTags(cfg.HeadTags, cfg.BaseURL))

	var alternates []link
	for _, other := range v.site.Locales {
		alternates = append(alternates, link{Lang: other.Config.HTMLLang, Href: v.alternate(other)})
	}
	ctx.Set("alternates", alternates)
	ctx.Set("feeds", v.feeds())

	bar := theme.AnnouncementBar
	ctx.Set("hasAnnouncement", bar != nil)
	if bar == nil {
		bar = &config.AnnouncementBar{}
	}
	ctx.Set("announcement", *bar)
	ctx.Set("announcementContent", template.HTML(bar.Content))

	if err := v.navbarVars(); err != nil {
		return err
	}

	hasSidebar := len(v.sidebar) > 0
	ctx.Set("hasSidebar", hasSidebar)
	ctx.Set("sidebar", template.HTML(""))
	if hasSidebar {
		out, err := renderSidebar(v.sidebar, v.path, v.locale.Prefix)
		if err != nil {
			return err
		}
		ctx.Set("sidebar", out)
	}
	ctx.Set("hasTOC", len(v.toc) > 0)
	ctx.Set("toc", template.HTML(""))
	if len(v.toc) > 0 {
		out, err := renderTOC(v.toc)
		if err != nil {
			return err
		}
		ctx.Set("toc", out)
	}

	return v.footerVars()
}

func (v *view) feeds() []feedLink {
	b := v.locale.Blog
	opts := v.site.Config.Blog()
	if b == nil || opts == nil {
		return nil
	}
	var out []feedLink
	for _, kind := range opts.FeedOptions.Types {
		typ := "application/rss+xml"
		if kind == config.FeedAtom {
			typ = "application/atom+xml"
		}
		out = append(out, feedLink{
			Type:  typ,
			Title: v.site.Config.Title + " " + strings.ToUpper(kind),
			Href:  path.Join(b.RoutePrefix, blog.FeedFile(kind)),
		})
	}
	return out
}

func (v *view) navbarVars() error {
	cfg := v.site.Config
	nav := cfg.ThemeConfig.Navbar
	ctx := v.ctx

	ctx.Set("navTitle", nav.Title)
	ctx.Set("hasLogo", nav.Logo != nil)
	if nav.Logo != nil {
		ctx.Set("logoSrc", v.asset(nav.Logo.Src))
		ctx.Set("logoAlt", nav.Logo.Alt)
	}

	var left, right []template.HTML
	for _, item := range nav.Items {
		out, err := v.navbarItem(item)
		if err != nil {
			return err
		}
		if out == "" {
			continue
		}
		if item.Position == "right" {
			right = append(right, out)
		} else {
			left = append(left, out)
		}
	}
	ctx.Set("navLeft", left)
	ctx.Set("navRight", right)
	return nil
}

func (v *view) navbarItem(item config.NavbarItem) (template.HTML, error) {
	l := v.locale
	switch item.Kind() {
	case config.NavbarItemDocSidebar:
		href, ok := l.Sidebars.FirstLink(item.SidebarID)
		if !ok {
			return "", nil
		}
		return fragment("link", link{Label: item.Label, Href: href, Active: v.sidebarID == item.SidebarID})
	case config.NavbarItemDoc:
		if l.Docs == nil {
			return "", nil
		}
		doc, ok := l.Docs.Get(item.DocID)
		if !ok {
			return "", nil
		}
		label := item.Label
		if label == "" {
			label = doc.Label()
		}
		return fragment("link", link{Label: label, Href: doc.Permalink, Active: v.path == doc.Permalink})
	case config.NavbarItemLocaleDropdown:
		dropdown := link{Label: l.Config.Label}
		for _, other := range v.site.Locales {
			dropdown.Items = append(dropdown.Items, link{
				Label:  other.Config.Label,
				Href:   v.alternate(other),
				Lang:   other.Config.HTMLLang,
				Active: other.ID == l.ID,
			})
		}
		return fragment("dropdown", dropdown)
	case config.NavbarItemSearch:
		return fragment("search", link{Label: v.t("theme.navbar.search")})
	}

	lnk := link{Label: item.Label}
	if item.Href != "" {
		lnk.Href, lnk.External = siteHref(l.Prefix, item.Href)
	} else {
		lnk.Href = v.localize(item.To)
	}
	if !lnk.External {
		lnk.Active = lnk.Href != l.Prefix && strings.HasPrefix(v.path, lnk.Href)
	}
	return fragment("link", lnk)
}

func (v *view) footerVars() error {
	footer := v.site.Config.ThemeConfig.Footer
	var groups []footerGroup
	for _, g := range footer.Links {
		group := footerGroup{Label: g.Title}
		for _, item := range g.Items {
			lnk := link{Label: item.Label}
			if item.Href != "" {
				lnk.Href, lnk.External = siteHref(v.locale.Prefix, item.Href)
			} else {
				lnk.Href = v.localize(item.To)
			}
			out, err := fragment("footerLink", lnk)
			if err != nil {
				return err
			}
			group.Items = append(group.Items, out)
		}
		groups = append(groups, group)
	}
	style := footer.Style
	if style == "" {
		style = "light"
	}
	v.ctx.Set("footerStyle", style)
	v.ctx.Set("hasFooterLinks", len(groups) > 0)
	v.ctx.Set("footerGroups", groups)
	v.ctx.Set("copyright", template.HTML(footer.CopyrightFor(time.Now().Year())))
	return nil
}

// asset resolves a path inside the static directories against the base url.
func (v *view) asset(src string) string {
	if isExternal(src) {
		return src
	}
	return path.Join(v.site.Config.BaseURL, src)
}

// absoluteURL prefixes a site path with the production origin.
func absoluteURL(origin, p string) string {
	if isExternal(p) {
		return p
	}
	return strings.TrimRight(origin, "/") + p
}

// headTags renders the configured head tags. Site-absolute href and src
// attributes are resolved against baseURL.
func headTags(tags []config.HeadTag, baseURL string) template.HTML {
	var b strings.Builder
	for _, tag := range tags {
		keys := make([]string, 0, len(tag.Attributes))
		for k := range tag.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("<" + html.EscapeString(tag.TagName))
		for _, k := range keys {
			val := tag.Attributes[k]
			if k == "href" || k == "src" {
				val, _ = siteHref(baseURL, val)
			}
			b.WriteString(" " + html.EscapeString(k) + `="` + html.EscapeString(val) + `"`)
		}
		b.WriteString(">\n")
	}
	return template.HTML(b.String())
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// siteHref resolves an href written in configuration. Site-absolute paths
// such as "/about" are placed below prefix; anything else is kept and
// reported as external when it leaves the site.
func siteHref(prefix, href string) (string, bool) {
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return prefix + strings.TrimPrefix(href, "/"), false
	}
	return href, isExternal(href)
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//") || strings.HasPrefix(href, "mailto:")
}
