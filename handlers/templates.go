package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"path"

	"github.com/gobuffalo/plush"
	"github.com/ink-kai/inkworld/docs"
	"github.com/ink-kai/inkworld/sidebar"
	"github.com/pkg/errors"
)

//go:embed templates/*.plush.html
var templateFS embed.FS

// Content templates rendered into the layout.
const (
	tmplLayout   = "layout"
	tmplDoc      = "doc"
	tmplBlogList = "blog_list"
	tmplBlogPost = "blog_post"
	tmplBlogTags = "blog_tags"
	tmplHome     = "home"
	tmpl404      = "404"
)

func parseTemplates() (map[string]*plush.Template, error) {
	names := []string{tmplLayout, tmplDoc, tmplBlogList, tmplBlogPost, tmplBlogTags, tmplHome, tmpl404}
	out := make(map[string]*plush.Template, len(names))
	for _, name := range names {
		src, err := templateFS.ReadFile(path.Join("templates", name+".plush.html"))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		t, err := plush.Parse(string(src))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", name)
		}
		out[name] = t
	}
	return out, nil
}

// Fragments that need recursion or per-kind markup are rendered with
// html/template and handed to plush as template.HTML.
var fragments = template.Must(template.New("fragments").Parse(`
{{define "menu"}}<ul class="menu__list">{{range .}}{{template "menuItem" .}}{{end}}</ul>{{end}}

{{define "menuItem"}}{{if .Category -}}
<li class="menu__list-item{{if .Collapsed}} menu__list-item--collapsed{{end}}">
<div class="menu__list-item-collapsible">
{{- if .Href}}<a class="menu__link menu__link--sublist{{if .Active}} menu__link--active{{end}}" href="{{.Href}}">{{.Label}}</a>
{{- else}}<span class="menu__link menu__link--sublist">{{.Label}}</span>{{end -}}
{{if .Collapsible}}<button type="button" class="menu__caret" data-category-toggle aria-label="{{.Label}}"></button>{{end -}}
</div>
{{template "menu" .Items}}</li>
{{- else -}}
<li class="menu__list-item"><a class="menu__link{{if .Active}} menu__link--active{{end}}" href="{{.Href}}"
{{- if .Active}} aria-current="page"{{end}}{{if .External}} target="_blank" rel="noopener noreferrer"{{end}}>{{.Label}}</a></li>
{{- end}}{{end}}

{{define "toc"}}<ul class="table-of-contents__list">{{range .}}<li class="toc-level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>{{end}}</ul>{{end}}

{{define "link"}}<a class="navbar__item navbar__link{{if .Active}} navbar__link--active{{end}}" href="{{.Href}}"
{{- if .External}} target="_blank" rel="noopener noreferrer"{{end}}>{{.Label}}</a>{{end}}

{{define "footerLink"}}<a class="footer__link-item" href="{{.Href}}"
{{- if .External}} target="_blank" rel="noopener noreferrer"{{end}}>{{.Label}}</a>{{end}}

{{define "dropdown"}}<div class="navbar__item dropdown dropdown--hoverable"><a class="navbar__link" href="#" aria-haspopup="true">{{.Label}}</a>
<ul class="dropdown__menu">{{range .Items}}<li><a class="dropdown__link{{if .Active}} dropdown__link--active{{end}}" href="{{.Href}}" lang="{{.Lang}}">{{.Label}}</a></li>{{end}}</ul></div>{{end}}

{{define "search"}}<div class="navbar__item navbar__search"><input class="navbar__search-input" type="search" placeholder="{{.Label}}" aria-label="{{.Label}}"></div>{{end}}

{{define "author"}}{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Name}}</a>{{else}}{{.Name}}{{end}}{{if .Title}} <small>{{.Title}}</small>{{end}}{{end}}
`))

func fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "rendering %s", name)
	}
	return template.HTML(buf.String()), nil
}

// link is a rendered anchor in the navbar, footer or a dropdown.
type link struct {
	Label    string
	Href     string
	Lang     string
	Active   bool
	External bool
	Items    []link
}

type menuItem struct {
	Label       string
	Href        string
	Category    bool
	Collapsible bool
	Collapsed   bool
	Active      bool
	External    bool
	Items       []menuItem
}

// menu turns resolved sidebar entries into menu items, expanding every
// category on the way to the current page. Link hrefs are resolved against
// prefix.
func menu(entries []sidebar.Entry, current, prefix string) ([]menuItem, bool) {
	items := make([]menuItem, 0, len(entries))
	anyActive := false
	for _, e := range entries {
		it := menuItem{
			Label:  e.Label,
			Href:   e.Href,
			Active: e.Href != "" && e.Href == current,
		}
		switch e.Kind {
		case sidebar.ItemCategory:
			children, childActive := menu(e.Items, current, prefix)
			it.Category = true
			it.Items = children
			it.Collapsible = e.Collapsible
			it.Collapsed = e.Collapsible && e.Collapsed && !childActive && !it.Active
			if childActive {
				anyActive = true
			}
		case sidebar.ItemLink:
			it.Href, it.External = siteHref(prefix, e.Href)
			it.Active = !it.External && it.Href == current
		}
		if it.Active {
			anyActive = true
		}
		items = append(items, it)
	}
	return items, anyActive
}

func renderSidebar(entries []sidebar.Entry, current, prefix string) (template.HTML, error) {
	items, _ := menu(entries, current, prefix)
	return fragment("menu", items)
}

func renderTOC(headings []docs.Heading) (template.HTML, error) {
	return fragment("toc", headings)
}
