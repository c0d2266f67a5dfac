package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobuffalo/plush"
	"github.com/ink-kai/inkworld/site"
)

type notFoundPage struct {
	tmpl *plush.Template
}

func (p *notFoundPage) Kind() string { return "not_found" }

func (p *notFoundPage) Render(v *view) (template.HTML, error) {
	v.title = v.t("theme.NotFound.title")
	return exec(p.tmpl, v.ctx)
}

// notFound renders the 404 page in the locale the path belongs to.
func (rd *renderer) notFound(w http.ResponseWriter, r *http.Request) {
	rd.serve(w, rd.localeFor(r.URL.Path), r.URL.Path, http.StatusNotFound, &notFoundPage{tmpl: rd.templates[tmpl404]})
}

// localeFor picks the locale with the longest prefix matching p.
func (rd *renderer) localeFor(p string) *site.Locale {
	best := rd.site.DefaultLocale()
	for _, l := range rd.site.Locales {
		if strings.HasPrefix(p+"/", l.Prefix) && len(l.Prefix) > len(best.Prefix) {
			best = l
		}
	}
	return best
}

// static serves files from the static directories, first match wins.
func (rd *renderer) static() http.Handler {
	dirs := rd.site.StaticDirs()
	base := rd.site.Config.BaseURL
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + strings.TrimPrefix(r.URL.Path, base))
		for _, dir := range dirs {
			file := filepath.Join(dir, filepath.FromSlash(name))
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				http.ServeFile(w, r, file)
				return
			}
		}
		rd.notFound(w, r)
	})
}
