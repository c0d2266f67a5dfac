package handlers

import (
	"html/template"
	"strconv"

	"github.com/gobuffalo/plush"
	"github.com/ink-kai/inkworld/blog"
	"github.com/ink-kai/inkworld/config"
	"github.com/ink-kai/inkworld/docs"
	"github.com/ink-kai/inkworld/site"
	"github.com/pkg/errors"
)

// Page renders the main content of one route. Render also fills in the
// view's title, sidebar and table of contents.
type Page interface {
	Kind() string
	Render(v *view) (template.HTML, error)
}

type docPage struct {
	doc  *docs.Doc
	tmpl *plush.Template
}

func (p *docPage) Kind() string { return "doc" }

func (p *docPage) Render(v *view) (template.HTML, error) {
	doc := p.doc
	cfg := v.site.Config
	v.title = doc.Title
	v.description = doc.Description
	toc := cfg.ThemeConfig.TableOfContents
	v.toc = doc.TOC(toc.MinHeadingLevel, toc.MaxHeadingLevel)

	ctx := v.ctx
	ctx.Set("doc", doc)
	ctx.Set("showTitle", !doc.HasTitleHeading)
	ctx.Set("hasTags", len(doc.Tags) > 0)

	editURL := ""
	if d := cfg.Docs(); d != nil && d.EditURL != "" {
		editURL = d.EditURL + "/" + doc.SourceRel
	}
	ctx.Set("hasEditURL", editURL != "")
	ctx.Set("editURL", editURL)

	ctx.Set("hasPrev", false)
	ctx.Set("hasNext", false)
	if id, ok := v.locale.Sidebars.SidebarOf(doc.ID); ok {
		v.sidebarID = id
		v.sidebar, _ = v.locale.Sidebars.Get(id)
		prev, next := v.locale.Sidebars.Neighbors(doc.ID)
		if prev != nil {
			ctx.Set("hasPrev", true)
			ctx.Set("prev", *prev)
		}
		if next != nil {
			ctx.Set("hasNext", true)
			ctx.Set("next", *next)
		}
	}
	return exec(p.tmpl, ctx)
}

type postView struct {
	Title          string
	Href           string
	ISODate        string
	DateText       string
	ReadingTime    string
	HasReadingTime bool
	Truncated      bool
	Summary        template.HTML
	Content        template.HTML
	Authors        []template.HTML
	Tags           []link
}

func (v *view) post(b *blog.Blog, p *blog.Post) (postView, error) {
	pv := postView{
		Title:          p.Title,
		Href:           p.Permalink,
		ISODate:        p.Date.Format("2006-01-02T15:04:05Z07:00"),
		DateText:       v.site.Catalog.FormatDate(v.locale.ID, p.Date),
		HasReadingTime: b.Options.ShowReadingTime,
		ReadingTime:    v.tf("theme.blog.readingTime", map[string]string{"minutes": strconv.Itoa(p.ReadingTime)}),
		Truncated:      p.Truncated,
		Summary:        p.SummaryHTML,
		Content:        p.HTML,
	}
	for _, a := range p.Authors {
		out, err := fragment("author", a)
		if err != nil {
			return pv, err
		}
		pv.Authors = append(pv.Authors, out)
	}
	for _, tag := range p.Tags {
		pv.Tags = append(pv.Tags, link{Label: b.TagLabel(tag), Href: b.TagPath(tag)})
	}
	return pv, nil
}

func (v *view) posts(b *blog.Blog, posts []*blog.Post) ([]postView, error) {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		pv, err := v.post(b, p)
		if err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	return out, nil
}

// blogListPage is one page of the post list, optionally limited to a tag.
type blogListPage struct {
	blog  *blog.Blog
	posts []*blog.Post
	tag   string
	// newer and older are the neighbouring list pages, empty when absent.
	newer, older string
	tmpl         *plush.Template
}

func (p *blogListPage) Kind() string { return "blog_list" }

func (p *blogListPage) Render(v *view) (template.HTML, error) {
	ctx := v.ctx
	v.title = v.t("theme.blog.title")
	heading := ""
	if p.tag != "" {
		heading = v.tf("theme.blog.tagTitle", map[string]string{"tag": p.blog.TagLabel(p.tag)})
		v.title = heading
	}
	ctx.Set("hasHeading", heading != "")
	ctx.Set("heading", heading)

	posts, err := v.posts(p.blog, p.posts)
	if err != nil {
		return "", err
	}
	ctx.Set("posts", posts)
	ctx.Set("hasPagination", p.newer != "" || p.older != "")
	ctx.Set("hasNewer", p.newer != "")
	ctx.Set("newerHref", p.newer)
	ctx.Set("hasOlder", p.older != "")
	ctx.Set("olderHref", p.older)
	return exec(p.tmpl, ctx)
}

type blogPostPage struct {
	blog *blog.Blog
	post *blog.Post
	tmpl *plush.Template
}

func (p *blogPostPage) Kind() string { return "blog_post" }

func (p *blogPostPage) Render(v *view) (template.HTML, error) {
	v.title = p.post.Title
	v.description = p.post.Description
	pv, err := v.post(p.blog, p.post)
	if err != nil {
		return "", err
	}
	v.ctx.Set("post", pv)
	v.ctx.Set("hasAuthors", len(pv.Authors) > 0)
	v.ctx.Set("hasTags", len(pv.Tags) > 0)
	return exec(p.tmpl, v.ctx)
}

type tagView struct {
	Label string
	Href  string
	Count int
}

type blogTagsPage struct {
	blog *blog.Blog
	tmpl *plush.Template
}

func (p *blogTagsPage) Kind() string { return "blog_tags" }

func (p *blogTagsPage) Render(v *view) (template.HTML, error) {
	v.title = v.t("theme.tags.tagsPageTitle")
	var tags []tagView
	for _, name := range p.blog.TagNames() {
		tags = append(tags, tagView{
			Label: p.blog.TagLabel(name),
			Href:  p.blog.TagPath(name),
			Count: len(p.blog.PostsTagged(name)),
		})
	}
	v.ctx.Set("tags", tags)
	return exec(p.tmpl, v.ctx)
}

// customPage is a markdown or plush page from src/pages.
type customPage struct {
	page *site.Page
	tmpl *plush.Template
}

func (p *customPage) Kind() string { return "page" }

func (p *customPage) Render(v *view) (template.HTML, error) {
	v.title = p.page.Title
	v.description = p.page.Description
	if p.page.Kind == site.PagePlush {
		return exec(p.tmpl, v.ctx)
	}
	return template.HTML(`<article class="markdown">` + string(p.page.HTML) + `</article>`), nil
}

// homePage is the generated landing page used when src/pages has no index.
type homePage struct {
	tmpl *plush.Template
}

func (p *homePage) Kind() string { return "home" }

func (p *homePage) Render(v *view) (template.HTML, error) {
	cfg := v.site.Config
	v.description = cfg.Tagline
	ctx := v.ctx

	var start link
	for _, item := range cfg.ThemeConfig.Navbar.Items {
		if item.Kind() != config.NavbarItemDocSidebar {
			continue
		}
		if href, ok := v.locale.Sidebars.FirstLink(item.SidebarID); ok {
			start = link{Label: item.Label, Href: href}
			break
		}
	}
	ctx.Set("hasStart", start.Href != "")
	ctx.Set("start", start)

	var recent []postView
	if b := v.locale.Blog; b != nil && len(b.Posts) > 0 {
		n := len(b.Posts)
		if n > 3 {
			n = 3
		}
		var err error
		if recent, err = v.posts(b, b.Posts[:n]); err != nil {
			return "", err
		}
	}
	ctx.Set("hasRecent", len(recent) > 0)
	ctx.Set("recent", recent)
	return exec(p.tmpl, ctx)
}

func exec(t *plush.Template, ctx *plush.Context) (template.HTML, error) {
	out, err := t.Exec(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return template.HTML(out), nil
}
