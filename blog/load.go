package blog

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ink-kai/inkworld/config"
	"github.com/ink-kai/inkworld/docs"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	TagsFile    = "tags.yml"
	AuthorsFile = "authors.yml"
)

var (
	datePrefix      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)
	truncateMarkers = [][]byte{[]byte("<!-- truncate -->"), []byte("{/* truncate */}")}
	dateLayouts     = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"}
)

// AuthorList accepts a single author key, a list of keys, or inline author
// objects.
type AuthorList []Author

func (l *AuthorList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var key string
	if err := unmarshal(&key); err == nil {
		*l = AuthorList{{Key: key}}
		return nil
	}

	var raw []interface{}
	if err := unmarshal(&raw); err != nil {
		var single Author
		if err := unmarshal(&single); err != nil {
			return err
		}
		single.inline = true
		*l = AuthorList{single}
		return nil
	}

	out := make(AuthorList, 0, len(raw))
	for _, item := range raw {
		if key, ok := item.(string); ok {
			out = append(out, Author{Key: key})
			continue
		}
		data, err := yaml.Marshal(item)
		if err != nil {
			return err
		}
		var a Author
		if err := yaml.Unmarshal(data, &a); err != nil {
			return err
		}
		a.inline = a.Key == ""
		out = append(out, a)
	}
	*l = out
	return nil
}

// FrontMatter is the header of a blog post.
type FrontMatter struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Slug        string     `yaml:"slug"`
	Date        string     `yaml:"date"`
	Authors     AuthorList `yaml:"authors"`
	Tags        []string   `yaml:"tags"`
	Draft       bool       `yaml:"draft"`
}

// Options control how a blog is loaded.
type Options struct {
	// RoutePrefix is the blog route, e.g. "/en/blog".
	RoutePrefix string
	// SitePrefix receives site-absolute links in posts, e.g. "/en/".
	SitePrefix    string
	OverlayDir    string
	IncludeDrafts bool
	Blog          config.BlogOptions
	Highlighter   *docs.Highlighter
	Logger        *slog.Logger
}

// Load reads the posts below root. A missing directory yields an empty blog.
func Load(root string, opts Options) (*Blog, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	b := &Blog{
		RoutePrefix: opts.RoutePrefix,
		Options:     opts.Blog,
		tags:        make(map[string][]*Post),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}

	tagDefs, err := readYAMLMap[Tag](filepath.Join(root, TagsFile))
	if err != nil {
		return nil, err
	}
	b.tagDefs = tagDefs
	authorDefs, err := readYAMLMap[Author](filepath.Join(root, AuthorsFile))
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		rel := name
		if entry.IsDir() {
			rel = findIndex(root, name)
			if rel == "" {
				continue
			}
		} else if ext := strings.ToLower(filepath.Ext(name)); ext != ".md" && ext != ".mdx" {
			continue
		}

		post, err := readPost(root, rel, opts)
		if err != nil {
			return nil, err
		}
		if post.Draft && !opts.IncludeDrafts {
			continue
		}
		if err := b.checkPost(post, tagDefs, authorDefs, opts); err != nil {
			return nil, err
		}
		b.Posts = append(b.Posts, post)
	}

	sort.SliceStable(b.Posts, func(i, j int) bool {
		return b.Posts[i].Date.After(b.Posts[j].Date)
	})
	seen := make(map[string]string, len(b.Posts))
	for _, p := range b.Posts {
		if other, ok := seen[p.Permalink]; ok {
			return nil, errors.Errorf("blog posts %s and %s share permalink %s", other, p.SourceRel, p.Permalink)
		}
		seen[p.Permalink] = p.SourceRel
		for _, tag := range p.Tags {
			b.tags[tag] = append(b.tags[tag], p)
		}
	}
	return b, nil
}

func findIndex(root, dir string) string {
	for _, name := range []string{"index.md", "index.mdx"} {
		if _, err := os.Stat(filepath.Join(root, dir, name)); err == nil {
			return path.Join(dir, name)
		}
	}
	return ""
}

func readYAMLMap[T any](file string) (map[string]T, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	out := make(map[string]T)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", file)
	}
	return out, nil
}

func readPost(root, rel string, opts Options) (*Post, error) {
	source := filepath.Join(root, filepath.FromSlash(rel))
	if opts.OverlayDir != "" {
		translated := filepath.Join(opts.OverlayDir, filepath.FromSlash(rel))
		if _, err := os.Stat(translated); err == nil {
			source = translated
		}
	}
	content, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var fm FrontMatter
	body, err := docs.ParseFrontMatter(content, &fm)
	if err != nil {
		return nil, errors.Wrapf(err, "blog post %s", source)
	}

	name := strings.Split(rel, "/")[0]
	name = strings.TrimSuffix(name, filepath.Ext(name))

	post := &Post{
		Title:       fm.Title,
		Description: fm.Description,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Authors:     fm.Authors,
		Source:      source,
		SourceRel:   rel,
		Content:     body,
	}

	slug := name
	var datePath string
	if m := datePrefix.FindStringSubmatch(name); m != nil {
		slug = m[4]
		datePath = path.Join(m[1], m[2], m[3])
		post.Date, _ = time.Parse("2006-01-02", fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]))
	}
	if fm.Date != "" {
		d, err := parseDate(fm.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "blog post %s", source)
		}
		post.Date = d
	}
	if post.Date.IsZero() {
		info, err := os.Stat(source)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		post.Date = info.ModTime().UTC().Truncate(time.Second)
	}

	switch {
	case strings.HasPrefix(fm.Slug, "/"):
		post.Slug = strings.TrimPrefix(fm.Slug, "/")
		post.Permalink = path.Join("/", opts.RoutePrefix, fm.Slug)
	case fm.Slug != "":
		post.Slug = fm.Slug
		post.Permalink = path.Join("/", opts.RoutePrefix, fm.Slug)
	default:
		post.Slug = slug
		post.Permalink = path.Join("/", opts.RoutePrefix, datePath, slug)
	}

	siteLinks := func(dest string) (string, bool) {
		return docs.SiteLink(opts.SitePrefix, dest)
	}
	full := docs.Render(body, siteLinks, opts.Highlighter)
	post.HTML = full.HTML
	if post.Title == "" {
		post.Title = full.Title
	}
	if post.Title == "" {
		post.Title = slug
	}
	if post.Description == "" {
		post.Description = full.Summary
	}

	post.SummaryHTML = post.HTML
	for _, marker := range truncateMarkers {
		if idx := bytes.Index(body, marker); idx >= 0 {
			post.SummaryHTML = docs.Render(body[:idx], siteLinks, opts.Highlighter).HTML
			post.Truncated = true
			break
		}
	}
	post.ReadingTime = ReadingTime(string(body))
	return post, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised date %q", s)
}

func (b *Blog) checkPost(p *Post, tagDefs map[string]Tag, authorDefs map[string]Author, opts Options) error {
	log := opts.Logger

	if !p.Truncated {
		if err := opts.Blog.OnUntruncatedBlogPosts.Report(log, "Blog post has no truncate marker", "post", p.SourceRel); err != nil {
			return err
		}
	}

	if tagDefs != nil {
		for _, tag := range p.Tags {
			if _, ok := tagDefs[tag]; ok {
				continue
			}
			if err := opts.Blog.OnInlineTags.Report(log, "Blog post uses a tag missing from "+TagsFile, "post", p.SourceRel, "tag", tag); err != nil {
				return err
			}
		}
	}

	for i, a := range p.Authors {
		if a.Key != "" {
			def, ok := authorDefs[a.Key]
			if !ok {
				return errors.Errorf("blog post %s: author %q is not defined in %s", p.SourceRel, a.Key, AuthorsFile)
			}
			def.Key = a.Key
			p.Authors[i] = def
			continue
		}
		if a.inline && authorDefs != nil {
			if err := opts.Blog.OnInlineAuthors.Report(log, "Blog post uses an inline author", "post", p.SourceRel, "author", a.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
