package blog

import (
	"html/template"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ink-kai/inkworld/config"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// Author is a blog author, either from authors.yml or inline front matter.
type Author struct {
	Key      string `yaml:"key,omitempty"`
	Name     string `yaml:"name"`
	Title    string `yaml:"title,omitempty"`
	URL      string `yaml:"url,omitempty"`
	ImageURL string `yaml:"image_url,omitempty"`
	Email    string `yaml:"email,omitempty"`

	inline bool
}

// Tag is a tag definition from tags.yml.
type Tag struct {
	Label       string `yaml:"label"`
	Permalink   string `yaml:"permalink,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Post is one blog post.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Authors     []Author
	Tags        []string
	Draft       bool
	Permalink   string
	Source      string
	SourceRel   string

	Content     []byte
	HTML        template.HTML
	SummaryHTML template.HTML
	Truncated   bool
	ReadingTime int
}

// Blog is the loaded blog of one locale.
type Blog struct {
	Posts       []*Post
	RoutePrefix string
	Options     config.BlogOptions

	tags    map[string][]*Post
	tagDefs map[string]Tag
}

// TagNames returns every tag used by a post, sorted.
func (b *Blog) TagNames() []string {
	names := make([]string, 0, len(b.tags))
	for name := range b.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PostsTagged returns the posts carrying tag, newest first.
func (b *Blog) PostsTagged(tag string) []*Post {
	return b.tags[tag]
}

// TagLabel returns the display label of a tag.
func (b *Blog) TagLabel(tag string) string {
	if def, ok := b.tagDefs[tag]; ok && def.Label != "" {
		return def.Label
	}
	return tag
}

// TagPath is the route of the tag listing page.
func (b *Blog) TagPath(tag string) string {
	if def, ok := b.tagDefs[tag]; ok && def.Permalink != "" {
		return path.Join(b.RoutePrefix, "tags", def.Permalink)
	}
	return path.Join(b.RoutePrefix, "tags", slugify(tag))
}

// Pages splits posts into list pages of Options.PostsPerPage.
func (b *Blog) Pages() [][]*Post {
	size := b.Options.PostsPerPage
	if size <= 0 {
		size = len(b.Posts)
	}
	if len(b.Posts) == 0 {
		return [][]*Post{nil}
	}
	var pages [][]*Post
	for start := 0; start < len(b.Posts); start += size {
		end := start + size
		if end > len(b.Posts) {
			end = len(b.Posts)
		}
		pages = append(pages, b.Posts[start:end])
	}
	return pages
}

// PagePath is the route of list page i, counting from zero.
func (b *Blog) PagePath(i int) string {
	if i == 0 {
		return b.RoutePrefix
	}
	return path.Join(b.RoutePrefix, "page", strconv.Itoa(i+1))
}

// ReadingTime estimates minutes to read text. Each CJK character counts as a
// word; other words are separated by whitespace.
func ReadingTime(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
			words++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
