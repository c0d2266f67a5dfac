package docs

import (
	"html/template"
	"path"
	"sort"
	"strings"
)

// Heading is one markdown heading, used for the table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Doc is one documentation page.
type Doc struct {
	// ID is the slash separated path below the docs root without extension,
	// with the base name replaced by a front matter id when one is given.
	ID string
	// SourceRel is the file path below the docs root, slash separated.
	SourceRel string
	// Source is the file that was read, possibly a translated copy.
	Source    string
	Permalink string

	Title        string
	Description  string
	SidebarLabel string
	Position     float64
	HasPosition  bool
	Slug         string
	Tags         []string
	Keywords     []string
	Draft        bool

	Content  []byte
	HTML     template.HTML
	Headings []Heading
	// HasTitleHeading reports whether the body starts with its own h1.
	HasTitleHeading bool
}

// Dir returns the slash separated directory of the doc source.
func (d *Doc) Dir() string {
	dir := path.Dir(d.SourceRel)
	if dir == "." {
		return ""
	}
	return dir
}

// Label is the text shown for the doc in navigation.
func (d *Doc) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// IsIndex reports whether the doc is the index page of its directory.
func (d *Doc) IsIndex() bool {
	base := strings.ToLower(strings.TrimSuffix(path.Base(d.SourceRel), path.Ext(d.SourceRel)))
	return base == "index" || base == "readme"
}

// TOC returns the headings with a level in [min, max].
func (d *Doc) TOC(min, max int) []Heading {
	var out []Heading
	for _, h := range d.Headings {
		if h.Level >= min && h.Level <= max {
			out = append(out, h)
		}
	}
	return out
}

// Category holds the metadata of a docs directory from _category_.yaml.
type Category struct {
	Label       string   `yaml:"label"`
	Position    *float64 `yaml:"position"`
	Collapsible *bool    `yaml:"collapsible"`
	Collapsed   *bool    `yaml:"collapsed"`
}

// Dir is a directory of the docs tree. Entries are in navigation order.
type Dir struct {
	Path     string
	Category Category
	Entries  []Entry
}

// Label is the category label, falling back to the directory name.
func (d *Dir) Label() string {
	if d.Category.Label != "" {
		return d.Category.Label
	}
	if d.Path == "" {
		return ""
	}
	return path.Base(d.Path)
}

// Index returns the index doc of the directory, if any.
func (d *Dir) Index() *Doc {
	for _, e := range d.Entries {
		if e.Doc != nil && e.Doc.IsIndex() {
			return e.Doc
		}
	}
	return nil
}

// Entry is either a doc or a subdirectory.
type Entry struct {
	Doc *Doc
	Dir *Dir
}

func (e Entry) name() string {
	if e.Doc != nil {
		return path.Base(e.Doc.SourceRel)
	}
	return path.Base(e.Dir.Path)
}

func (e Entry) position() (float64, bool) {
	if e.Doc != nil {
		return e.Doc.Position, e.Doc.HasPosition
	}
	if p := e.Dir.Category.Position; p != nil {
		return *p, true
	}
	return 0, false
}

// sortEntries orders positioned entries first by position, then the rest,
// keeping file name order for ties.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, oki := entries[i].position()
		pj, okj := entries[j].position()
		switch {
		case oki && okj && pi != pj:
			return pi < pj
		case oki != okj:
			return oki
		}
		return entries[i].name() < entries[j].name()
	})
}

// Collection is the loaded docs tree of one locale.
type Collection struct {
	Root string

	docs     map[string]*Doc
	bySource map[string]*Doc
	order    []*Doc
	dirs     map[string]*Dir
}

func newCollection(root string) *Collection {
	return &Collection{
		Root:     root,
		docs:     make(map[string]*Doc),
		bySource: make(map[string]*Doc),
		dirs:     map[string]*Dir{"": {Path: ""}},
	}
}

// Get returns the doc with the given id.
func (c *Collection) Get(id string) (*Doc, bool) {
	d, ok := c.docs[id]
	return d, ok
}

// Has reports whether a doc with the given id exists.
func (c *Collection) Has(id string) bool {
	_, ok := c.docs[id]
	return ok
}

// All returns every doc in walk order.
func (c *Collection) All() []*Doc {
	return c.order
}

func (c *Collection) Len() int {
	return len(c.order)
}

// Dir returns the directory at the slash separated path ("" is the root).
func (c *Collection) Dir(p string) (*Dir, bool) {
	d, ok := c.dirs[strings.Trim(p, "/")]
	return d, ok
}

// DocsUnder returns the docs below dir in navigation order.
func (c *Collection) DocsUnder(dir string) []*Doc {
	d, ok := c.Dir(dir)
	if !ok {
		return nil
	}
	var out []*Doc
	var walk func(*Dir)
	walk = func(d *Dir) {
		for _, e := range d.Entries {
			if e.Doc != nil {
				out = append(out, e.Doc)
			} else {
				walk(e.Dir)
			}
		}
	}
	walk(d)
	return out
}
