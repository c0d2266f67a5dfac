package docs

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ink-kai/inkworld/config"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Options control how a docs tree is loaded.
type Options struct {
	// RoutePrefix is prepended to every permalink, e.g. "/en/docs".
	RoutePrefix string
	// SitePrefix is the base url plus locale path, e.g. "/ink/en/". Links
	// written site-absolute ("/docs/intro") are placed below it.
	SitePrefix string
	// OverlayDir holds translated files that replace sources with the same
	// relative path.
	OverlayDir            string
	IncludeDrafts         bool
	OnBrokenMarkdownLinks config.ReportingSeverity
	Highlighter           *Highlighter
	Logger                *slog.Logger
}

var categoryFiles = []string{"_category_.yaml", "_category_.yml", "_category_.json"}

// Load reads every markdown file below root. Files and directories whose name
// starts with "_" or "." are skipped.
func Load(root string, opts Options) (*Collection, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "docs directory %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("docs path %s is not a directory", root)
	}

	c := newCollection(root)
	if err := c.scanDir(root, "", opts); err != nil {
		return nil, err
	}
	if err := c.render(opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collection) scanDir(root, rel string, opts Options) error {
	dir := c.dirs[rel]
	if err := readCategory(filepath.Join(root, filepath.FromSlash(rel)), &dir.Category); err != nil {
		return err
	}

	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return errors.WithStack(err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		childRel := path.Join(rel, name)

		if entry.IsDir() {
			child := &Dir{Path: childRel}
			c.dirs[childRel] = child
			if err := c.scanDir(root, childRel, opts); err != nil {
				return err
			}
			if len(child.Entries) == 0 {
				delete(c.dirs, childRel)
				continue
			}
			dir.Entries = append(dir.Entries, Entry{Dir: child})
			continue
		}

		if !isMarkdown(name) {
			continue
		}
		doc, err := readDoc(root, childRel, opts.OverlayDir)
		if err != nil {
			return err
		}
		if doc.Draft && !opts.IncludeDrafts {
			opts.Logger.Debug("Skipping draft doc", "doc", doc.ID)
			continue
		}
		if prev, ok := c.docs[doc.ID]; ok {
			return errors.Errorf("duplicate doc id %q in %s and %s", doc.ID, prev.SourceRel, doc.SourceRel)
		}
		doc.Permalink = permalink(opts.RoutePrefix, doc)
		c.docs[doc.ID] = doc
		c.bySource[doc.SourceRel] = doc
		c.order = append(c.order, doc)
		dir.Entries = append(dir.Entries, Entry{Doc: doc})
	}

	sortEntries(dir.Entries)
	return nil
}

func readCategory(dir string, cat *Category) error {
	for _, name := range categoryFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if err := yaml.Unmarshal(data, cat); err != nil {
			return errors.Wrapf(err, "parsing %s", filepath.Join(dir, name))
		}
		return nil
	}
	return nil
}

func readDoc(root, rel, overlay string) (*Doc, error) {
	source := filepath.Join(root, filepath.FromSlash(rel))
	if overlay != "" {
		translated := filepath.Join(overlay, filepath.FromSlash(rel))
		if _, err := os.Stat(translated); err == nil {
			source = translated
		}
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var fm FrontMatter
	body, err := ParseFrontMatter(content, &fm)
	if err != nil {
		return nil, errors.Wrapf(err, "doc %s", source)
	}
	if strings.EqualFold(path.Ext(rel), ".mdx") {
		body = stripMDXStatements(body)
	}

	id := strings.TrimSuffix(rel, path.Ext(rel))
	if fm.ID != "" {
		id = path.Join(path.Dir(rel), fm.ID)
	}

	doc := &Doc{
		ID:           id,
		SourceRel:    rel,
		Source:       source,
		Title:        fm.Title,
		Description:  fm.Description,
		SidebarLabel: fm.SidebarLabel,
		Slug:         fm.Slug,
		Tags:         fm.Tags,
		Keywords:     fm.Keywords,
		Draft:        fm.Draft,
		Content:      body,
	}
	if fm.SidebarPosition != nil {
		doc.Position = *fm.SidebarPosition
		doc.HasPosition = true
	}
	return doc, nil
}

func permalink(prefix string, doc *Doc) string {
	var rel string
	switch {
	case strings.HasPrefix(doc.Slug, "/"):
		rel = doc.Slug
	case doc.Slug != "":
		rel = path.Join(doc.Dir(), doc.Slug)
	case doc.IsIndex():
		rel = doc.Dir()
	default:
		rel = doc.ID
	}
	return path.Join("/", prefix, rel)
}

func (c *Collection) render(opts Options) error {
	for _, doc := range c.order {
		var reportErr error
		rewrite := func(dest string) (string, bool) {
			if routed, ok := SiteLink(opts.SitePrefix, dest); ok {
				return routed, true
			}
			file, fragment, ok := IsMarkdownLink(dest)
			if !ok || strings.HasPrefix(file, "/") {
				return "", false
			}
			target, found := c.bySource[path.Join(doc.Dir(), file)]
			if !found {
				if err := opts.OnBrokenMarkdownLinks.Report(opts.Logger, "Broken markdown link",
					"doc", doc.SourceRel, "target", dest); err != nil && reportErr == nil {
					reportErr = err
				}
				return "", false
			}
			if fragment != "" {
				return target.Permalink + "#" + fragment, true
			}
			return target.Permalink, true
		}

		out := Render(doc.Content, rewrite, opts.Highlighter)
		if reportErr != nil {
			return reportErr
		}
		doc.HTML = out.HTML
		doc.Headings = out.Headings
		doc.HasTitleHeading = out.Title != ""
		if doc.Title == "" {
			doc.Title = out.Title
		}
		if doc.Title == "" {
			doc.Title = path.Base(doc.ID)
		}
		if doc.Description == "" {
			doc.Description = out.Summary
		}
	}
	return nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}
