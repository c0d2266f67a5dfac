package sidebar

import (
	"github.com/ink-kai/inkworld/docs"
	"github.com/pkg/errors"
)

// Entry is a resolved navigation node ready to render.
type Entry struct {
	Kind        ItemType
	Label       string
	DocID       string
	Href        string
	Collapsible bool
	Collapsed   bool
	Items       []Entry
}

// Resolved holds every sidebar with autogenerated items expanded and doc
// references turned into links.
type Resolved struct {
	ids      []string
	sidebars map[string][]Entry
	owner    map[string]string
}

// Get returns the entries of a sidebar.
func (r *Resolved) Get(id string) ([]Entry, bool) {
	e, ok := r.sidebars[id]
	return e, ok
}

// IDs returns sidebar ids in declaration order.
func (r *Resolved) IDs() []string {
	return r.ids
}

// SidebarOf returns the first sidebar that lists the doc.
func (r *Resolved) SidebarOf(docID string) (string, bool) {
	id, ok := r.owner[docID]
	return id, ok
}

// FirstLink returns the href of the first doc of a sidebar.
func (r *Resolved) FirstLink(id string) (string, bool) {
	flat := flatten(r.sidebars[id])
	if len(flat) == 0 {
		return "", false
	}
	return flat[0].Href, true
}

// Neighbors returns the previous and next doc entries around docID within
// its sidebar. Either may be nil.
func (r *Resolved) Neighbors(docID string) (prev, next *Entry) {
	id, ok := r.owner[docID]
	if !ok {
		return nil, nil
	}
	flat := flatten(r.sidebars[id])
	for i := range flat {
		if flat[i].DocID != docID {
			continue
		}
		if i > 0 {
			prev = &flat[i-1]
		}
		if i+1 < len(flat) {
			next = &flat[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// DocIDs returns the doc ids of entries in navigation order, including
// category index docs.
func DocIDs(entries []Entry) []string {
	var ids []string
	for _, e := range flatten(entries) {
		ids = append(ids, e.DocID)
	}
	return ids
}

// flatten lists entries that point at a doc, depth first.
func flatten(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.DocID != "" {
			out = append(out, e)
		}
		if e.Kind == ItemCategory {
			out = append(out, flatten(e.Items)...)
		}
	}
	return out
}

// Resolve expands def against tree. Doc ids missing from tree are an error,
// so callers validate first to get a complete report.
func Resolve(def *Definition, tree Tree) (*Resolved, error) {
	r := &Resolved{
		sidebars: make(map[string][]Entry, len(def.Sidebars)),
		owner:    make(map[string]string),
	}
	for _, s := range def.Sidebars {
		entries, err := resolveItems(s.Items, tree)
		if err != nil {
			return nil, errors.Wrapf(err, "sidebar %q", s.ID)
		}
		r.ids = append(r.ids, s.ID)
		r.sidebars[s.ID] = entries
		for _, docID := range DocIDs(entries) {
			if _, taken := r.owner[docID]; !taken {
				r.owner[docID] = s.ID
			}
		}
	}
	return r, nil
}

func resolveItems(items []Item, tree Tree) ([]Entry, error) {
	var out []Entry
	for _, it := range items {
		switch it.Type {
		case ItemDoc:
			doc, ok := tree.Get(it.ID)
			if !ok {
				return nil, errors.Errorf("doc %q does not exist", it.ID)
			}
			e := docEntry(doc)
			if it.Label != "" {
				e.Label = it.Label
			}
			out = append(out, e)
		case ItemLink:
			out = append(out, Entry{Kind: ItemLink, Label: it.Label, Href: it.Href})
		case ItemCategory:
			children, err := resolveItems(it.Items, tree)
			if err != nil {
				return nil, err
			}
			e := Entry{
				Kind:        ItemCategory,
				Label:       it.Label,
				Collapsible: boolOr(it.Collapsible, true),
				Collapsed:   boolOr(it.Collapsed, true),
				Items:       children,
			}
			if it.Link != "" {
				doc, ok := tree.Get(it.Link)
				if !ok {
					return nil, errors.Errorf("category %q links to missing doc %q", it.Label, it.Link)
				}
				e.DocID, e.Href = doc.ID, doc.Permalink
			}
			out = append(out, e)
		case ItemAutogenerated:
			dir, ok := tree.Dir(it.DirName)
			if !ok {
				return nil, errors.Errorf("autogenerated directory %q does not exist", it.DirName)
			}
			out = append(out, expandDir(dir)...)
		default:
			return nil, errors.Errorf("unknown item type %q", it.Type)
		}
	}
	return out, nil
}

// expandDir mirrors a docs directory. Index docs become the link of their
// category instead of a child.
func expandDir(dir *docs.Dir) []Entry {
	var out []Entry
	for _, e := range dir.Entries {
		if e.Doc != nil {
			out = append(out, docEntry(e.Doc))
			continue
		}

		sub := e.Dir
		index := sub.Index()
		var children []Entry
		for _, child := range expandDir(sub) {
			if index != nil && child.DocID == index.ID && child.Kind == ItemDoc {
				continue
			}
			children = append(children, child)
		}

		if len(children) == 0 {
			if index != nil {
				entry := docEntry(index)
				entry.Label = sub.Label()
				out = append(out, entry)
			}
			continue
		}

		cat := Entry{
			Kind:        ItemCategory,
			Label:       sub.Label(),
			Collapsible: boolOr(sub.Category.Collapsible, true),
			Collapsed:   boolOr(sub.Category.Collapsed, true),
			Items:       children,
		}
		if index != nil {
			cat.DocID, cat.Href = index.ID, index.Permalink
		}
		out = append(out, cat)
	}
	return out
}

func docEntry(doc *docs.Doc) Entry {
	return Entry{Kind: ItemDoc, Label: doc.Label(), DocID: doc.ID, Href: doc.Permalink}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
