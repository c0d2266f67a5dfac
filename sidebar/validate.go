package sidebar

import (
	"strconv"
	"strings"

	"github.com/ink-kai/inkworld/config"
	"github.com/ink-kai/inkworld/docs"
)

// Tree is the part of a docs collection sidebars are checked and resolved
// against.
type Tree interface {
	Get(id string) (*docs.Doc, bool)
	Dir(path string) (*docs.Dir, bool)
}

// Validate checks the structure of def and every doc and directory it
// references. All problems are reported together.
func Validate(def *Definition, tree Tree) error {
	v := &config.ValidationError{Subject: "sidebars"}
	for _, s := range def.Sidebars {
		if strings.TrimSpace(s.ID) == "" {
			v.Addf("sidebar with empty id")
		}
		validateItems(s.ID, s.Items, tree, v)
	}
	return v.Err()
}

func validateItems(where string, items []Item, tree Tree, v *config.ValidationError) {
	for i, it := range items {
		at := where + "[" + strconv.Itoa(i) + "]"
		switch it.Type {
		case ItemDoc:
			switch {
			case it.ID == "":
				v.Addf("%s: doc item needs an id", at)
			case tree != nil:
				if _, ok := tree.Get(it.ID); !ok {
					v.Addf("%s: doc %q does not exist", at, it.ID)
				}
			}
		case ItemCategory:
			if strings.TrimSpace(it.Label) == "" {
				v.Addf("%s: category needs a label", at)
			}
			if len(it.Items) == 0 {
				v.Addf("%s: category %q has no items", at, it.Label)
			}
			if it.Collapsible != nil && !*it.Collapsible && it.Collapsed != nil && *it.Collapsed {
				v.Addf("%s: category %q cannot be collapsed when not collapsible", at, it.Label)
			}
			if it.Link != "" && tree != nil {
				if _, ok := tree.Get(it.Link); !ok {
					v.Addf("%s: category %q links to missing doc %q", at, it.Label, it.Link)
				}
			}
			validateItems(at+" "+it.Label, it.Items, tree, v)
		case ItemAutogenerated:
			switch {
			case it.DirName == "":
				v.Addf("%s: autogenerated item needs dir_name", at)
			case tree != nil:
				if _, ok := tree.Dir(it.DirName); !ok {
					v.Addf("%s: autogenerated directory %q does not exist or has no docs", at, it.DirName)
				}
			}
		case ItemLink:
			if it.Href == "" || it.Label == "" {
				v.Addf("%s: link item needs label and href", at)
			}
		default:
			v.Addf("%s: unknown item type %q", at, it.Type)
		}
	}
}
