package sidebar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ink-kai/inkworld/config"
	"github.com/ink-kai/inkworld/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const inkSidebars = `
tutorialSidebar:
  - type: autogenerated
    dir_name: docusaurus
databaseSidebar:
  - type: category
    label: 数据库优化
    items:
      - type: doc
        id: database/optimization/optimization-overview
      - type: category
        label: 优化系列
        items:
          - database/optimization/index-optimization
          - database/optimization/query-optimization
          - database/optimization/transaction-optimization
          - database/optimization/lock-optimization
`

func loadTree(t *testing.T, files map[string]string) *docs.Collection {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	c, err := docs.Load(root, docs.Options{RoutePrefix: "/docs"})
	require.NoError(t, err)
	return c
}

func inkTree(t *testing.T) *docs.Collection {
	return loadTree(t, map[string]string{
		"docusaurus/intro.md":                                "---\nsidebar_position: 1\n---\n# Intro\n",
		"docusaurus/tutorial-basics/create-a-page.md":        "# Create a Page\n",
		"docusaurus/tutorial-basics/_category_.yaml":         "label: Tutorial - Basics\nposition: 2\n",
		"docusaurus/tutorial-basics/create-a-document.md":    "# Create a Document\n",
		"docusaurus/tutorial-extras/index.md":                "# Extras\n",
		"docusaurus/tutorial-extras/manage-docs-versions.md": "# Manage Docs Versions\n",
		"database/optimization/optimization-overview.md":     "# 优化概述\n",
		"database/optimization/index-optimization.md":        "# 索引优化\n",
		"database/optimization/query-optimization.md":        "# 查询优化\n",
		"database/optimization/transaction-optimization.md":  "# 事务优化\n",
		"database/optimization/lock-optimization.md":         "# 锁优化\n",
	})
}

func TestParseMatchesDefault(t *testing.T) {
	def, err := Parse([]byte(inkSidebars))
	require.NoError(t, err)
	assert.Equal(t, Default(), def)
	assert.Equal(t, []string{"tutorialSidebar", "databaseSidebar"}, def.IDs())
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte("a:\n  - x\nb:\n  - y\na:\n  - z\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate sidebar id "a"`)
}

func TestParseRejectsBadShapes(t *testing.T) {
	_, err := Parse([]byte("a: just-a-string\n"))
	require.Error(t, err)

	_, err = Parse([]byte("a:\n  - type: doc\n    idd: typo\n"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidebars.yaml")
	require.NoError(t, os.WriteFile(path, []byte(inkSidebars), 0o644))
	def, err := LoadFile(path)
	require.NoError(t, err)
	_, ok := def.Get("databaseSidebar")
	assert.True(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWebsiteMatchesDefault(t *testing.T) {
	def, err := LoadFile(filepath.Join("..", "website", "sidebars.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), def)
}

func TestMarshalUsesDocShorthand(t *testing.T) {
	out, err := Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "- database/optimization/index-optimization\n")
	assert.Contains(t, string(out), "dir_name: docusaurus")
}

func TestRoundTripDefault(t *testing.T) {
	out, err := Marshal(Default())
	require.NoError(t, err)
	def, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, Default(), def)
}

func itemGen(depth int) *rapid.Generator[Item] {
	return rapid.Custom(func(t *rapid.T) Item {
		kinds := []ItemType{ItemDoc, ItemLink, ItemAutogenerated}
		if depth > 0 {
			kinds = append(kinds, ItemCategory)
		}
		label := rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,12}`)
		id := rapid.StringMatching(`[a-z]{1,6}(/[a-z]{1,6}){0,2}`)
		optBool := rapid.Custom(func(t *rapid.T) *bool {
			if !rapid.Bool().Draw(t, "set") {
				return nil
			}
			b := rapid.Bool().Draw(t, "value")
			return &b
		})

		switch rapid.SampledFrom(kinds).Draw(t, "kind") {
		case ItemDoc:
			it := Item{Type: ItemDoc, ID: id.Draw(t, "id")}
			if rapid.Bool().Draw(t, "labelled") {
				it.Label = label.Draw(t, "label")
			}
			return it
		case ItemLink:
			return Item{Type: ItemLink, Label: label.Draw(t, "label"), Href: "https://example.com/" + id.Draw(t, "href")}
		case ItemAutogenerated:
			return Item{Type: ItemAutogenerated, DirName: id.Draw(t, "dir")}
		default:
			return Item{
				Type:        ItemCategory,
				Label:       label.Draw(t, "label"),
				Collapsible: optBool.Draw(t, "collapsible"),
				Collapsed:   optBool.Draw(t, "collapsed"),
				Items:       rapid.SliceOfN(itemGen(depth-1), 1, 3).Draw(t, "items"),
			}
		}
	})
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sidebars := rapid.SliceOfNDistinct(
			rapid.Custom(func(t *rapid.T) Sidebar {
				return Sidebar{
					ID:    rapid.StringMatching(`[a-z][a-zA-Z]{0,10}`).Draw(t, "id"),
					Items: rapid.SliceOfN(itemGen(2), 1, 4).Draw(t, "items"),
				}
			}),
			1, 4,
			func(s Sidebar) string { return s.ID },
		).Draw(t, "sidebars")
		def := &Definition{Sidebars: sidebars}

		out, err := Marshal(def)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		again, err := Parse(out)
		if err != nil {
			t.Fatalf("parse: %v\n%s", err, out)
		}
		if !assert.ObjectsAreEqual(def, again) {
			t.Fatalf("round trip changed definition\nbefore: %#v\nafter:  %#v\n%s", def, again, out)
		}
	})
}

func TestValidateDefaultAgainstTree(t *testing.T) {
	require.NoError(t, Validate(Default(), inkTree(t)))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	no := false
	yes := true
	def := &Definition{Sidebars: []Sidebar{{
		ID: "main",
		Items: []Item{
			{Type: ItemDoc, ID: "missing/doc"},
			{Type: ItemDoc},
			{Type: ItemCategory, Label: "Empty"},
			{Type: ItemCategory, Items: []Item{{Type: ItemDoc, ID: "docusaurus/intro"}}},
			{Type: ItemCategory, Label: "Odd", Collapsible: &no, Collapsed: &yes, Items: []Item{{Type: ItemLink, Label: "x", Href: "https://x"}}},
			{Type: ItemAutogenerated, DirName: "nowhere"},
			{Type: ItemAutogenerated},
			{Type: ItemLink, Label: "no href"},
			{Type: "widget"},
		},
	}}}

	err := Validate(def, inkTree(t))
	require.Error(t, err)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 9)
	assert.Contains(t, verr.Problems, `main[0]: doc "missing/doc" does not exist`)
	assert.Contains(t, verr.Problems, `main[2]: category "Empty" has no items`)
	assert.Contains(t, verr.Problems, `main[3]: category needs a label`)
	assert.Contains(t, verr.Problems, `main[5]: autogenerated directory "nowhere" does not exist or has no docs`)
	assert.Contains(t, verr.Problems, `main[8]: unknown item type "widget"`)
}

func TestValidateWithoutTreeChecksShapeOnly(t *testing.T) {
	require.NoError(t, Validate(Default(), nil))
}

func TestResolveAutogeneratedFollowsFilesystem(t *testing.T) {
	tree := inkTree(t)
	r, err := Resolve(Default(), tree)
	require.NoError(t, err)

	entries, ok := r.Get("tutorialSidebar")
	require.True(t, ok)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Kind: ItemDoc, Label: "Intro", DocID: "docusaurus/intro", Href: "/docs/docusaurus/intro"}, entries[0])

	basics := entries[1]
	assert.Equal(t, ItemCategory, basics.Kind)
	assert.Equal(t, "Tutorial - Basics", basics.Label)
	assert.True(t, basics.Collapsed)
	assert.Equal(t, []string{
		"docusaurus/tutorial-basics/create-a-document",
		"docusaurus/tutorial-basics/create-a-page",
	}, DocIDs(basics.Items))

	extras := entries[2]
	assert.Equal(t, "tutorial-extras", extras.Label)
	assert.Equal(t, "docusaurus/tutorial-extras/index", extras.DocID)
	assert.Equal(t, "/docs/docusaurus/tutorial-extras", extras.Href)
	require.Len(t, extras.Items, 1)

	assert.Equal(t, []string{
		"docusaurus/intro",
		"docusaurus/tutorial-basics/create-a-document",
		"docusaurus/tutorial-basics/create-a-page",
		"docusaurus/tutorial-extras/index",
		"docusaurus/tutorial-extras/manage-docs-versions",
	}, DocIDs(entries))
}

func TestResolveManualOrderAndNavigation(t *testing.T) {
	r, err := Resolve(Default(), inkTree(t))
	require.NoError(t, err)

	entries, _ := r.Get("databaseSidebar")
	require.Len(t, entries, 1)
	assert.Equal(t, "数据库优化", entries[0].Label)
	assert.Equal(t, []string{
		"database/optimization/optimization-overview",
		"database/optimization/index-optimization",
		"database/optimization/query-optimization",
		"database/optimization/transaction-optimization",
		"database/optimization/lock-optimization",
	}, DocIDs(entries))

	id, ok := r.SidebarOf("database/optimization/query-optimization")
	require.True(t, ok)
	assert.Equal(t, "databaseSidebar", id)

	prev, next := r.Neighbors("database/optimization/query-optimization")
	require.NotNil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "索引优化", prev.Label)
	assert.Equal(t, "database/optimization/transaction-optimization", next.DocID)

	prev, _ = r.Neighbors("database/optimization/optimization-overview")
	assert.Nil(t, prev)

	link, ok := r.FirstLink("databaseSidebar")
	require.True(t, ok)
	assert.Equal(t, "/docs/database/optimization/optimization-overview", link)

	assert.Equal(t, []string{"tutorialSidebar", "databaseSidebar"}, r.IDs())
}

func TestResolveMissingDoc(t *testing.T) {
	def := &Definition{Sidebars: []Sidebar{{ID: "x", Items: []Item{{Type: ItemDoc, ID: "nope"}}}}}
	_, err := Resolve(def, inkTree(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `doc "nope" does not exist`)
}
