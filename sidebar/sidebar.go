package sidebar

// ItemType names the kind of a sidebar node.
type ItemType string

const (
	ItemAutogenerated ItemType = "autogenerated"
	ItemDoc           ItemType = "doc"
	ItemCategory      ItemType = "category"
	ItemLink          ItemType = "link"
)

// Item is one node of a sidebar tree as written in sidebars.yaml. A bare
// string is shorthand for a doc item.
type Item struct {
	Type        ItemType `yaml:"type"`
	ID          string   `yaml:"id,omitempty"`
	Label       string   `yaml:"label,omitempty"`
	DirName     string   `yaml:"dir_name,omitempty"`
	Href        string   `yaml:"href,omitempty"`
	Link        string   `yaml:"link,omitempty"`
	Collapsible *bool    `yaml:"collapsible,omitempty"`
	Collapsed   *bool    `yaml:"collapsed,omitempty"`
	Items       []Item   `yaml:"items,omitempty"`
}

type plainItem Item

func (it *Item) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var id string
	if err := unmarshal(&id); err == nil {
		*it = Item{Type: ItemDoc, ID: id}
		return nil
	}

	var p plainItem
	if err := unmarshal(&p); err != nil {
		return err
	}
	*it = Item(p)
	if it.Type == "" && it.ID != "" {
		it.Type = ItemDoc
	}
	return nil
}

func (it Item) MarshalYAML() (interface{}, error) {
	if it.Type == ItemDoc && it.Label == "" && it.ID != "" {
		return it.ID, nil
	}
	return plainItem(it), nil
}

// Sidebar is a named, ordered navigation tree.
type Sidebar struct {
	ID    string
	Items []Item
}

// Definition holds every sidebar in declaration order.
type Definition struct {
	Sidebars []Sidebar
}

// Get returns the sidebar with the given id.
func (d *Definition) Get(id string) (*Sidebar, bool) {
	for i := range d.Sidebars {
		if d.Sidebars[i].ID == id {
			return &d.Sidebars[i], true
		}
	}
	return nil, false
}

func (d *Definition) IDs() []string {
	ids := make([]string, 0, len(d.Sidebars))
	for _, s := range d.Sidebars {
		ids = append(ids, s.ID)
	}
	return ids
}

// Default returns the Ink World sidebars: the tutorial tree generated from
// the docusaurus docs directory and the hand ordered database section.
func Default() *Definition {
	return &Definition{Sidebars: []Sidebar{
		{
			ID:    "tutorialSidebar",
			Items: []Item{{Type: ItemAutogenerated, DirName: "docusaurus"}},
		},
		{
			ID: "databaseSidebar",
			Items: []Item{{
				Type:  ItemCategory,
				Label: "数据库优化",
				Items: []Item{
					{Type: ItemDoc, ID: "database/optimization/optimization-overview"},
					{
						Type:  ItemCategory,
						Label: "优化系列",
						Items: []Item{
							{Type: ItemDoc, ID: "database/optimization/index-optimization"},
							{Type: ItemDoc, ID: "database/optimization/query-optimization"},
							{Type: ItemDoc, ID: "database/optimization/transaction-optimization"},
							{Type: ItemDoc, ID: "database/optimization/lock-optimization"},
						},
					},
				},
			}},
		},
	}}
}
