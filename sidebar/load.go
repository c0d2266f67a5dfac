package sidebar

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LoadFile reads and parses a sidebar definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sidebars %s", path)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing sidebars %s", path)
	}
	return def, nil
}

// Parse decodes a sidebar definition, keeping declaration order and
// rejecting duplicate sidebar ids.
func Parse(data []byte) (*Definition, error) {
	var raw yaml.MapSlice
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithStack(err)
	}

	def := &Definition{}
	seen := make(map[string]bool, len(raw))
	for _, entry := range raw {
		id, ok := entry.Key.(string)
		if !ok {
			return nil, errors.Errorf("sidebar id %v is not a string", entry.Key)
		}
		if seen[id] {
			return nil, errors.Errorf("duplicate sidebar id %q", id)
		}
		seen[id] = true

		items, err := decodeItems(entry.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "sidebar %q", id)
		}
		def.Sidebars = append(def.Sidebars, Sidebar{ID: id, Items: items})
	}
	return def, nil
}

func decodeItems(value interface{}) ([]Item, error) {
	if value == nil {
		return nil, nil
	}
	list, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list of items, got %T", value)
	}
	if len(list) == 0 {
		return nil, nil
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var items []Item
	if err := yaml.UnmarshalStrict(data, &items); err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}

// Marshal encodes def in the sidebars.yaml format.
func Marshal(def *Definition) ([]byte, error) {
	raw := make(yaml.MapSlice, 0, len(def.Sidebars))
	for _, s := range def.Sidebars {
		items := s.Items
		if items == nil {
			items = []Item{}
		}
		raw = append(raw, yaml.MapItem{Key: s.ID, Value: items})
	}
	out, err := yaml.Marshal(raw)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
