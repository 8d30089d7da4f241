package plot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog names the plot ids a player is likely to care about. It is
// loaded from YAML:
//
//	categories:
//	  - name: Crew
//	    booleans:
//	      1530: Garrus recruited
//	    integers:
//	      4: Paragon points
type Catalog struct {
	Categories []*Category `yaml:"categories"`
}

type Category struct {
	Name     string         `yaml:"name"`
	Booleans map[int]string `yaml:"booleans,omitempty"`
	Integers map[int]string `yaml:"integers,omitempty"`
	Floats   map[int]string `yaml:"floats,omitempty"`
}

type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is a known plot resolved against a Table. Present is false when the
// table is too short to hold the id; Value is then the zero value.
type Entry struct {
	Category string
	Kind     Kind
	ID       int
	Label    string
	Present  bool
	Value    any
}

func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := ParseCatalog(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

func ParseCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cat Catalog
	err := dec.Decode(&cat)
	if err == io.EOF {
		return &cat, nil
	} else if err != nil {
		return nil, err
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (cat *Catalog) validate() error {
	seen := make(map[string]bool)
	for i, c := range cat.Categories {
		if c == nil || c.Name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		for _, m := range []map[int]string{c.Booleans, c.Integers, c.Floats} {
			for id := range m {
				if id < 0 {
					return fmt.Errorf("category %q: negative plot id %d", c.Name, id)
				}
			}
		}
	}
	return nil
}

func (cat *Catalog) Category(name string) *Category {
	for _, c := range cat.Categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Resolve looks up every known plot in t, category by category, ids in
// ascending order within each kind.
func (cat *Catalog) Resolve(t *Table) []Entry {
	var result []Entry
	for _, c := range cat.Categories {
		for _, id := range sortedIDs(c.Booleans) {
			result = append(result, Entry{
				Category: c.Name,
				Kind:     KindBool,
				ID:       id,
				Label:    c.Booleans[id],
				Present:  id < t.Booleans.Len(),
				Value:    t.Bool(id),
			})
		}
		for _, id := range sortedIDs(c.Integers) {
			v, ok := t.Int(id)
			result = append(result, Entry{Category: c.Name, Kind: KindInt, ID: id, Label: c.Integers[id], Present: ok, Value: v})
		}
		for _, id := range sortedIDs(c.Floats) {
			v, ok := t.Float(id)
			result = append(result, Entry{Category: c.Name, Kind: KindFloat, ID: id, Label: c.Floats[id], Present: ok, Value: v})
		}
	}
	return result
}

// Missing returns the entries the table is too short to hold.
func Missing(entries []Entry) []Entry {
	var result []Entry
	for _, e := range entries {
		if !e.Present {
			result = append(result, e)
		}
	}
	return result
}

func sortedIDs(m map[int]string) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
