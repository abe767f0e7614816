// Package facet defines the search tabs and the fixed mapping from each
// tab to the article categories it shows.
package facet

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/newsfeed/internal/store"
	"gopkg.in/yaml.v3"
)

// ID identifies a facet (one search tab).
type ID string

const (
	MyFeed     ID = "myfeed"
	AllNews    ID = "allnews"
	TopStories ID = "topstories"
	Trending   ID = "trending"
	Technology ID = "technology"
	Sports     ID = "sports"
)

// ErrUnknownFacet is returned for facet IDs missing from the table.
var ErrUnknownFacet = errors.New("unknown facet")

//go:embed facets.yaml
var defaultYAML []byte

// Facet is one named filter bucket.
type Facet struct {
	ID         ID
	Title      string
	All        bool
	Categories []store.Category

	allowed map[store.Category]bool
}

// Allows reports whether articles of category c pass this facet.
func (f Facet) Allows(c store.Category) bool {
	if f.All {
		return true
	}
	if f.allowed != nil {
		return f.allowed[c]
	}
	for _, fc := range f.Categories {
		if fc == c {
			return true
		}
	}
	return false
}

// Table is the ordered, read-only facet configuration.
type Table struct {
	facets []Facet
	byID   map[ID]int
}

type tableFile struct {
	Facets []struct {
		ID         string   `yaml:"id"`
		Title      string   `yaml:"title"`
		All        bool     `yaml:"all"`
		Categories []string `yaml:"categories"`
	} `yaml:"facets"`
}

var defaultTable = mustParse(defaultYAML)

func mustParse(data []byte) *Table {
	t, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("facet: embedded table: %v", err))
	}
	return t
}

// Default returns the table compiled into the binary.
func Default() *Table {
	return defaultTable
}

// Parse builds a Table from YAML. Facet IDs must be unique, and every
// facet must either set all or name at least one known category.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse facets: %w", err)
	}
	if len(f.Facets) == 0 {
		return nil, errors.New("parse facets: no facets defined")
	}

	t := &Table{byID: make(map[ID]int, len(f.Facets))}
	for _, raw := range f.Facets {
		id := ID(strings.TrimSpace(raw.ID))
		if id == "" {
			return nil, errors.New("parse facets: facet with empty id")
		}
		if _, dup := t.byID[id]; dup {
			return nil, fmt.Errorf("parse facets: duplicate facet %q", id)
		}

		fc := Facet{ID: id, Title: raw.Title, All: raw.All}
		if fc.Title == "" {
			fc.Title = string(id)
		}
		if !fc.All {
			if len(raw.Categories) == 0 {
				return nil, fmt.Errorf("parse facets: facet %q has no categories", id)
			}
			fc.allowed = make(map[store.Category]bool, len(raw.Categories))
			for _, c := range raw.Categories {
				cat := store.Category(c)
				if !cat.Valid() {
					return nil, fmt.Errorf("parse facets: facet %q: %w %q", id, store.ErrUnknownCategory, c)
				}
				fc.Categories = append(fc.Categories, cat)
				fc.allowed[cat] = true
			}
		}

		t.byID[id] = len(t.facets)
		t.facets = append(t.facets, fc)
	}
	return t, nil
}

// Lookup returns the facet for id.
func (t *Table) Lookup(id ID) (Facet, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Facet{}, false
	}
	return t.facets[i], true
}

// IDs returns facet IDs in declaration (tab) order.
func (t *Table) IDs() []ID {
	ids := make([]ID, len(t.facets))
	for i, f := range t.facets {
		ids[i] = f.ID
	}
	return ids
}

// Facets returns a copy of the facets in tab order.
func (t *Table) Facets() []Facet {
	out := make([]Facet, len(t.facets))
	copy(out, t.facets)
	return out
}

// Next returns the facet after id, wrapping around. Unknown ids map to the first facet.
func (t *Table) Next(id ID) ID {
	i, ok := t.byID[id]
	if !ok {
		return t.facets[0].ID
	}
	return t.facets[(i+1)%len(t.facets)].ID
}

// Prev returns the facet before id, wrapping around.
func (t *Table) Prev(id ID) ID {
	i, ok := t.byID[id]
	if !ok {
		return t.facets[0].ID
	}
	return t.facets[(i-1+len(t.facets))%len(t.facets)].ID
}

// ParseID validates s against the table.
func (t *Table) ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := t.byID[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFacet, s)
	}
	return id, nil
}
