package facet

import (
	"errors"
	"testing"

	"github.com/abelbrown/newsfeed/internal/store"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()

	wantOrder := []ID{MyFeed, AllNews, TopStories, Trending, Technology, Sports}
	got := tbl.IDs()
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d facets, got %d", len(wantOrder), len(got))
	}
	for i := range wantOrder {
		if got[i] != wantOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantOrder[i], got[i])
		}
	}
}

func TestAllows(t *testing.T) {
	tbl := Default()

	tests := []struct {
		facet ID
		cat   store.Category
		want  bool
	}{
		{MyFeed, store.CategoryTopStories, true},
		{MyFeed, store.CategoryTrending, true},
		{MyFeed, store.CategoryTechnology, false},
		{MyFeed, store.CategorySports, false},
		{AllNews, store.CategorySports, true},
		{AllNews, store.CategoryTechnology, true},
		{TopStories, store.CategoryTopStories, true},
		{TopStories, store.CategoryTrending, false},
		{Trending, store.CategoryTrending, true},
		{Technology, store.CategoryTechnology, true},
		{Sports, store.CategorySports, true},
		{Sports, store.CategoryTopStories, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.facet)+"/"+string(tt.cat), func(t *testing.T) {
			f, ok := tbl.Lookup(tt.facet)
			if !ok {
				t.Fatalf("facet %s missing", tt.facet)
			}
			if got := f.Allows(tt.cat); got != tt.want {
				t.Errorf("Allows(%s) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

func TestAllowsZeroValueFacet(t *testing.T) {
	f := Facet{ID: "custom", Categories: []store.Category{store.CategorySports}}
	if !f.Allows(store.CategorySports) {
		t.Error("expected hand-built facet to allow its category")
	}
	if f.Allows(store.CategoryTrending) {
		t.Error("expected hand-built facet to reject other categories")
	}
}

func TestParseID(t *testing.T) {
	tbl := Default()

	id, err := tbl.ParseID("  Trending ")
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if id != Trending {
		t.Errorf("expected trending, got %s", id)
	}

	if _, err := tbl.ParseID("weather"); !errors.Is(err, ErrUnknownFacet) {
		t.Errorf("expected ErrUnknownFacet, got %v", err)
	}
}

func TestNextPrev(t *testing.T) {
	tbl := Default()

	if got := tbl.Next(MyFeed); got != AllNews {
		t.Errorf("Next(myfeed) = %s, want allnews", got)
	}
	if got := tbl.Next(Sports); got != MyFeed {
		t.Errorf("Next(sports) = %s, want myfeed (wrap)", got)
	}
	if got := tbl.Prev(MyFeed); got != Sports {
		t.Errorf("Prev(myfeed) = %s, want sports (wrap)", got)
	}
	if got := tbl.Next("nope"); got != MyFeed {
		t.Errorf("Next(unknown) = %s, want myfeed", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "facets: []"},
		{"duplicate", "facets:\n  - {id: a, all: true}\n  - {id: a, all: true}"},
		{"no categories", "facets:\n  - {id: a}"},
		{"bad category", "facets:\n  - {id: a, categories: [weather]}"},
		{"empty id", "facets:\n  - {title: x, all: true}"},
		{"bad yaml", "facets: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseTitleDefaultsToID(t *testing.T) {
	tbl, err := Parse([]byte("facets:\n  - {id: everything, all: true}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f, _ := tbl.Lookup("everything")
	if f.Title != "everything" {
		t.Errorf("expected title 'everything', got %q", f.Title)
	}
}
