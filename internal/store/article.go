package store

import (
	"errors"
	"fmt"
	"time"
)

// Category is the closed set of article categories.
type Category string

const (
	CategoryTopStories Category = "topstories"
	CategoryTrending   Category = "trending"
	CategoryTechnology Category = "technology"
	CategorySports     Category = "sports"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryTopStories, CategoryTrending, CategoryTechnology, CategorySports}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTopStories, CategoryTrending, CategoryTechnology, CategorySports:
		return true
	}
	return false
}

var (
	// ErrDuplicateID is returned when a collection contains the same ID twice.
	ErrDuplicateID = errors.New("duplicate article id")
	// ErrUnknownCategory is returned for categories outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")
)

// Article is one news article. Treat values as immutable once handed to
// the search core.
type Article struct {
	ID          string    `yaml:"id"`
	Headline    string    `yaml:"headline"`
	Description string    `yaml:"description"`
	Source      string    `yaml:"source"`
	PublishedAt time.Time `yaml:"published_at"`
	Category    Category  `yaml:"category"`
	ImageURL    string    `yaml:"image_url"`
}

// ValidateCollection checks that IDs are unique and categories are known.
func ValidateCollection(articles []Article) error {
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		if a.ID == "" {
			return fmt.Errorf("article %q: empty id", a.Headline)
		}
		if seen[a.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = true
		if !a.Category.Valid() {
			return fmt.Errorf("article %s: %w %q", a.ID, ErrUnknownCategory, a.Category)
		}
	}
	return nil
}

// Loader supplies the article collection to the search core.
type Loader interface {
	Articles() ([]Article, error)
}
