// Package filter provides pure filter functions for articles.
// All functions are simple: []Article in, []Article out. No side effects.
// Every function preserves the relative order of its input.
package filter

import (
	"strings"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/store"
)

// Apply narrows articles to the facet, then to the query.
// An empty or whitespace-only query applies no text narrowing.
func Apply(articles []store.Article, f facet.Facet, query string) []store.Article {
	return ByQuery(ByFacet(articles, f), query)
}

// ByFacet keeps only articles whose category the facet allows.
func ByFacet(articles []store.Article, f facet.Facet) []store.Article {
	if len(articles) == 0 {
		return []store.Article{}
	}

	result := make([]store.Article, 0, len(articles))
	for _, a := range articles {
		if f.Allows(a.Category) {
			result = append(result, a)
		}
	}

	return result
}

// ByQuery keeps articles whose headline, description or source contains
// the query, case-insensitively. Only those three fields are searched.
func ByQuery(articles []store.Article, query string) []store.Article {
	if len(articles) == 0 {
		return []store.Article{}
	}

	q := NormalizeQuery(query)
	if q == "" {
		result := make([]store.Article, len(articles))
		copy(result, articles)
		return result
	}

	result := make([]store.Article, 0, len(articles))
	for _, a := range articles {
		if Matches(a, q) {
			result = append(result, a)
		}
	}

	return result
}

// Matches reports whether a normalized query occurs in any searched field.
func Matches(a store.Article, normalized string) bool {
	return strings.Contains(strings.ToLower(a.Headline), normalized) ||
		strings.Contains(strings.ToLower(a.Description), normalized) ||
		strings.Contains(strings.ToLower(a.Source), normalized)
}

// NormalizeQuery trims and lower-cases raw user text for comparison.
// The result is "" when there is nothing to filter on.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
