package search

import (
	"sync"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/filter"
	"github.com/abelbrown/newsfeed/internal/store"
)

// Cache memoizes the most recent filter result. The key is the facet, the
// normalized query and the identity of the articles slice: the same backing
// array with the same length. Mutating a collection in place therefore
// requires a new slice to invalidate the entry.
//
// Safe for concurrent use. Returned slices are shared and must not be
// modified by callers.
type Cache struct {
	mu       sync.Mutex
	valid    bool
	facet    facet.ID
	query    string
	articles []store.Article
	result   []store.Article
	hits     int
	misses   int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns filter.Apply(articles, f, query), reusing the previous result
// when the key is unchanged. The second return reports a cache hit.
func (c *Cache) Get(articles []store.Article, f facet.Facet, query string) ([]store.Article, bool) {
	q := filter.NormalizeQuery(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.facet == f.ID && c.query == q && sameSlice(c.articles, articles) {
		c.hits++
		return c.result, true
	}

	c.misses++
	c.result = filter.Apply(articles, f, q)
	c.facet = f.ID
	c.query = q
	c.articles = articles
	c.valid = true
	return c.result, false
}

// Reset drops the cached entry. Counters are kept.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.articles = nil
	c.result = nil
}

// Hits returns how many lookups reused the cached result.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Misses returns how many lookups ran the filter.
func (c *Cache) Misses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

func sameSlice(a, b []store.Article) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
