// Package feeds imports RSS and Atom entries as articles.
package feeds

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/newsfeed/internal/store"
)

// Parse reads a feed document and converts its entries to articles in
// document order. source overrides the feed title as the article source.
// Entries rejected by block are skipped; a nil block keeps everything.
func Parse(r io.Reader, source string, cat store.Category, block *Blocklist) ([]store.Article, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCategory, cat)
	}

	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if source == "" {
		source = strings.TrimSpace(feed.Title)
	}

	now := time.Now().UTC()
	articles := make([]store.Article, 0, len(feed.Items))
	seen := make(map[string]bool, len(feed.Items))

	for _, item := range feed.Items {
		if block != nil && block.Blocks(item) {
			continue
		}
		a := convertItem(item, source, cat, now)
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		articles = append(articles, a)
	}

	return articles, nil
}

func convertItem(item *gofeed.Item, source string, cat store.Category, fetched time.Time) store.Article {
	published := fetched
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	return store.Article{
		ID:          itemID(item),
		Headline:    CleanText(item.Title),
		Description: CleanText(description),
		Source:      source,
		PublishedAt: published,
		Category:    cat,
		ImageURL:    imageURL(item),
	}
}

// itemID is stable across imports for entries with a GUID or link, so the
// store's INSERT OR IGNORE deduplicates them.
func itemID(item *gofeed.Item) string {
	key := item.GUID
	if key == "" {
		key = item.Link
	}
	if key == "" {
		return uuid.NewString()
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}

func imageURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips markup, decodes entities and collapses whitespace.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
