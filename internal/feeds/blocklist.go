package feeds

import (
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Blocklist drops promotional entries before they reach the store.
type Blocklist struct {
	Keywords      []string // matched lowercase against title and description
	LinkPatterns  []*regexp.Regexp
	TitlePatterns []*regexp.Regexp
}

// DefaultBlocklist blocks common sponsored-content markers.
func DefaultBlocklist() *Blocklist {
	return &Blocklist{
		Keywords: []string{
			"sponsored",
			"advertisement",
			"paid content",
			"paid post",
			"partner content",
			"branded content",
			"brought to you by",
			"[ad]",
		},
		LinkPatterns: compilePatterns([]string{
			`/sponsored/`,
			`/branded-content/`,
			`/paid-post/`,
			`/advertisement/`,
			`doubleclick\.net`,
			`utm_source=paid`,
		}),
		TitlePatterns: compilePatterns([]string{
			`(?i)^sponsored:`,
			`(?i)^ad:`,
			`(?i)^promo:`,
		}),
	}
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Blocks reports whether item should be skipped. Entries without a
// headline are always skipped since they cannot be searched.
func (b *Blocklist) Blocks(item *gofeed.Item) bool {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return true
	}

	for _, re := range b.LinkPatterns {
		if re.MatchString(item.Link) {
			return true
		}
	}
	for _, re := range b.TitlePatterns {
		if re.MatchString(title) {
			return true
		}
	}

	text := strings.ToLower(title + "\n" + item.Description)
	for _, kw := range b.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
