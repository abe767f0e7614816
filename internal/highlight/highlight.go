// Package highlight splits text into matched and unmatched spans for
// rendering search hits.
package highlight

import (
	"regexp"
	"strings"

	"github.com/abelbrown/newsfeed/internal/store"
)

// Span is a contiguous piece of the original text.
type Span struct {
	Text  string `json:"text"`
	Match bool   `json:"isMatch"`
}

// Fields holds the spans for each searchable article field.
type Fields struct {
	Headline    []Span `json:"headline"`
	Description []Span `json:"description"`
	Source      []Span `json:"source"`
}

// Split cuts text at every non-overlapping, case-insensitive occurrence of
// query. The query is literal text: pattern metacharacters match
// themselves. Matched spans keep the casing found in text, and joining all
// spans reproduces text exactly.
//
// A blank query yields one unmatched span covering the whole text.
func Split(text, query string) []Span {
	q := strings.TrimSpace(query)
	if q == "" || text == "" {
		return []Span{{Text: text}}
	}

	re := compile(q)
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start > prev {
			spans = append(spans, Span{Text: text[prev:start]})
		}
		spans = append(spans, Span{Text: text[start:end], Match: true})
		prev = end
	}
	if prev < len(text) {
		spans = append(spans, Span{Text: text[prev:]})
	}

	return spans
}

// compile builds a case-insensitive matcher for literal q. QuoteMeta
// guarantees the expression is valid, so MustCompile cannot panic.
func compile(q string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
}

// Join concatenates span texts.
func Join(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// HasMatch reports whether any span is a match.
func HasMatch(spans []Span) bool {
	for _, s := range spans {
		if s.Match {
			return true
		}
	}
	return false
}

// ForArticle highlights the searchable fields of a against query.
func ForArticle(a store.Article, query string) Fields {
	q := strings.TrimSpace(query)
	if q == "" {
		return Fields{
			Headline:    []Span{{Text: a.Headline}},
			Description: []Span{{Text: a.Description}},
			Source:      []Span{{Text: a.Source}},
		}
	}
	return Fields{
		Headline:    Split(a.Headline, q),
		Description: Split(a.Description, q),
		Source:      Split(a.Source, q),
	}
}
