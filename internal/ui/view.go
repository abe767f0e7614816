package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/highlight"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/store"
)

// linesPerResult is meta, headline, description and a blank separator.
const linesPerResult = 4

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, Title.Render("Search"))
	sections = append(sections, SearchBox.Width(max(a.width-4, 20)).Render(a.input.View()))
	sections = append(sections, RenderTabs(a.table, a.active))
	sections = append(sections, a.renderStatus())

	if a.err != nil {
		sections = append(sections, ErrorStyle.Render("Error: "+a.err.Error()))
	}

	footer := []string{}
	if a.showDebug {
		footer = append(footer, RenderDebugLine(a.ring, a.cache.Hits(), a.cache.Misses(), a.width))
	}
	footer = append(footer, RenderStatusBar(a.width))

	used := 0
	for _, s := range append(sections, footer...) {
		used += lipgloss.Height(s)
	}
	bodyHeight := max(a.height-used, linesPerResult)

	var body string
	switch {
	case a.ShowEmptyState():
		body = RenderEmptyState()
	case a.loading && len(a.results) == 0:
		body = EmptyHint.Render("Loading articles...")
	default:
		body = RenderResults(a.results, a.stable, a.cursor, a.width, bodyHeight, a.now())
	}

	sections = append(sections, body)
	sections = append(sections, footer...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderStatus() string {
	if a.ctl.Pending() {
		return Searching.Render(a.spinner.View() + " Searching...")
	}
	label := fmt.Sprintf("%d results", len(a.results))
	if len(a.results) == 1 {
		label = "1 result"
	}
	if a.stable != "" {
		label += fmt.Sprintf(" for %q", a.stable)
	}
	return Meta.Padding(0, 1).Render(label)
}

// RenderTabs renders the facet tabs with active selected.
func RenderTabs(table *facet.Table, active facet.ID) string {
	var tabs []string
	for _, f := range table.Facets() {
		style := InactiveTab
		if f.ID == active {
			style = ActiveTab
		}
		tabs = append(tabs, style.Render(f.Title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderEmptyState renders the no-results message.
func RenderEmptyState() string {
	return EmptyTitle.Render("No results found") + "\n" +
		EmptyHint.Render("Try searching with different keywords or check your spelling")
}

// RenderResults renders articles with query hits highlighted, scrolled so
// the cursor stays visible.
func RenderResults(articles []store.Article, query string, cursor, width, height int, now time.Time) string {
	perPage := max(height/linesPerResult, 1)
	offset := 0
	if cursor >= perPage {
		offset = cursor - perPage + 1
	}
	textWidth := max(width-4, 20)

	var b strings.Builder
	for i := offset; i < len(articles) && i < offset+perPage; i++ {
		a := articles[i]
		fields := highlight.ForArticle(a, query)

		headStyle := Headline
		marker := "  "
		if i == cursor {
			headStyle = SelectedHeadline
			marker = "› "
		}

		meta := CategoryBadge.Render(string(a.Category)) +
			RenderSpans(fields.Source, Meta, textWidth/2) +
			Meta.Render(" · "+FormatAge(now, a.PublishedAt))

		b.WriteString("  " + meta + "\n")
		b.WriteString(marker + RenderSpans(fields.Headline, headStyle, textWidth) + "\n")
		b.WriteString("  " + RenderSpans(fields.Description, Description, textWidth) + "\n")
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSpans styles matched spans with Match and the rest with base,
// cutting the text at limit runes.
func RenderSpans(spans []highlight.Span, base lipgloss.Style, limit int) string {
	var b strings.Builder
	remaining := limit
	for _, s := range spans {
		if remaining <= 0 {
			break
		}
		text := s.Text
		if n := utf8.RuneCountInString(text); n > remaining {
			text = truncateRunes(text, remaining)
		}
		remaining -= utf8.RuneCountInString(text)

		if s.Match {
			b.WriteString(Match.Render(text))
		} else {
			b.WriteString(base.Render(text))
		}
	}
	return b.String()
}

// truncateRunes shortens s to n runes, ending with an ellipsis.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}

// RenderDebugLine shows the newest telemetry events and cache counters.
func RenderDebugLine(ring *otel.RingBuffer, hits, misses, width int) string {
	parts := []string{fmt.Sprintf("cache %d/%d", hits, misses)}
	if ring != nil {
		for _, e := range ring.Last(3) {
			part := string(e.Kind)
			if e.Query != "" {
				part += fmt.Sprintf(" %q", e.Query)
			}
			parts = append(parts, part)
		}
	}
	return DebugLine.Render(truncateRunes(strings.Join(parts, " | "), max(width-2, 20)))
}

// RenderStatusBar renders the key hints.
func RenderStatusBar(width int) string {
	var hints []string
	for _, k := range statusKeys {
		h := k.Help()
		hints = append(hints, StatusBarKey.Render(h.Key)+StatusBarText.Render(":"+h.Desc))
	}
	return StatusBar.Width(width).Render(strings.Join(hints, "  "))
}
