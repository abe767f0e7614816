package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/highlight"
	"github.com/abelbrown/newsfeed/internal/search"
	"github.com/abelbrown/newsfeed/internal/store"
	"github.com/abelbrown/newsfeed/internal/ui"
)

var (
	flagFacet string
	flagJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run one search and print highlighted results",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&flagFacet, "facet", "f", "", "category tab to search (default from config)")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "print spans as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	table := facet.Default()

	raw := flagFacet
	if raw == "" {
		raw = rt.cfg.Search.DefaultFacet
	}
	id, err := table.ParseID(raw)
	if err != nil {
		return fmt.Errorf("%w (valid: %v)", err, table.IDs())
	}

	articles, err := loadArticles(cmd.Context(), rt.cfg, rt.events)
	if err != nil {
		return err
	}

	s, err := search.New(articles, table, search.WithFacet(id), search.WithTelemetry(rt.events))
	if err != nil {
		return err
	}
	defer s.Close()
	s.SetRawQuery(strings.Join(args, " "))
	s.Flush()

	ui.SetTheme(rt.cfg.UI.Theme)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), s)
	}
	writeText(cmd.OutOrStdout(), s, time.Now())
	return nil
}

type jsonResult struct {
	ID       string           `json:"id"`
	Category store.Category   `json:"category"`
	Fields   highlight.Fields `json:"fields"`
}

func writeJSON(w io.Writer, s *search.Session) error {
	results := s.VisibleResults()
	out := make([]jsonResult, 0, len(results))
	for _, a := range results {
		out = append(out, jsonResult{ID: a.ID, Category: a.Category, Fields: s.HighlightedFields(a)})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, s *search.Session, now time.Time) {
	st := s.State()
	results := s.VisibleResults()
	if len(results) == 0 {
		fmt.Fprintln(w, ui.RenderEmptyState())
		return
	}
	label := "results"
	if len(results) == 1 {
		label = "result"
	}
	fmt.Fprintf(w, "%d %s in %s\n\n", len(results), label, st.ActiveFacet)
	for _, a := range results {
		f := s.HighlightedFields(a)
		fmt.Fprintln(w, ui.CategoryBadge.Render(string(a.Category))+ui.RenderSpans(f.Source, ui.Meta, 60)+ui.Meta.Render(" · "+ui.FormatAge(now, a.PublishedAt)))
		fmt.Fprintln(w, ui.RenderSpans(f.Headline, ui.Headline, 200))
		fmt.Fprintln(w, ui.RenderSpans(f.Description, ui.Description, 400))
		fmt.Fprintln(w)
	}
}
