package server

import (
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/highlight"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/store"
)

const maxQueryLen = 256

type facetResponse struct {
	ID         facet.ID         `json:"id"`
	Title      string           `json:"title"`
	All        bool             `json:"all,omitempty"`
	Categories []store.Category `json:"categories"`
}

type searchResponse struct {
	Facet   facet.ID       `json:"facet"`
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID          string           `json:"id"`
	Category    store.Category   `json:"category"`
	Source      string           `json:"source"`
	PublishedAt time.Time        `json:"publishedAt"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Headline    []highlight.Span `json:"headline"`
	Description []highlight.Span `json:"description"`
	SourceSpans []highlight.Span `json:"source_spans"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"articles": len(s.articles),
	})
}

func (s *Server) handleFacets(c echo.Context) error {
	facets := s.table.Facets()
	out := make([]facetResponse, 0, len(facets))
	for _, f := range facets {
		cats := f.Categories
		if cats == nil {
			cats = []store.Category{}
		}
		out = append(out, facetResponse{ID: f.ID, Title: f.Title, All: f.All, Categories: cats})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleSearch(c echo.Context) error {
	start := time.Now()

	id := s.cfg.DefaultFacet
	if raw := c.QueryParam("facet"); raw != "" {
		parsed, err := s.table.ParseID(raw)
		if err != nil {
			return NewValidationWrap("invalid facet", err)
		}
		id = parsed
	}
	f, ok := s.table.Lookup(id)
	if !ok {
		return NewValidationWrap("invalid facet", errors.New(string(id)))
	}

	q := c.QueryParam("q")
	if utf8.RuneCountInString(q) > maxQueryLen {
		return NewValidation("query too long")
	}

	articles, hit := s.cache.Get(s.articles, f, q)

	resp := searchResponse{
		Facet:   f.ID,
		Query:   q,
		Count:   len(articles),
		Results: make([]searchResult, 0, len(articles)),
	}
	for _, a := range articles {
		fields := highlight.ForArticle(a, q)
		resp.Results = append(resp.Results, searchResult{
			ID:          a.ID,
			Category:    a.Category,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
			ImageURL:    a.ImageURL,
			Headline:    fields.Headline,
			Description: fields.Description,
			SourceSpans: fields.Source,
		})
	}

	cache := "miss"
	if hit {
		cache = "hit"
	}
	s.cfg.Events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindSearchComplete,
		Comp:  "server",
		Facet: string(f.ID),
		Query: q,
		Count: len(articles),
		Dur:   time.Since(start),
		Extra: map[string]any{"cache": cache},
	})

	return c.JSON(http.StatusOK, resp)
}
