// Package server exposes search over HTTP. Each request carries a settled
// query, so there is no debouncing here.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/logging"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/search"
	"github.com/abelbrown/newsfeed/internal/store"
)

const GracefulShutdownTimeout = 10 * time.Second

// Config holds server settings.
type Config struct {
	Addr         string
	CORSOrigins  []string
	DefaultFacet facet.ID
	Events       *otel.Logger
}

// Server serves a fixed article collection.
type Server struct {
	Echo *echo.Echo

	cfg      Config
	articles []store.Article
	table    *facet.Table
	cache    *search.Cache
}

// New builds the echo app and registers routes. A nil table uses
// facet.Default.
func New(articles []store.Article, table *facet.Table, cfg Config) *Server {
	if table == nil {
		table = facet.Default()
	}
	if cfg.DefaultFacet == "" {
		cfg.DefaultFacet = facet.MyFeed
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = GlobalErrorHandler()

	s := &Server{
		Echo:     e,
		cfg:      cfg,
		articles: articles,
		table:    table,
		cache:    search.NewCache(),
	}
	s.setupMiddlewares()
	s.routes()
	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(RequestLogger(logging.WithPrefix("http"), s.cfg.Events))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet},
	}))
}

func (s *Server) routes() {
	s.Echo.GET("/healthz", s.handleHealth)
	s.Echo.GET("/facets", s.handleFacets)
	s.Echo.GET("/search", s.handleSearch)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		logging.Info("server listening", "addr", s.cfg.Addr)
		if err := s.Echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	s.cfg.Events.Info(otel.KindShutdown, "server", "graceful shutdown")
	return s.Echo.Shutdown(shutdownCtx)
}
