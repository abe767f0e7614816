package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	articles, err := loadArticles(ctx, rt.cfg, rt.events)
	if err != nil {
		return err
	}

	addr := rt.cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}

	srv := server.New(articles, facet.Default(), server.Config{
		Addr:         addr,
		CORSOrigins:  rt.cfg.Server.CORSOrigins,
		DefaultFacet: facet.ID(rt.cfg.Search.DefaultFacet),
		Events:       rt.events,
	})
	return srv.Run(ctx)
}
