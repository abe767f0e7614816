package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive search screen (default)",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := rt.cfg
	ctx := cmd.Context()

	ui.SetTheme(rt.cfg.UI.Theme)
	app := ui.NewApp(ui.Options{
		Load: func() tea.Cmd {
			return func() tea.Msg {
				articles, err := loadArticles(ctx, cfg, rt.events)
				return ui.ArticlesLoaded{Articles: articles, Err: err}
			}
		},
		Facet:     facet.ID(cfg.Search.DefaultFacet),
		Interval:  time.Duration(cfg.Search.DebounceMs) * time.Millisecond,
		Events:    rt.events,
		Ring:      rt.ring,
		ShowDebug: cfg.UI.ShowDebug,
	})

	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
