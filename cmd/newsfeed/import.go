package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/newsfeed/internal/config"
	"github.com/abelbrown/newsfeed/internal/feeds"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/store"
	"github.com/abelbrown/newsfeed/internal/work"
)

var (
	flagCategory string
	flagName     string
	flagWorkers  int
)

var importCmd = &cobra.Command{
	Use:   "import [file|url...]",
	Short: "Import RSS/Atom feeds into the local store",
	Long: `Import parses RSS or Atom from local files or URLs and saves the articles.
With no arguments it fetches every source listed in the config file.`,
	RunE: runImport,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in sample collection into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveAll(cmd, rt.cfg.Store.Path, store.Seed())
	},
}

func init() {
	importCmd.Flags().StringVarP(&flagCategory, "category", "c", string(store.CategoryTopStories), "category for imported articles")
	importCmd.Flags().StringVar(&flagName, "name", "", "source name (default: the feed title)")
	importCmd.Flags().IntVar(&flagWorkers, "workers", 4, "feeds processed at once")
}

func runImport(cmd *cobra.Command, args []string) error {
	sources, err := importSources(rt.cfg, args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("nothing to import: pass files or URLs, or add feeds.sources to %s", config.ConfigPath())
	}

	fetcher := feeds.NewFetcher(
		time.Duration(rt.cfg.Feeds.TimeoutSeconds)*time.Second,
		rt.cfg.Feeds.RequestsPerSecond,
		rt.events,
	)

	// Sources run concurrently; results keep argument order.
	pool := work.NewPool(cmd.Context(), flagWorkers)
	defer pool.Stop()
	results := make([][]store.Article, len(sources))
	for i, src := range sources {
		typ, verb := work.TypeParse, "Parsing "
		if isURL(src.URL) {
			typ, verb = work.TypeFetch, "Fetching "
		}
		pool.Submit(typ, verb+src.URL, src.URL, func(ctx context.Context) (string, error) {
			articles, err := readSource(ctx, fetcher, src)
			if err != nil {
				return "", err
			}
			results[i] = articles
			return fmt.Sprintf("%d articles", len(articles)), nil
		})
	}
	pool.Wait()

	// One bad feed does not abort the rest.
	for _, item := range pool.Completed() {
		if item.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", item.Source, item.Error)
		}
	}

	var all []store.Article
	for _, articles := range results {
		all = append(all, articles...)
	}
	return saveAll(cmd, rt.cfg.Store.Path, all)
}

// importSources turns arguments into sources, falling back to the config.
func importSources(cfg *config.Config, args []string) ([]feeds.Source, error) {
	if len(args) == 0 {
		sources := make([]feeds.Source, 0, len(cfg.Feeds.Sources))
		for _, s := range cfg.Feeds.Sources {
			sources = append(sources, feeds.Source{Name: s.Name, URL: s.URL, Category: store.Category(s.Category)})
		}
		return sources, nil
	}

	cat := store.Category(strings.ToLower(strings.TrimSpace(flagCategory)))
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCategory, flagCategory)
	}
	sources := make([]feeds.Source, 0, len(args))
	for _, arg := range args {
		sources = append(sources, feeds.Source{Name: flagName, URL: arg, Category: cat})
	}
	return sources, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func readSource(ctx context.Context, fetcher *feeds.Fetcher, src feeds.Source) ([]store.Article, error) {
	if isURL(src.URL) {
		return fetcher.Fetch(ctx, src)
	}
	f, err := os.Open(src.URL)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return feeds.Parse(f, src.Name, src.Category, feeds.DefaultBlocklist())
}

func saveAll(cmd *cobra.Command, path string, articles []store.Article) error {
	st, err := openStore(path, rt.events)
	if err != nil {
		return err
	}
	defer st.Close()

	start := time.Now()
	added, err := st.SaveArticles(articles)
	if err != nil {
		rt.events.Error(otel.KindStoreError, "store", err)
		return err
	}
	rt.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindStoreSave,
		Comp:  "store",
		Count: added,
		Dur:   time.Since(start),
		Extra: map[string]any{"received": len(articles)},
	})
	total, err := st.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %d new articles (%d total)\n", added, total)
	return nil
}
