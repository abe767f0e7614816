package e2e

import (
	"path/filepath"
	"time"

	"github.com/abelbrown/newsfeed/internal/store"
)

// seedFixtureDB writes a small deterministic collection into dataDir so
// the TUI skips the built-in seed.
func seedFixtureDB(dataDir string) error {
	st, err := store.Open(filepath.Join(dataDir, "newsfeed.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	now := time.Now().UTC()
	articles := []store.Article{
		{
			ID:          "fixture-1",
			Headline:    "Fixture Quantum Chip",
			Description: "A deterministic article for UI tests.",
			Source:      "Fixture Wire",
			PublishedAt: now.Add(-time.Hour),
			Category:    store.CategoryTopStories,
		},
		{
			ID:          "fixture-2",
			Headline:    "Fixture Marathon Result",
			Description: "Another deterministic article.",
			Source:      "Fixture Wire",
			PublishedAt: now.Add(-2 * time.Hour),
			Category:    store.CategoryTopStories,
		},
	}
	_, err = st.SaveArticles(articles)
	return err
}
