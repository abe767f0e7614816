package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen(t *testing.T) {
	st := openTest(t)

	var name string
	err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='articles'").Scan(&name)
	if err != nil {
		t.Fatalf("articles table not created: %v", err)
	}
	if name != "articles" {
		t.Errorf("expected table name 'articles', got %q", name)
	}
}

func TestSaveArticlesPreservesSupplyOrder(t *testing.T) {
	st := openTest(t)

	now := time.Now().UTC().Truncate(time.Second)
	// Published times deliberately out of order: storage must not re-sort.
	articles := []Article{
		{ID: "b", Headline: "Second oldest", Category: CategoryTrending, PublishedAt: now.Add(-2 * time.Hour)},
		{ID: "a", Headline: "Newest", Category: CategoryTopStories, PublishedAt: now},
		{ID: "c", Headline: "Oldest", Category: CategorySports, PublishedAt: now.Add(-5 * time.Hour)},
	}

	count, err := st.SaveArticles(articles)
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 new articles, got %d", count)
	}

	got, err := st.Articles()
	if err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	for i, want := range []string{"b", "a", "c"} {
		if got[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
	if !got[1].PublishedAt.Equal(now) {
		t.Errorf("expected published %v, got %v", now, got[1].PublishedAt)
	}
	if got[2].Category != CategorySports {
		t.Errorf("expected category sports, got %q", got[2].Category)
	}
}

func TestSaveArticlesDuplicate(t *testing.T) {
	st := openTest(t)

	a := Article{ID: "1", Headline: "Original", Category: CategoryTechnology, PublishedAt: time.Now()}
	if _, err := st.SaveArticles([]Article{a}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	a.Headline = "Replacement"
	count, err := st.SaveArticles([]Article{a, {ID: "2", Headline: "New", Category: CategorySports, PublishedAt: time.Now()}})
	if err != nil {
		t.Fatalf("SaveArticles duplicate failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 new article, got %d", count)
	}

	got, err := st.Articles()
	if err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	// INSERT OR IGNORE keeps the first version
	if got[0].Headline != "Original" {
		t.Errorf("expected original headline, got %q", got[0].Headline)
	}
	if got[1].ID != "2" {
		t.Errorf("expected appended article 2 last, got %s", got[1].ID)
	}
}

func TestSaveArticlesRejectsUnknownCategory(t *testing.T) {
	st := openTest(t)

	_, err := st.SaveArticles([]Article{
		{ID: "ok", Headline: "fine", Category: CategorySports, PublishedAt: time.Now()},
		{ID: "bad", Headline: "nope", Category: "weather", PublishedAt: time.Now()},
	})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}

	n, err := st.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing written, got %d rows", n)
	}
}

func TestArticlesEmpty(t *testing.T) {
	st := openTest(t)

	got, err := st.Articles()
	if err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if got == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 articles, got %d", len(got))
	}
}

func TestArticlesByCategory(t *testing.T) {
	st := openTest(t)

	if _, err := st.SaveArticles(Seed()); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	tests := []struct {
		cat  Category
		want []string
	}{
		{CategoryTopStories, []string{"1", "2", "3"}},
		{CategoryTrending, []string{"4", "5"}},
		{CategoryTechnology, []string{"6", "7", "8"}},
		{CategorySports, []string{"9", "10"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			got, err := st.ArticlesByCategory(tt.cat)
			if err != nil {
				t.Fatalf("ArticlesByCategory failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d articles, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestConcurrentSaveAndRead(t *testing.T) {
	st := openTest(t)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			batch := make([]Article, 5)
			for i := range batch {
				batch[i] = Article{
					ID:          fmt.Sprintf("w%d-%d", w, i),
					Headline:    "x",
					Category:    CategoryTrending,
					PublishedAt: time.Now(),
				}
			}
			if _, err := st.SaveArticles(batch); err != nil {
				t.Errorf("SaveArticles: %v", err)
			}
			if _, err := st.Articles(); err != nil {
				t.Errorf("Articles: %v", err)
			}
		}(w)
	}
	wg.Wait()

	n, err := st.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 20 {
		t.Errorf("expected 20 articles, got %d", n)
	}
}
