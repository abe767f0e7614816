package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSource reads the article collection from a Postgres news_articles table.
// It is read-only; ingestion into Postgres happens elsewhere.
type PGSource struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

var _ Loader = (*PGSource)(nil)

const pgArticlesQuery = `
	SELECT id, headline, COALESCE(description, ''), COALESCE(source, ''),
		published_at, category, COALESCE(image_url, '')
	FROM news_articles
	ORDER BY published_at DESC, id ASC
`

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PGSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}

	return &PGSource{pool: pool, timeout: 10 * time.Second}, nil
}

// Close releases the pool.
func (p *PGSource) Close() {
	p.pool.Close()
}

// Articles loads the full collection. Rows with unknown categories are
// rejected so the core only ever sees a validated collection.
func (p *PGSource) Articles() ([]Article, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, pgArticlesQuery)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, scanPGArticle)
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	if err := ValidateCollection(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func scanPGArticle(row pgx.CollectableRow) (Article, error) {
	var a Article
	var category string
	err := row.Scan(&a.ID, &a.Headline, &a.Description, &a.Source, &a.PublishedAt, &category, &a.ImageURL)
	a.Category = Category(category)
	return a, err
}
