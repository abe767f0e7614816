// Package store provides SQLite persistence for the article collection.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Loader = (*Store)(nil)

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the articles table. position keeps supply order so
// Articles() returns the collection exactly as it was handed in.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		headline TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		published_at DATETIME NOT NULL,
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_articles_position ON articles(position);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveArticles stores articles in the order given, returning the count of
// new rows. Existing IDs are silently ignored via INSERT OR IGNORE.
// Articles with an unknown category are rejected before anything is written.
func (s *Store) SaveArticles(articles []Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	for _, a := range articles {
		if !a.Category.Valid() {
			return 0, fmt.Errorf("article %s: %w %q", a.ID, ErrUnknownCategory, a.Category)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM articles").Scan(&next); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO articles (
			id, position, headline, description, source, published_at, category, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, a := range articles {
		result, err := stmt.Exec(
			a.ID,
			next,
			a.Headline,
			a.Description,
			a.Source,
			a.PublishedAt.UTC(),
			string(a.Category),
			a.ImageURL,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", a.ID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if affected > 0 {
			newCount++
			next++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return newCount, nil
}

// Articles returns the whole collection in supply order.
// Thread-safe: acquires read lock.
func (s *Store) Articles() ([]Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryArticles(`
		SELECT id, headline, description, source, published_at, category, image_url
		FROM articles
		ORDER BY position ASC
	`)
}

// ArticlesByCategory returns the articles of one category in supply order.
func (s *Store) ArticlesByCategory(c Category) ([]Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryArticles(`
		SELECT id, headline, description, source, published_at, category, image_url
		FROM articles
		WHERE category = ?
		ORDER BY position ASC
	`, string(c))
}

// Count returns the number of stored articles.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// queryArticles executes a query and scans results into Articles.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) queryArticles(query string, args ...any) ([]Article, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		var a Article
		var category string
		var published time.Time
		if err := rows.Scan(
			&a.ID,
			&a.Headline,
			&a.Description,
			&a.Source,
			&published,
			&category,
			&a.ImageURL,
		); err != nil {
			return nil, err
		}
		a.PublishedAt = published
		a.Category = Category(category)
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
