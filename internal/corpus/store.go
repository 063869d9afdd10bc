// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-recommender/pkg/types"
)

const dbFile = "corpus.db"

// Store persists articles in a SQLite database. Writers are serialized;
// readers load a consistent snapshot at any time.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
	fts        bool

	// mu serializes merges so append and dedup happen as one step.
	mu sync.Mutex
}

// NewStore opens or creates dataDir/corpus.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = types.DefaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultSearchResults
	}

	s := &Store{db: db, dataDir: dataDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string { return s.dataDir }

// FullText reports whether the FTS5 index is available.
func (s *Store) FullText() bool { return s.fts }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL UNIQUE,
			link TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			processed_content TEXT NOT NULL DEFAULT '',
			processed_profile TEXT NOT NULL DEFAULT '',
			added_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	// FTS5 is only compiled in with the sqlite_fts5 build tag; without it
	// search falls back to LIKE matching.
	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE articles_fts USING fts5(title, content, content=articles, content_rowid=rowid)`,
	); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
			INSERT INTO articles_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
		END`,
		`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
		END`,
		`CREATE TRIGGER articles_au AFTER UPDATE OF title, content ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			INSERT INTO articles_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// Load reads every article in insertion order.
func (s *Store) Load(ctx context.Context) (*Corpus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, link, content, processed_content, processed_profile
		 FROM articles ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var a types.Article
		if err := rows.Scan(&a.Title, &a.Link, &a.Content, &a.ProcessedContent, &a.ProcessedProfile); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return New(articles), nil
}

// MergeSummary holds counts from a merge.
type MergeSummary struct {
	Added   int
	Skipped int
}

// Total returns the number of articles offered.
func (m MergeSummary) Total() int { return m.Added + m.Skipped }

// Merge appends articles whose title and link are both new. Existing rows
// are never overwritten.
func (s *Store) Merge(ctx context.Context, articles []types.Article) (MergeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MergeSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO articles (title, link, content, processed_content, processed_profile, added_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return MergeSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	var summary MergeSummary
	for _, a := range articles {
		res, err := stmt.ExecContext(ctx, a.Title, a.Link, a.Content, a.ProcessedContent, a.ProcessedProfile, now)
		if err != nil {
			return MergeSummary{}, fmt.Errorf("inserting article %q: %w", a.Title, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			summary.Added++
		} else {
			summary.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return MergeSummary{}, fmt.Errorf("committing merge: %w", err)
	}
	return summary, nil
}

// SaveProcessed stores the processed content and profile of articles that
// already exist, keyed by title. It returns the number of rows updated.
func (s *Store) SaveProcessed(ctx context.Context, articles []types.Article) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE articles SET processed_content = ?, processed_profile = ? WHERE title = ?`)
	if err != nil {
		return 0, fmt.Errorf("preparing update: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, a := range articles {
		res, err := stmt.ExecContext(ctx, a.ProcessedContent, a.ProcessedProfile, a.Title)
		if err != nil {
			return 0, fmt.Errorf("updating article %q: %w", a.Title, err)
		}
		n, _ := res.RowsAffected()
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing update: %w", err)
	}
	return updated, nil
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

// Stats summarizes the stored corpus.
type Stats struct {
	Articles int            `json:"articles" yaml:"articles"`
	Profiles map[string]int `json:"profiles" yaml:"profiles"`
	FullText bool           `json:"full_text" yaml:"full_text"`
}

// Stats counts articles overall and per processing profile. Unprocessed
// articles are counted under the empty profile.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT processed_profile, count(*) FROM articles GROUP BY processed_profile ORDER BY processed_profile`)
	if err != nil {
		return Stats{}, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	st := Stats{Profiles: make(map[string]int), FullText: s.fts}
	for rows.Next() {
		var profile string
		var n int
		if err := rows.Scan(&profile, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning stats: %w", err)
		}
		st.Profiles[profile] = n
		st.Articles += n
	}
	return st, rows.Err()
}
