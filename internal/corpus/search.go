// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"strings"
)

// SearchResult is one article matching a corpus search.
type SearchResult struct {
	Title   string `json:"title" yaml:"title"`
	Link    string `json:"link" yaml:"link"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

const snippetLen = 160

// Search finds articles whose title or content matches query. With the
// FTS5 index the query uses FTS5 syntax and results are ranked by
// relevance; otherwise every whitespace-separated word must appear as a
// substring and results are in insertion order. maxResults <= 0 uses the
// store default.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		sqlText string
		args    []any
	)
	if s.fts {
		sqlText = `SELECT a.title, a.link, a.content
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?
			ORDER BY articles_fts.rank
			LIMIT ?`
		args = []any{query, maxResults}
	} else {
		var qb strings.Builder
		qb.WriteString(`SELECT title, link, content FROM articles WHERE 1=1`)
		for _, word := range strings.Fields(query) {
			qb.WriteString(` AND (title LIKE ? OR content LIKE ?)`)
			pattern := "%" + word + "%"
			args = append(args, pattern, pattern)
		}
		qb.WriteString(` ORDER BY rowid LIMIT ?`)
		args = append(args, maxResults)
		sqlText = qb.String()
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var content string
		if err := rows.Scan(&r.Title, &r.Link, &content); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Snippet = snippet(content)
		results = append(results, r)
	}
	return results, rows.Err()
}

func snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= snippetLen {
		return content
	}
	return string(runes[:snippetLen]) + "..."
}
