// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/article-recommender/pkg/types"
)

// CSV column names. The layout is the tabular corpus format used by
// earlier article exports.
const (
	colTitle            = "title"
	colLink             = "link"
	colContent          = "content"
	colProcessedContent = "processedContent"
)

var csvHeader = []string{colTitle, colLink, colContent, colProcessedContent}

// ReadCSV parses a tabular corpus. The header must name title, link and
// content; processedContent is optional. Column order is free and extra
// columns are ignored. Imported articles carry no processing profile, so
// they are reprocessed before use.
func ReadCSV(r io.Reader) ([]types.Article, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{colTitle, colLink, colContent} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing %q column", required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var articles []types.Article
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record %d: %w", line, err)
		}
		a := types.Article{
			Title:            strings.TrimSpace(field(rec, colTitle)),
			Link:             strings.TrimSpace(field(rec, colLink)),
			Content:          field(rec, colContent),
			ProcessedContent: field(rec, colProcessedContent),
		}
		if a.Title == "" {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// WriteCSV writes articles in the tabular corpus format.
func WriteCSV(w io.Writer, articles []types.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, a := range articles {
		if err := cw.Write([]string{a.Title, a.Link, a.Content, a.ProcessedContent}); err != nil {
			return fmt.Errorf("writing CSV record %q: %w", a.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads a tabular corpus from r and merges it into the store.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (MergeSummary, error) {
	articles, err := ReadCSV(r)
	if err != nil {
		return MergeSummary{}, err
	}
	return s.Merge(ctx, articles)
}

// ExportCSV writes the stored corpus to w in insertion order.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, c.Articles())
}
