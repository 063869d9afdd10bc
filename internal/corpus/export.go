// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one article in a YAML or JSON export.
type ExportEntry struct {
	Title            string `json:"title" yaml:"title"`
	Link             string `json:"link" yaml:"link"`
	Content          string `json:"content" yaml:"content"`
	ProcessedContent string `json:"processed_content,omitempty" yaml:"processed_content,omitempty"`
	ProcessedProfile string `json:"processed_profile,omitempty" yaml:"processed_profile,omitempty"`
}

// ExportYAML writes the corpus to dataDir/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the corpus to dataDir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus for export: %w", err)
	}

	articles := c.Articles()
	entries := make([]ExportEntry, len(articles))
	for i, a := range articles {
		entries[i] = ExportEntry{
			Title:            a.Title,
			Link:             a.Link,
			Content:          a.Content,
			ProcessedContent: a.ProcessedContent,
			ProcessedProfile: a.ProcessedProfile,
		}
	}
	return entries, nil
}
