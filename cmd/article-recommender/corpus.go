// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/preprocess"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the article corpus (import, export, stats, search, reprocess)",
	Long: `Corpus manages the local SQLite article database that recommendations are
drawn from. Use subcommands to import or export the tabular corpus format,
inspect it, search it, or recompute processed content.`,
}

// --- import subcommand ---

var corpusImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import articles from a CSV file",
	Long: `Import reads a CSV file with title, link, content and (optionally)
processedContent columns and merges its rows into the corpus. Rows whose
title or link is already stored are skipped. Imported rows are reprocessed
on first use.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusImport,
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.ImportCSV(context.Background(), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported: %d, skipped: %d\n", summary.Added, summary.Skipped)
	return nil
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus to CSV, YAML or JSON",
	Long: `Export writes the corpus in insertion order. CSV goes to --output (stdout
when omitted); YAML and JSON are written to <data-dir>/export.yaml or
export.json.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch format {
	case "csv", "":
		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := store.ExportCSV(ctx, w); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
		}
	case "yaml":
		path, err := store.ExportYAML(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	case "json":
		path, err := store.ExportJSON(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	default:
		return fmt.Errorf("unsupported format %q: use csv, yaml or json", format)
	}
	return nil
}

// --- stats subcommand ---

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus size and preprocessing profiles",
	RunE:  runCorpusStats,
}

func runCorpusStats(cmd *cobra.Command, args []string) error {
	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "articles:  %d\n", st.Articles)
	fmt.Fprintf(w, "full-text: %t\n", st.FullText)
	profiles := make([]string, 0, len(st.Profiles))
	for p := range st.Profiles {
		profiles = append(profiles, p)
	}
	sort.Strings(profiles)
	for _, p := range profiles {
		name := p
		if name == "" {
			name = "(unprocessed)"
		}
		fmt.Fprintf(w, "  %-20s %d\n", name, st.Profiles[p])
	}
	return nil
}

// --- search subcommand ---

var corpusSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search article titles and content",
	Long: `Search finds stored articles by title and content. When the SQLite
driver provides FTS5 the query uses FTS5 syntax and results are ranked;
otherwise every word must appear somewhere in the article.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCorpusSearch,
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s - %s\n   %s\n", i+1, r.Title, r.Link, r.Snippet)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- reprocess subcommand ---

var corpusReprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Recompute processed content for the configured preprocessing",
	Long: `Reprocess recomputes the processed content of every article that was
produced by a different tokenizer/stemmer configuration, or never processed,
and stores the result. Use --all to reprocess every article.`,
	RunE: runCorpusReprocess,
}

func runCorpusReprocess(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	pipeline, err := preprocess.NewPipeline(cfg.Preprocess, preprocess.EnglishStopWords())
	if err != nil {
		return err
	}

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	snapshot, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if all {
		articles := snapshot.Articles()
		for i := range articles {
			articles[i].ProcessedProfile = ""
		}
		snapshot = corpus.New(articles)
	}

	_, refreshed := snapshot.Refresh(pipeline)
	n, err := store.SaveProcessed(ctx, refreshed)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reprocessed %d of %d articles (%s)\n", n, snapshot.Len(), pipeline.Profile())
	return nil
}

func init() {
	corpusExportCmd.Flags().String("format", "csv", "export format: csv, yaml or json")
	corpusExportCmd.Flags().String("output", "", "CSV output file (default stdout)")

	corpusSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	corpusSearchCmd.Flags().Bool("json", false, "output results as JSON")
	corpusCmd.PersistentFlags().Int("max-results", 20, "default number of search results")
	bindFlag(corpusCmd.PersistentFlags().Lookup("max-results"), "store.max_results")

	corpusReprocessCmd.Flags().Bool("all", false, "reprocess every article")
	addPreprocessFlags(corpusReprocessCmd.Flags())

	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	corpusCmd.AddCommand(corpusStatsCmd)
	corpusCmd.AddCommand(corpusSearchCmd)
	corpusCmd.AddCommand(corpusReprocessCmd)

	rootCmd.AddCommand(corpusCmd)
}
