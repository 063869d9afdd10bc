// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/recommend"
	"github.com/pdiddy/article-recommender/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [titles...]",
	Short: "Recommend articles similar to a reading history",
	Long: `Recommend ranks corpus articles by similarity to the given history titles.
Titles missing from the corpus are fetched from the encyclopedia and the
corpus is expanded by crawling outward from them, unless --offline is set.
With --persist the expanded corpus is written back to the database.

History titles are given as arguments or as a comma-separated --history list.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("history", "", "comma-separated history titles")
	recommendCmd.Flags().Int("top-n", types.DefaultTopN, "number of recommendations")
	recommendCmd.Flags().Int("explain", 0, "number of explanation terms per recommendation (0 = none)")
	recommendCmd.Flags().Int("max-expansion", types.DefaultMaxExpansion, "articles collected per fetched history title, itself included")
	recommendCmd.Flags().Bool("offline", false, "rank the stored corpus without fetching")
	recommendCmd.Flags().Bool("persist", false, "store expanded articles in the corpus database")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")
	bindFlag(recommendCmd.Flags().Lookup("top-n"), "recommend.top_n")
	bindFlag(recommendCmd.Flags().Lookup("explain"), "recommend.explain_terms")
	bindFlag(recommendCmd.Flags().Lookup("max-expansion"), "crawl.max_expansion")
	bindFlag(recommendCmd.Flags().Lookup("persist"), "server.persist")
	addPreprocessFlags(recommendCmd.Flags())

	rootCmd.AddCommand(recommendCmd)
}

// parseHistory merges positional titles with a comma-separated list,
// dropping blanks.
func parseHistory(args []string, list string) []string {
	all := append(append([]string(nil), args...), strings.Split(list, ",")...)
	var history []string
	for _, t := range all {
		if t = strings.TrimSpace(t); t != "" {
			history = append(history, t)
		}
	}
	return history
}

func runRecommend(cmd *cobra.Command, args []string) error {
	list, _ := cmd.Flags().GetString("history")
	history := parseHistory(args, list)
	if len(history) == 0 {
		return fmt.Errorf("provide one or more history titles")
	}
	offline, _ := cmd.Flags().GetBool("offline")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := store.Load(ctx)
	if err != nil {
		return err
	}

	builder, err := recommend.NewBuilder(nil, cfg, logger)
	if err != nil {
		return err
	}
	rec, err := builder.Build(cfg.Preprocess, cfg.Crawl.MaxExpansion, offline)
	if err != nil {
		return err
	}

	out, err := rec.Recommend(ctx, history, snapshot, recommend.Options{
		TopN:         cfg.Recommend.TopN,
		ExplainTerms: cfg.Recommend.ExplainTerms,
	})
	if err != nil {
		return err
	}

	if cfg.Server.Persist {
		summary, err := out.Persist(ctx, store)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "persisted: %d added, %d reprocessed\n", summary.Added, summary.Reprocessed)
	}

	return formatRecommendOutput(cmd.OutOrStdout(), out, jsonOutput)
}

func formatRecommendOutput(w io.Writer, out recommend.Output, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Matched         []string               `json:"matched"`
			Recommendations []types.Recommendation `json:"recommendations"`
		}{out.Matched, out.Recommendations})
	}

	fmt.Fprintf(w, "matched history: %s\n\n", strings.Join(out.Matched, ", "))
	if len(out.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-40s  %-6s  %s\n", "Rank", "Title", "Score", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range out.Recommendations {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-40s  %-6.2f  %s\n", i+1, title, r.Similarity, r.Link)
		if r.Explanation != types.NoExplanation {
			fmt.Fprintf(w, "      terms: %s\n", r.Explanation)
		}
	}
	fmt.Fprintf(w, "\n%d recommendations from %d articles\n", len(out.Recommendations), out.Corpus.Len())
	return nil
}
