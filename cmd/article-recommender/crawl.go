// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/recommend"
	"github.com/pdiddy/article-recommender/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <seed>",
	Short: "Crawl the article link graph and add the articles to the corpus",
	Long: `Crawl walks article links breadth-first from a seed article, which may be
an absolute URL or an article title. Each article is preprocessed with the
configured tokenizer and stemmer and merged into the corpus database. Articles
whose title or link is already stored are skipped. Pages that cannot be
fetched are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().Int("max-articles", types.DefaultMaxArticles, "maximum number of articles to collect")
	crawlCmd.Flags().Int("workers", types.DefaultWorkers, "pages fetched concurrently")
	crawlCmd.Flags().Duration("delay", types.DefaultCrawlDelay, "minimum interval between requests")
	crawlCmd.Flags().String("site", types.DefaultSiteURL, "encyclopedia base URL")
	bindFlag(crawlCmd.Flags().Lookup("max-articles"), "crawl.max_articles")
	bindFlag(crawlCmd.Flags().Lookup("workers"), "crawl.workers")
	bindFlag(crawlCmd.Flags().Lookup("delay"), "crawl.delay")
	bindFlag(crawlCmd.Flags().Lookup("site"), "crawl.base_url")
	addPreprocessFlags(crawlCmd.Flags())

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	builder, err := recommend.NewBuilder(nil, cfg, logger)
	if err != nil {
		return err
	}
	pipeline, err := builder.Pipeline(cfg.Preprocess)
	if err != nil {
		return err
	}

	seed := args[0]
	if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
		seed = builder.Site.ArticleURL(seed)
	}

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "crawling from %s (max %d articles)\n", seed, cfg.Crawl.MaxArticles)

	res, crawlErr := builder.Crawler().Crawl(ctx, seed, cfg.Crawl.MaxArticles)
	if crawlErr != nil && len(res.Articles) == 0 {
		return fmt.Errorf("crawling: %w", crawlErr)
	}

	articles := make([]types.Article, len(res.Articles))
	for i, a := range res.Articles {
		a.ProcessedContent = pipeline.Process(a.Content)
		a.ProcessedProfile = pipeline.Profile()
		articles[i] = a
	}

	summary, err := store.Merge(context.Background(), articles)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\ncrawled: %d, added: %d, already stored: %d, skipped pages: %d\n",
		len(res.Articles), summary.Added, summary.Skipped, len(res.Failures()))
	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	return nil
}
