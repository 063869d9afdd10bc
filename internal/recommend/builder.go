// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/crawl"
	"github.com/pdiddy/article-recommender/internal/expand"
	"github.com/pdiddy/article-recommender/internal/fetch"
	"github.com/pdiddy/article-recommender/internal/preprocess"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// Builder holds the collaborators shared by every request and assembles a
// Recommender for each request's preprocessing configuration. All
// recommenders built by one Builder share the fetcher and therefore its
// rate limiter.
type Builder struct {
	Fetcher *fetch.Fetcher
	Site    fetch.Site
	Crawl   types.CrawlConfig
	Workers int
	Stop    preprocess.StopWords
	Logger  *zap.Logger
}

// NewBuilder validates cfg and creates the shared fetcher. A nil client
// uses a default client.
func NewBuilder(client *http.Client, cfg types.PipelineConfig, logger *zap.Logger) (*Builder, error) {
	crawlCfg := cfg.Crawl.WithDefaults()
	site, err := fetch.NewSite(crawlCfg.SiteConfig)
	if err != nil {
		return nil, err
	}
	return &Builder{
		Fetcher: fetch.NewFetcher(client, crawlCfg),
		Site:    site,
		Crawl:   crawlCfg,
		Workers: cfg.Recommend.WithDefaults().Workers,
		Stop:    preprocess.EnglishStopWords(),
		Logger:  logger,
	}, nil
}

// Pipeline resolves a preprocessing configuration.
func (b *Builder) Pipeline(cfg types.PreprocessConfig) (*preprocess.Pipeline, error) {
	p, err := preprocess.NewPipeline(cfg, b.Stop)
	if err != nil {
		return nil, fmt.Errorf("preprocessing config: %w", err)
	}
	return p, nil
}

// Crawler returns a crawler over the shared fetcher.
func (b *Builder) Crawler() *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: b.Fetcher,
		Site:    b.Site,
		Workers: b.Crawl.Workers,
		Logger:  b.Logger,
	}
}

// Build returns a Recommender for pre. maxExpansion <= 0 uses the crawl
// config's value. When offline is set the recommender never fetches.
func (b *Builder) Build(pre types.PreprocessConfig, maxExpansion int, offline bool) (*Recommender, error) {
	pipeline, err := b.Pipeline(pre)
	if err != nil {
		return nil, err
	}

	r := &Recommender{Processor: pipeline, Workers: b.Workers, Logger: b.Logger}
	if offline {
		return r, nil
	}
	if maxExpansion <= 0 {
		maxExpansion = b.Crawl.MaxExpansion
	}
	r.Expander = &expand.Expander{
		Fetcher:      b.Fetcher,
		Crawler:      b.Crawler(),
		Site:         b.Site,
		Processor:    pipeline,
		MaxExpansion: maxExpansion,
		Logger:       b.Logger,
	}
	return r, nil
}

// PersistSummary reports what Persist wrote.
type PersistSummary struct {
	corpus.MergeSummary
	Reprocessed int
}

// Persist writes the articles added by expansion and the reprocessed
// content of existing articles to store.
func (o Output) Persist(ctx context.Context, store *corpus.Store) (PersistSummary, error) {
	var summary PersistSummary
	if len(o.Refreshed) > 0 {
		n, err := store.SaveProcessed(ctx, o.Refreshed)
		if err != nil {
			return summary, fmt.Errorf("saving reprocessed articles: %w", err)
		}
		summary.Reprocessed = n
	}
	if len(o.Expansion.Added) > 0 {
		ms, err := store.Merge(ctx, o.Expansion.Added)
		if err != nil {
			return summary, fmt.Errorf("persisting expanded corpus: %w", err)
		}
		summary.MergeSummary = ms
	}
	return summary, nil
}
