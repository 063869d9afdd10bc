// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand grows a corpus snapshot so that a reading history can be
// matched against it. Each history title missing from the corpus is
// fetched directly by its article URL and, when found, the crawler walks
// outward from it to add topically related articles.
package expand

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/crawl"
	"github.com/pdiddy/article-recommender/internal/fetch"
	"github.com/pdiddy/article-recommender/internal/logging"
	"github.com/pdiddy/article-recommender/internal/metrics"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// Result holds the outcome of one expansion.
type Result struct {
	// Corpus is the expanded snapshot. The input snapshot is unchanged.
	Corpus *corpus.Corpus

	// Matched lists the history titles present in Corpus, in history order.
	Matched []string

	// Added lists the articles merged into Corpus, already processed.
	Added []types.Article

	// Failed lists the history titles that could not be fetched.
	Failed []string
}

// Expander fetches missing history articles and their neighbourhood.
type Expander struct {
	Fetcher   crawl.PageFetcher
	Crawler   *crawl.Crawler
	Site      fetch.Site
	Processor corpus.Processor

	// MaxExpansion bounds the articles collected for each fetched history
	// title, the history article itself included. Values below two
	// disable the crawl.
	MaxExpansion int

	Logger *zap.Logger
}

// Expand returns snapshot grown by every history title it lacks. A title
// that cannot be fetched contributes nothing. Only a cancelled ctx is
// returned as an error, together with the expansion done so far.
func (e *Expander) Expand(ctx context.Context, history []string, snapshot *corpus.Corpus) (Result, error) {
	log := logging.OrNop(e.Logger)
	res := Result{Corpus: snapshot}
	attempted := make(map[string]struct{})

	for _, title := range history {
		if res.Corpus.Has(title) {
			continue
		}
		if _, ok := attempted[title]; ok {
			continue
		}
		attempted[title] = struct{}{}

		if err := ctx.Err(); err != nil {
			return res.finish(history), err
		}

		batch, err := e.expandTitle(ctx, title, res.Corpus, log)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res.finish(history), ctxErr
			}
			log.Info("history article unavailable", zap.String("title", title), zap.Error(err))
			res.Failed = append(res.Failed, title)
			continue
		}

		var added []types.Article
		res.Corpus, added = res.Corpus.Merge(batch)
		res.Added = append(res.Added, added...)
		metrics.RecordMerged(len(added))
		log.Info("expanded corpus",
			zap.String("title", title),
			zap.Int("added", len(added)),
			zap.Int("corpus", res.Corpus.Len()),
		)
	}

	return res.finish(history), nil
}

// expandTitle fetches title and crawls from it. The returned batch starts
// with the history article itself, titled as the reader wrote it.
func (e *Expander) expandTitle(ctx context.Context, title string, current *corpus.Corpus, log *zap.Logger) ([]types.Article, error) {
	url := e.Site.ArticleURL(title)
	page, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", title, err)
	}

	batch := []types.Article{e.process(types.Article{Title: title, Link: url, Content: page.Content})}

	if e.Crawler == nil || e.MaxExpansion <= 1 {
		return batch, nil
	}
	crawled, err := e.Crawler.CrawlFrom(ctx, page, e.MaxExpansion-1)
	if err != nil {
		return nil, fmt.Errorf("crawling from %q: %w", title, err)
	}
	if n := len(crawled.Failures()); n > 0 {
		log.Debug("skipped pages while expanding", zap.String("title", title), zap.Int("skipped", n))
	}
	for _, a := range crawled.Articles {
		if current.Has(a.Title) {
			continue
		}
		batch = append(batch, e.process(a))
	}
	return batch, nil
}

func (e *Expander) process(a types.Article) types.Article {
	a.ProcessedContent = e.Processor.Process(a.Content)
	a.ProcessedProfile = e.Processor.Profile()
	return a
}

func (r Result) finish(history []string) Result {
	r.Matched = MatchHistory(history, r.Corpus)
	return r
}

// MatchHistory returns the history titles present in c, in history order.
func MatchHistory(history []string, c *corpus.Corpus) []string {
	var matched []string
	for _, title := range history {
		if c.Has(title) {
			matched = append(matched, title)
		}
	}
	return matched
}
