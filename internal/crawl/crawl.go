// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl performs bounded breadth-first traversal of an
// encyclopedia's article link graph.
//
// Up to Workers frontier items are fetched concurrently per round. Results
// are applied in frontier order, so the yielded articles are in the same
// order a sequential traversal would produce.
package crawl

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/article-recommender/internal/fetch"
	"github.com/pdiddy/article-recommender/internal/logging"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// PageFetcher retrieves and parses one page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Attempt records the outcome of visiting one frontier URL. Exactly one of
// Article and Err is meaningful.
type Attempt struct {
	URL     string
	Article types.Article
	Err     *fetch.Error
}

// OK reports whether the attempt produced an article.
func (a Attempt) OK() bool { return a.Err == nil }

// Result holds the outcome of a crawl.
type Result struct {
	// Articles are the crawled articles in BFS discovery order. Processed
	// content is unset.
	Articles []types.Article

	// Attempts lists every visited URL in frontier order.
	Attempts []Attempt
}

// Failures returns the errors of failed attempts.
func (r Result) Failures() []*fetch.Error {
	var errs []*fetch.Error
	for _, a := range r.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Crawler walks article links breadth-first.
type Crawler struct {
	Fetcher PageFetcher
	Site    fetch.Site
	Workers int
	Logger  *zap.Logger
}

// Crawl traverses from seedURL until the frontier is empty or maxArticles
// articles have been collected. Page failures are recorded and skipped.
// If ctx is cancelled the partial result is returned with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, seedURL string, maxArticles int) (Result, error) {
	t := c.newTraversal()
	if maxArticles <= 0 {
		return t.result, nil
	}
	t.visited.markIfNew(seedURL)
	t.frontier = append(t.frontier, seedURL)
	return t.run(ctx, maxArticles)
}

// CrawlFrom runs the same traversal with seed already fetched. The seed
// counts as the first visited page but is not included in the result; its
// links form the initial frontier.
func (c *Crawler) CrawlFrom(ctx context.Context, seed *fetch.Page, maxArticles int) (Result, error) {
	t := c.newTraversal()
	if maxArticles <= 0 || seed == nil {
		return t.result, nil
	}
	t.visited.markIfNew(seed.URL)
	t.enqueueLinks(seed)
	return t.run(ctx, maxArticles)
}

func (c *Crawler) newTraversal() *traversal {
	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}
	return &traversal{
		crawler: c,
		workers: workers,
		log:     logging.OrNop(c.Logger),
		visited: newVisitedSet(),
	}
}

// traversal is the state of one crawl.
type traversal struct {
	crawler  *Crawler
	workers  int
	log      *zap.Logger
	visited  *visitedSet
	frontier []string
	result   Result
}

func (t *traversal) run(ctx context.Context, maxArticles int) (Result, error) {
	for len(t.frontier) > 0 && len(t.result.Articles) < maxArticles {
		if err := ctx.Err(); err != nil {
			return t.result, err
		}

		n := min(t.workers, maxArticles-len(t.result.Articles), len(t.frontier))
		batch := t.frontier[:n]
		t.frontier = t.frontier[n:]

		pages, errs := t.fetchRound(ctx, batch)

		// A cancelled round is discarded rather than recorded as failures.
		if err := ctx.Err(); err != nil {
			return t.result, err
		}

		for i, url := range batch {
			t.apply(url, pages[i], errs[i])
		}
	}

	t.log.Debug("crawl finished",
		zap.Int("articles", len(t.result.Articles)),
		zap.Int("attempts", len(t.result.Attempts)),
		zap.Int("frontier", len(t.frontier)),
	)
	return t.result, nil
}

func (t *traversal) fetchRound(ctx context.Context, batch []string) ([]*fetch.Page, []error) {
	pages := make([]*fetch.Page, len(batch))
	errs := make([]error, len(batch))

	var g errgroup.Group
	for i, url := range batch {
		g.Go(func() error {
			pages[i], errs[i] = t.crawler.Fetcher.Fetch(ctx, url)
			return nil
		})
	}
	g.Wait()
	return pages, errs
}

func (t *traversal) apply(url string, page *fetch.Page, err error) {
	if err != nil {
		t.fail(url, fetch.AsError(url, err))
		return
	}
	article, err := page.Article()
	if err != nil {
		t.fail(url, fetch.AsError(url, err))
		return
	}

	t.result.Articles = append(t.result.Articles, article)
	t.result.Attempts = append(t.result.Attempts, Attempt{URL: url, Article: article})
	t.enqueueLinks(page)
}

func (t *traversal) fail(url string, fe *fetch.Error) {
	t.log.Debug("skipping page", zap.String("url", url), zap.Error(fe))
	t.result.Attempts = append(t.result.Attempts, Attempt{URL: url, Err: fe})
}

func (t *traversal) enqueueLinks(page *fetch.Page) {
	for _, href := range page.Links {
		link, ok := t.crawler.Site.ArticleLink(href)
		if !ok {
			continue
		}
		if t.visited.markIfNew(link) {
			t.frontier = append(t.frontier, link)
		}
	}
}

// visitedSet is a set of URLs with an atomic check-and-mark.
type visitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{urls: make(map[string]struct{})}
}

// markIfNew marks url visited and reports whether it was not visited before.
func (v *visitedSet) markIfNew(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.urls[url]; ok {
		return false
	}
	v.urls[url] = struct{}{}
	return true
}
