// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-recommender/internal/fetch"
	"github.com/pdiddy/article-recommender/internal/wikitest"
	"github.com/pdiddy/article-recommender/pkg/types"
)

func newCrawler(t *testing.T, ts *wikitest.Server, workers int) *Crawler {
	t.Helper()
	site, err := fetch.NewSite(types.SiteConfig{BaseURL: ts.URL})
	require.NoError(t, err)
	return &Crawler{
		Fetcher: &fetch.Fetcher{Client: ts.Client(), MaxRetries: 1},
		Site:    site,
		Workers: workers,
	}
}

func titles(articles []types.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	return out
}

// graph is a small link graph:
//
//	A -> B, C
//	B -> D, A
//	C -> E, C
//	D -> A
//	E -> (none)
func graph() map[string]wikitest.Page {
	return map[string]wikitest.Page{
		"A": {Title: "A", Paragraphs: []string{"alpha"}, Links: []string{"/wiki/B", "/wiki/C"}},
		"B": {Title: "B", Paragraphs: []string{"bravo"}, Links: []string{"/wiki/D", "/wiki/A"}},
		"C": {Title: "C", Paragraphs: []string{"charlie"}, Links: []string{"/wiki/E", "/wiki/C"}},
		"D": {Title: "D", Paragraphs: []string{"delta"}, Links: []string{"/wiki/A"}},
		"E": {Title: "E", Paragraphs: []string{"echo"}},
	}
}

func TestCrawlBreadthFirstOrder(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("A"), 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titles(res.Articles))
	assert.Equal(t, ts.ArticleURL("B"), res.Articles[1].Link)
	assert.Equal(t, "bravo", res.Articles[1].Content)
	assert.Empty(t, res.Articles[1].ProcessedContent)
	assert.Empty(t, res.Failures())
}

func TestCrawlVisitsEachPageOnce(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	_, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("A"), 10)
	require.NoError(t, err)

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		assert.Equal(t, 1, ts.Hits(name), name)
	}
}

func TestCrawlRespectsMaxArticles(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("A"), 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, titles(res.Articles))
	assert.Len(t, ts.Requests(), 3)
}

func TestCrawlZeroMaxFetchesNothing(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("A"), 0)
	require.NoError(t, err)
	assert.Empty(t, res.Articles)
	assert.Empty(t, ts.Requests())
}

func TestCrawlSelfLoopTerminates(t *testing.T) {
	ts := wikitest.New(map[string]wikitest.Page{
		"Loop": {Title: "Loop", Links: []string{"/wiki/Loop", "/wiki/Loop"}},
	})
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("Loop"), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Loop"}, titles(res.Articles))
	assert.Equal(t, 1, ts.Hits("Loop"))
}

func TestCrawlCycleBoundedByMaxAttempts(t *testing.T) {
	// A ring of 20 pages; every page also links back to the first.
	pages := make(map[string]wikitest.Page)
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("P%d", i)
		pages[name] = wikitest.Page{
			Title: name,
			Links: []string{fmt.Sprintf("/wiki/P%d", (i+1)%20), "/wiki/P0"},
		}
	}
	ts := wikitest.New(pages)
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("P0"), 7)
	require.NoError(t, err)
	assert.Len(t, res.Articles, 7)
	assert.LessOrEqual(t, len(res.Attempts), 7)
}

func TestCrawlContinuesPastFailures(t *testing.T) {
	ts := wikitest.New(map[string]wikitest.Page{
		"A":        {Title: "A", Links: []string{"/wiki/Missing", "/wiki/Broken", "/wiki/NoTitle", "/wiki/B"}},
		"Broken":   {Status: http.StatusInternalServerError},
		"NoTitle":  {Paragraphs: []string{"orphan text"}},
		"B":        {Title: "B"},
		"Unlinked": {Title: "Unlinked"},
	})
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("A"), 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, titles(res.Articles))
	require.Len(t, res.Attempts, 5)

	failures := res.Failures()
	require.Len(t, failures, 3)
	assert.Equal(t, fetch.KindStatus, failures[0].Kind)
	assert.Equal(t, http.StatusNotFound, failures[0].Status)
	assert.Equal(t, fetch.KindStatus, failures[1].Kind)
	assert.Equal(t, fetch.KindMalformed, failures[2].Kind)
	assert.False(t, res.Attempts[1].OK())
	assert.True(t, res.Attempts[4].OK())
}

func TestCrawlFiltersNonArticleLinks(t *testing.T) {
	ts := wikitest.New(map[string]wikitest.Page{
		"A": {Title: "A", Links: []string{
			"/wiki/File:Photo.jpg",
			"/wiki/B#History",
			"/wiki/Main_Page",
			"/wiki/Mercury_(disambiguation)",
			"https://other.example.org/wiki/B",
			"/w/index.php?title=B",
			"/wiki/B",
		}},
		"B": {Title: "B"},
	})
	defer ts.Close()

	res, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("A"), 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, titles(res.Articles))
	assert.Equal(t, []string{"A", "B"}, ts.Requests())
}

func TestCrawlConcurrentMatchesSequentialOrder(t *testing.T) {
	pages := make(map[string]wikitest.Page)
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("N%d", i)
		pages[name] = wikitest.Page{
			Title: name,
			Links: []string{
				fmt.Sprintf("/wiki/N%d", (2*i+1)%30),
				fmt.Sprintf("/wiki/N%d", (2*i+2)%30),
				fmt.Sprintf("/wiki/N%d", (i+7)%30),
			},
		}
	}
	ts := wikitest.New(pages)
	defer ts.Close()

	seq, err := newCrawler(t, ts, 1).Crawl(context.Background(), ts.ArticleURL("N0"), 25)
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 8} {
		par, err := newCrawler(t, ts, workers).Crawl(context.Background(), ts.ArticleURL("N0"), 25)
		require.NoError(t, err)
		assert.Equal(t, titles(seq.Articles), titles(par.Articles), "workers=%d", workers)
	}
}

func TestCrawlConcurrentNeverOverfetches(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	res, err := newCrawler(t, ts, 8).Crawl(context.Background(), ts.ArticleURL("A"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(res.Articles))
	assert.Len(t, ts.Requests(), 2)
}

func TestCrawlCancelledReturnsPartial(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newCrawler(t, ts, 1).Crawl(ctx, ts.ArticleURL("A"), 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Articles)
}

func TestCrawlFromSkipsSeedFetch(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	seed := &fetch.Page{URL: ts.ArticleURL("A"), Title: "A", Links: []string{"/wiki/B", "/wiki/C"}}
	res, err := newCrawler(t, ts, 1).CrawlFrom(context.Background(), seed, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "D", "E"}, titles(res.Articles))
	assert.Equal(t, 0, ts.Hits("A"))
}

func TestCrawlFromBounded(t *testing.T) {
	ts := wikitest.New(graph())
	defer ts.Close()

	seed := &fetch.Page{URL: ts.ArticleURL("A"), Title: "A", Links: []string{"/wiki/B", "/wiki/C"}}
	res, err := newCrawler(t, ts, 1).CrawlFrom(context.Background(), seed, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(res.Articles))
}
