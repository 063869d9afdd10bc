// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves encyclopedia pages over HTTP and extracts their
// title, paragraph text and outgoing links. All requests made through one
// Fetcher share a rate limiter, so concurrent callers still respect the
// politeness interval.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/pdiddy/article-recommender/internal/httputil"
	"github.com/pdiddy/article-recommender/internal/metrics"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// maxBodyBytes caps how much of a response body is parsed.
const maxBodyBytes = 16 << 20

// Page is the parsed content of one fetched page.
type Page struct {
	// URL is the address the page was requested from.
	URL string

	// Title is the text of the first top-level heading, trimmed.
	Title string

	// Content is the text of every non-empty paragraph, joined by a space.
	Content string

	// Links are the raw href values of the page's anchors, in document order.
	Links []string
}

// Article converts the page into an article titled by its heading. A page
// without a heading is malformed.
func (p *Page) Article() (types.Article, error) {
	if p.Title == "" {
		return types.Article{}, malformed(p.URL, "no top-level heading")
	}
	return types.Article{Title: p.Title, Link: p.URL, Content: p.Content}, nil
}

// Fetcher performs throttled, retrying page fetches.
type Fetcher struct {
	Client     *http.Client
	UserAgent  string
	Limiter    *rate.Limiter
	MaxRetries int
	Timeout    time.Duration
}

// NewFetcher builds a Fetcher whose limiter allows one request per
// cfg.Delay. A nil client uses a client with cfg.Timeout.
func NewFetcher(client *http.Client, cfg types.CrawlConfig) *Fetcher {
	cfg = cfg.WithDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		Client:     client,
		UserAgent:  cfg.UserAgent,
		Limiter:    rate.NewLimiter(rate.Every(cfg.Delay), 1),
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.Timeout,
	}
}

// Fetch retrieves and parses url. Every failure is returned as a *Error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	page, err := f.fetch(ctx, url)
	if err != nil {
		fe := AsError(url, err)
		metrics.RecordFetch(string(fe.Kind))
		return nil, fe
	}
	metrics.RecordFetch(metrics.OutcomeOK)
	return page, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*Page, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	// The timeout starts once the request is allowed through the limiter.
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, f.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{URL: url, Kind: KindStatus, Status: resp.StatusCode}
	}

	page, err := Parse(url, io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Parse extracts a Page from an HTML document.
func Parse(url string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, malformed(url, fmt.Sprintf("parse html: %v", err))
	}

	page := &Page{
		URL:   url,
		Title: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	page.Content = strings.Join(paragraphs, " ")

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			page.Links = append(page.Links, href)
		}
	})

	return page, nil
}
