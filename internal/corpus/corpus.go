// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus holds the article collection recommendations are drawn
// from. A Corpus is an immutable snapshot; Merge and Refresh return new
// snapshots so concurrent requests never observe each other's growth.
// Store persists a corpus in SQLite.
package corpus

import "github.com/pdiddy/article-recommender/pkg/types"

// Processor turns raw article content into processed content. Profile
// names the configuration that produced it.
type Processor interface {
	Process(text string) string
	Profile() string
}

// Corpus is an ordered set of articles with unique titles and unique links.
type Corpus struct {
	articles []types.Article
	byTitle  map[string]int
	links    map[string]struct{}
}

// New builds a snapshot from articles in order. When two articles share a
// title or a link, the first one is kept.
func New(articles []types.Article) *Corpus {
	c := &Corpus{
		byTitle: make(map[string]int, len(articles)),
		links:   make(map[string]struct{}, len(articles)),
	}
	c.appendUnique(articles)
	return c
}

func (c *Corpus) appendUnique(articles []types.Article) []types.Article {
	var added []types.Article
	for _, a := range articles {
		if _, ok := c.byTitle[a.Title]; ok {
			continue
		}
		if _, ok := c.links[a.Link]; ok && a.Link != "" {
			continue
		}
		c.byTitle[a.Title] = len(c.articles)
		if a.Link != "" {
			c.links[a.Link] = struct{}{}
		}
		c.articles = append(c.articles, a)
		added = append(added, a)
	}
	return added
}

// Merge returns a new snapshot with articles appended. An article is added
// only if neither its title nor its link is already present, so existing
// entries always win over new ones and earlier new ones win over later
// ones. The second return value lists the articles actually added.
func (c *Corpus) Merge(articles []types.Article) (*Corpus, []types.Article) {
	next := c.clone()
	added := next.appendUnique(articles)
	return next, added
}

func (c *Corpus) clone() *Corpus {
	next := &Corpus{
		articles: make([]types.Article, len(c.articles), len(c.articles)+8),
		byTitle:  make(map[string]int, len(c.byTitle)),
		links:    make(map[string]struct{}, len(c.links)),
	}
	copy(next.articles, c.articles)
	for k, v := range c.byTitle {
		next.byTitle[k] = v
	}
	for k := range c.links {
		next.links[k] = struct{}{}
	}
	return next
}

// Has reports whether title is a corpus key.
func (c *Corpus) Has(title string) bool {
	_, ok := c.byTitle[title]
	return ok
}

// Get returns the article with the given title.
func (c *Corpus) Get(title string) (types.Article, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return types.Article{}, false
	}
	return c.articles[i], true
}

// Len returns the number of articles.
func (c *Corpus) Len() int { return len(c.articles) }

// Articles returns a copy of the articles in corpus order.
func (c *Corpus) Articles() []types.Article {
	return append([]types.Article(nil), c.articles...)
}

// Titles returns the article titles in corpus order.
func (c *Corpus) Titles() []string {
	titles := make([]string, len(c.articles))
	for i, a := range c.articles {
		titles[i] = a.Title
	}
	return titles
}

// Stale reports whether a's processed content was not produced by profile.
// Articles imported without a profile are always stale.
func Stale(a types.Article, profile string) bool {
	return a.ProcessedProfile != profile
}

// Refresh returns a snapshot in which every stale article has been
// reprocessed with p, along with the reprocessed articles. When nothing is
// stale the receiver itself is returned.
func (c *Corpus) Refresh(p Processor) (*Corpus, []types.Article) {
	profile := p.Profile()
	var next *Corpus
	var refreshed []types.Article
	for i, a := range c.articles {
		if !Stale(a, profile) {
			continue
		}
		if next == nil {
			next = c.clone()
		}
		a.ProcessedContent = p.Process(a.Content)
		a.ProcessedProfile = profile
		next.articles[i] = a
		refreshed = append(refreshed, a)
	}
	if next == nil {
		return c, nil
	}
	return next, refreshed
}
