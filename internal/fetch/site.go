// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/article-recommender/pkg/types"
)

// disambiguationMarker identifies disambiguation pages by name.
const disambiguationMarker = "disambiguation"

// Site locates articles on one encyclopedia and decides which links are
// crawlable article links.
type Site struct {
	base        string
	articlePath string
	home        string
}

// NewSite validates cfg and returns a Site. Defaults are applied to empty fields.
func NewSite(cfg types.SiteConfig) (Site, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = types.DefaultSiteURL
	}
	if cfg.ArticlePath == "" {
		cfg.ArticlePath = types.DefaultArticlePath
	}
	if cfg.HomeArticle == "" {
		cfg.HomeArticle = types.DefaultHomeArticle
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Site{}, fmt.Errorf("invalid site base URL %q", cfg.BaseURL)
	}
	path := cfg.ArticlePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	return Site{
		base:        strings.TrimSuffix(cfg.BaseURL, "/"),
		articlePath: path,
		home:        cfg.HomeArticle,
	}, nil
}

// BaseURL returns the site's scheme and host.
func (s Site) BaseURL() string { return s.base }

// ArticleURL derives the article URL for a title: surrounding whitespace is
// trimmed and spaces become underscores.
func (s Site) ArticleURL(title string) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	return s.base + s.articlePath + name
}

// ArticleLink resolves href to an absolute article URL. It reports false
// for links to other sites, non-article pages, namespaced pages (":"),
// fragments ("#"), the home article and disambiguation pages.
func (s Site) ArticleLink(href string) (string, bool) {
	href = strings.TrimPrefix(href, s.base)
	if !strings.HasPrefix(href, s.articlePath) {
		return "", false
	}
	name := strings.TrimPrefix(href, s.articlePath)
	switch {
	case name == "",
		strings.Contains(name, ":"),
		strings.Contains(name, "#"),
		strings.Contains(name, s.home),
		strings.Contains(name, disambiguationMarker):
		return "", false
	}
	return s.base + href, true
}
