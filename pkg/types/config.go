package types

import "time"

// Default configuration values.
const (
	DefaultSiteURL       = "https://en.wikipedia.org"
	DefaultArticlePath   = "/wiki/"
	DefaultHomeArticle   = "Main_Page"
	DefaultUserAgent     = "article-recommender/0.1"
	DefaultTimeout       = 30 * time.Second
	DefaultCrawlDelay    = 500 * time.Millisecond
	DefaultMaxRetries    = 3
	DefaultWorkers       = 1
	DefaultMaxArticles   = 100
	DefaultMaxExpansion  = 50
	DefaultTopN          = 5
	DefaultDataDir       = "data"
	DefaultServerAddr    = ":8080"
	DefaultLogLevel      = "info"
	DefaultTokenizer     = "word"
	DefaultStemmer       = "porter"
	DefaultSearchResults = 20
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single page fetch, including retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SiteConfig describes the encyclopedia being crawled.
type SiteConfig struct {
	// BaseURL is the scheme and host of the site (e.g. "https://en.wikipedia.org").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// ArticlePath is the path prefix of article pages (e.g. "/wiki/").
	ArticlePath string `json:"article_path" yaml:"article_path" mapstructure:"article_path"`

	// HomeArticle is the name of the site's home article, never crawled.
	HomeArticle string `json:"home_article" yaml:"home_article" mapstructure:"home_article"`
}

// CrawlConfig holds settings for the crawler and expansion stages.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`
	SiteConfig `yaml:",inline" mapstructure:",squash"`

	// Delay is the minimum interval between two requests (default 500ms).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// Workers is the number of frontier items fetched concurrently (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// MaxArticles bounds a standalone crawl (default 100).
	MaxArticles int `json:"max_articles" yaml:"max_articles" mapstructure:"max_articles"`

	// MaxExpansion bounds the articles collected per fetched history title,
	// the history article included (default 50).
	MaxExpansion int `json:"max_expansion" yaml:"max_expansion" mapstructure:"max_expansion"`
}

// WithDefaults returns a copy of the config with defaults applied to zero-value fields.
func (c CrawlConfig) WithDefaults() CrawlConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultSiteURL
	}
	if c.ArticlePath == "" {
		c.ArticlePath = DefaultArticlePath
	}
	if c.HomeArticle == "" {
		c.HomeArticle = DefaultHomeArticle
	}
	if c.Delay <= 0 {
		c.Delay = DefaultCrawlDelay
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxArticles <= 0 {
		c.MaxArticles = DefaultMaxArticles
	}
	if c.MaxExpansion <= 0 {
		c.MaxExpansion = DefaultMaxExpansion
	}
	return c
}

// PreprocessConfig selects the text normalization applied to article content.
type PreprocessConfig struct {
	// Tokenizer is "word" (treebank-style) or "wordpunct".
	Tokenizer string `json:"tokenizer" yaml:"tokenizer" mapstructure:"tokenizer"`

	// Stemmer is "porter" (light), "lancaster" (aggressive), or "none".
	Stemmer string `json:"stemmer" yaml:"stemmer" mapstructure:"stemmer"`

	// Lemmatize enables the lemmatizer. A configured stemmer takes precedence.
	Lemmatize bool `json:"lemmatize" yaml:"lemmatize" mapstructure:"lemmatize"`
}

// WithDefaults returns a copy of the config with defaults applied to empty fields.
func (c PreprocessConfig) WithDefaults() PreprocessConfig {
	if c.Tokenizer == "" {
		c.Tokenizer = DefaultTokenizer
	}
	if c.Stemmer == "" {
		c.Stemmer = DefaultStemmer
	}
	return c
}

// RecommendConfig holds settings for ranking.
type RecommendConfig struct {
	// TopN is the number of recommendations returned (default 5).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// ExplainTerms is the number of explanation terms per recommendation (0 disables).
	ExplainTerms int `json:"explain_terms" yaml:"explain_terms" mapstructure:"explain_terms"`

	// Workers bounds the parallelism of vectorization (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// WithDefaults returns a copy of the config with defaults applied.
func (c RecommendConfig) WithDefaults() RecommendConfig {
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.ExplainTerms < 0 {
		c.ExplainTerms = 0
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// StoreConfig holds settings for the corpus database.
type StoreConfig struct {
	// DataDir contains corpus.db and export files (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MaxResults is the default number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Persist stores expanded corpora back into the database after each request.
	Persist bool `json:"persist" yaml:"persist" mapstructure:"persist"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Crawl      CrawlConfig      `json:"crawl" yaml:"crawl" mapstructure:"crawl"`
	Preprocess PreprocessConfig `json:"preprocess" yaml:"preprocess" mapstructure:"preprocess"`
	Recommend  RecommendConfig  `json:"recommend" yaml:"recommend" mapstructure:"recommend"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	LogLevel   string           `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}
