package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-recommender/pkg/types"
)

// viperKeyAnnotation marks a flag with the config key it overrides.
const viperKeyAnnotation = "viper-key"

// configDefaults lists every config key so file, environment and flag
// values all resolve through viper.
var configDefaults = map[string]any{
	"crawl.timeout":       types.DefaultTimeout,
	"crawl.user_agent":    types.DefaultUserAgent,
	"crawl.max_retries":   types.DefaultMaxRetries,
	"crawl.base_url":      types.DefaultSiteURL,
	"crawl.article_path":  types.DefaultArticlePath,
	"crawl.home_article":  types.DefaultHomeArticle,
	"crawl.delay":         types.DefaultCrawlDelay,
	"crawl.workers":       types.DefaultWorkers,
	"crawl.max_articles":  types.DefaultMaxArticles,
	"crawl.max_expansion": types.DefaultMaxExpansion,

	"preprocess.tokenizer": types.DefaultTokenizer,
	"preprocess.stemmer":   types.DefaultStemmer,
	"preprocess.lemmatize": false,

	"recommend.top_n":         types.DefaultTopN,
	"recommend.explain_terms": 0,
	"recommend.workers":       types.DefaultWorkers,

	"store.data_dir":    types.DefaultDataDir,
	"store.max_results": types.DefaultSearchResults,

	"server.addr":    types.DefaultServerAddr,
	"server.persist": false,

	"log_level": types.DefaultLogLevel,
}

// bindFlag records that f overrides the config key.
func bindFlag(f *pflag.Flag, key string) {
	if f.Annotations == nil {
		f.Annotations = map[string][]string{}
	}
	f.Annotations[viperKeyAnnotation] = []string{key}
}

// bindFlags binds the annotated flags of the running command. Binding
// happens per invocation because several commands expose the same key.
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[viperKeyAnnotation]; ok && len(keys) > 0 {
			viper.BindPFlag(keys[0], f)
		}
	})
}

// loadConfig resolves the pipeline configuration from defaults, config
// file, environment and bound flags.
func loadConfig() (types.PipelineConfig, error) {
	for k, v := range configDefaults {
		viper.SetDefault(k, v)
	}
	var c types.PipelineConfig
	if err := viper.Unmarshal(&c); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("reading configuration: %w", err)
	}
	c.Crawl = c.Crawl.WithDefaults()
	c.Preprocess = c.Preprocess.WithDefaults()
	c.Recommend = c.Recommend.WithDefaults()
	return c, nil
}

// addPreprocessFlags registers the preprocessing flags shared by several commands.
func addPreprocessFlags(fs *pflag.FlagSet) {
	fs.String("tokenizer", types.DefaultTokenizer, "tokenizer: word or wordpunct")
	fs.String("stemmer", types.DefaultStemmer, "stemmer: porter, lancaster or none")
	fs.Bool("lemmatize", false, "lemmatize nouns (ignored when a stemmer is set)")
	bindFlag(fs.Lookup("tokenizer"), "preprocess.tokenizer")
	bindFlag(fs.Lookup("stemmer"), "preprocess.stemmer")
	bindFlag(fs.Lookup("lemmatize"), "preprocess.lemmatize")
}
