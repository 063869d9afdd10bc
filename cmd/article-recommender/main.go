// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-recommender CLI.
// Each pipeline stage is a subcommand: crawl, recommend, corpus,
// preprocess and serve.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/article-recommender/internal/logging"
	"github.com/pdiddy/article-recommender/internal/secrets"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds values loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// cfg is the resolved configuration for the running command.
	cfg types.PipelineConfig

	logger = zap.NewNop()
)

// rootCmd is the base command for the article-recommender CLI.
var rootCmd = &cobra.Command{
	Use:   "article-recommender",
	Short: "Recommend encyclopedia articles similar to a reading history",
	Long: `article-recommender builds a corpus of encyclopedia articles by crawling
the site's link graph, then ranks corpus articles by TF-IDF cosine similarity
to a reader's history. History titles missing from the corpus are fetched on
demand and the corpus is grown around them.

Configuration is read from ./article-recommender.yaml or
~/.config/article-recommender/config.yaml, then ARTICLE_RECOMMENDER_* environment
variables, then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		bindFlags(cmd)
		c, err := loadConfig()
		if err != nil {
			return err
		}
		c.Crawl.UserAgent = loadedSecrets.UserAgent(c.Crawl.UserAgent)
		cfg = c

		l, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./article-recommender.yaml or ~/.config/article-recommender/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", types.DefaultDataDir, "directory holding corpus.db and exports")
	rootCmd.PersistentFlags().String("log-level", types.DefaultLogLevel, "log level: debug, info, warn, error")
	bindFlag(rootCmd.PersistentFlags().Lookup("data-dir"), "store.data_dir")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-level"), "log_level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-recommender")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "article-recommender"))
		}
	}

	viper.SetEnvPrefix("ARTICLE_RECOMMENDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
