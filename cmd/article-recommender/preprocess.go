// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-recommender/internal/preprocess"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [text...]",
	Short: "Print the processed form of text",
	Long: `Preprocess lower-cases, tokenizes, filters and stems text exactly as
articles are processed before vectorization, and prints the resulting terms.
Text is read from stdin when no arguments are given.`,
	RunE: runPreprocess,
}

func init() {
	addPreprocessFlags(preprocessCmd.Flags())
	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	pipeline, err := preprocess.NewPipeline(cfg.Preprocess, preprocess.EnglishStopWords())
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	fmt.Fprintln(cmd.OutOrStdout(), pipeline.Process(text))
	return nil
}
