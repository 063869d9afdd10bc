// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/recommend"
	"github.com/pdiddy/article-recommender/internal/server"
	"github.com/pdiddy/article-recommender/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP",
	Long: `Serve starts an HTTP server exposing POST /api/v1/recommend, corpus
inspection endpoints, /health and Prometheus /metrics. The server stops
gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", types.DefaultServerAddr, "listen address")
	serveCmd.Flags().Bool("persist", false, "store expanded articles after each request")
	bindFlag(serveCmd.Flags().Lookup("addr"), "server.addr")
	bindFlag(serveCmd.Flags().Lookup("persist"), "server.persist")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := corpus.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	builder, err := recommend.NewBuilder(nil, cfg, logger)
	if err != nil {
		return err
	}

	return server.New(cfg, store, builder, logger).ListenAndServe(ctx)
}
