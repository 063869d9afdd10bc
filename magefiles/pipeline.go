//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups targets that run the built CLI.
type Pipeline mg.Namespace

func cli(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Seed crawls the corpus from the site's home article (or $SEED).
func (Pipeline) Seed() error {
	mg.Deps(Build)
	seed := os.Getenv("SEED")
	if seed == "" {
		seed = "Main_Page"
	}
	return cli("crawl", seed)
}

// Recommend prints recommendations for the comma-separated titles in $HISTORY.
func (Pipeline) Recommend() error {
	mg.Deps(Build)
	return cli("recommend", "--history", os.Getenv("HISTORY"), "--explain", "5")
}

// Serve starts the HTTP server.
func (Pipeline) Serve() error {
	mg.Deps(Build)
	return cli("serve")
}

// Stats prints corpus statistics.
func (Pipeline) Stats() error {
	mg.Deps(Build)
	return cli("corpus", "stats")
}
