// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/recommend"
	"github.com/pdiddy/article-recommender/pkg/types"
)

func TestParseHistory(t *testing.T) {
	tests := []struct {
		name string
		args []string
		list string
		want []string
	}{
		{"args only", []string{"Cat", " Dog "}, "", []string{"Cat", "Dog"}},
		{"list only", nil, "Cat, Dog,,  ", []string{"Cat", "Dog"}},
		{"both", []string{"Cat"}, "Dog", []string{"Cat", "Dog"}},
		{"duplicates kept", []string{"Cat"}, "Cat", []string{"Cat", "Cat"}},
		{"empty", nil, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHistory(tt.args, tt.list))
		})
	}
}

func TestParseHistoryDoesNotModifyArgs(t *testing.T) {
	args := make([]string, 1, 4)
	args[0] = "Cat"
	parseHistory(args, "Dog")
	assert.Equal(t, []string{"Cat"}, args)
	assert.Equal(t, "", args[:2][1])
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTopN, c.Recommend.TopN)
	assert.Equal(t, types.DefaultMaxExpansion, c.Crawl.MaxExpansion)
	assert.Equal(t, types.DefaultStemmer, c.Preprocess.Stemmer)
	assert.Equal(t, types.DefaultDataDir, c.Store.DataDir)
	assert.Equal(t, types.DefaultCrawlDelay, c.Crawl.Delay)
	assert.Equal(t, types.DefaultSiteURL, c.Crawl.BaseURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("recommend.top_n", 3)
	viper.Set("preprocess.stemmer", "lancaster")
	viper.Set("crawl.delay", "2s")

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Recommend.TopN)
	assert.Equal(t, "lancaster", c.Preprocess.Stemmer)
	assert.Equal(t, 2*time.Second, c.Crawl.Delay)
}

func TestBindFlagsUsesAnnotations(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, recommendCmd.Flags().Set("top-n", "7"))
	t.Cleanup(func() { _ = recommendCmd.Flags().Set("top-n", "5") })
	bindFlags(recommendCmd)

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, c.Recommend.TopN)
}

func sampleOutput() recommend.Output {
	return recommend.Output{
		Matched: []string{"Cat"},
		Corpus: corpus.New([]types.Article{
			{Title: "Cat", Link: "https://example.org/wiki/Cat"},
			{Title: "Dog", Link: "https://example.org/wiki/Dog"},
		}),
		Recommendations: []types.Recommendation{{
			Title:       "Dog",
			Link:        "https://example.org/wiki/Dog",
			Similarity:  0.5,
			Terms:       []string{"canine"},
			Explanation: "canine",
		}},
	}
}

func TestFormatRecommendOutputTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatRecommendOutput(&buf, sampleOutput(), false))

	out := buf.String()
	assert.Contains(t, out, "matched history: Cat")
	assert.Contains(t, out, "Dog")
	assert.Contains(t, out, "0.50")
	assert.Contains(t, out, "terms: canine")
	assert.Contains(t, out, "1 recommendations from 2 articles")
}

func TestFormatRecommendOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatRecommendOutput(&buf, sampleOutput(), true))

	var got struct {
		Matched         []string               `json:"matched"`
		Recommendations []types.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"Cat"}, got.Matched)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "Dog", got.Recommendations[0].Title)
}

func TestFormatRecommendOutputEmpty(t *testing.T) {
	out := sampleOutput()
	out.Recommendations = nil
	var buf bytes.Buffer
	require.NoError(t, formatRecommendOutput(&buf, out, false))
	assert.Contains(t, buf.String(), "No recommendations.")
}
