// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend ranks corpus articles by content similarity to a
// reader's history.
//
// A request refreshes stale processed content, expands the corpus with
// missing history articles, builds a TF-IDF space over the result and
// scores every non-history article against the aggregated history text.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/expand"
	"github.com/pdiddy/article-recommender/internal/logging"
	"github.com/pdiddy/article-recommender/internal/metrics"
	"github.com/pdiddy/article-recommender/internal/vectorize"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// ErrNoMatchableHistory is returned when no history title is in the corpus
// or could be fetched.
var ErrNoMatchableHistory = errors.New("none of the history titles were found or could be fetched")

// Request outcomes recorded in metrics.
const (
	outcomeNoHistory = "no_history"
	outcomeError     = "error"
)

// Options control ranking for one request.
type Options struct {
	// TopN is the number of recommendations (default 5).
	TopN int

	// ExplainTerms is the number of explanation terms per recommendation.
	// Zero yields types.NoExplanation.
	ExplainTerms int
}

// Output is the result of one request.
type Output struct {
	RequestID       string
	Recommendations []types.Recommendation

	// Corpus is the refreshed and expanded snapshot the ranking used.
	Corpus *corpus.Corpus

	// Matched lists the history titles found, in history order.
	Matched []string

	// Expansion describes what expansion fetched and merged.
	Expansion expand.Result

	// Refreshed lists pre-existing articles whose processed content was
	// recomputed for this request's configuration.
	Refreshed []types.Article
}

// Recommender produces recommendations. A nil Expander ranks the given
// snapshot without fetching anything.
type Recommender struct {
	Expander  *expand.Expander
	Processor corpus.Processor
	Workers   int
	Logger    *zap.Logger
}

// Recommend ranks snapshot against history. The snapshot is not modified.
func (r *Recommender) Recommend(ctx context.Context, history []string, snapshot *corpus.Corpus, opts Options) (Output, error) {
	start := time.Now()
	out := Output{RequestID: uuid.NewString()}
	log := logging.OrNop(r.Logger).With(zap.String("request_id", out.RequestID))

	out, err := r.recommend(ctx, history, snapshot, opts, out, log)
	switch {
	case errors.Is(err, ErrNoMatchableHistory):
		metrics.RecordRecommendation(outcomeNoHistory, time.Since(start))
		log.Info("no matchable history", zap.Strings("history", history))
	case err != nil:
		metrics.RecordRecommendation(outcomeError, time.Since(start))
		log.Warn("recommendation failed", zap.Error(err))
	default:
		metrics.RecordRecommendation(metrics.OutcomeOK, time.Since(start))
		log.Info("recommendation complete",
			zap.Int("history", len(history)),
			zap.Int("matched", len(out.Matched)),
			zap.Int("corpus", out.Corpus.Len()),
			zap.Int("results", len(out.Recommendations)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return out, err
}

func (r *Recommender) recommend(ctx context.Context, history []string, snapshot *corpus.Corpus, opts Options, out Output, log *zap.Logger) (Output, error) {
	if snapshot == nil {
		snapshot = corpus.New(nil)
	}

	current, refreshed := snapshot.Refresh(r.Processor)
	out.Refreshed = refreshed
	if len(refreshed) > 0 {
		log.Debug("reprocessed stale articles", zap.Int("count", len(refreshed)))
	}

	if r.Expander != nil {
		exp, err := r.Expander.Expand(ctx, history, current)
		if err != nil {
			return out, fmt.Errorf("expanding corpus: %w", err)
		}
		out.Expansion = exp
		current = exp.Corpus
	}
	out.Corpus = current
	out.Matched = expand.MatchHistory(history, current)

	if len(out.Matched) == 0 {
		return out, ErrNoMatchableHistory
	}

	space, err := vectorize.Build(ctx, current, r.Workers)
	if err != nil {
		return out, err
	}
	out.Recommendations = Rank(space, current, out.Matched, opts)
	return out, nil
}

type candidate struct {
	pos        int
	title      string
	similarity float64
}

// Rank scores every article of c not in matched against the aggregated
// processed content of the matched articles. space must have been built
// from c. Results are sorted by similarity, highest first; equal
// similarities keep corpus order.
func Rank(space *vectorize.Space, c *corpus.Corpus, matched []string, opts Options) []types.Recommendation {
	topN := opts.TopN
	if topN <= 0 {
		topN = types.DefaultTopN
	}

	exclude := make(map[string]struct{}, len(matched))
	parts := make([]string, 0, len(matched))
	for _, title := range matched {
		exclude[title] = struct{}{}
		if a, ok := c.Get(title); ok {
			parts = append(parts, a.ProcessedContent)
		}
	}
	historyVec := space.Model.Transform(strings.Join(parts, " "))

	titles := space.Titles()
	candidates := make([]candidate, 0, len(titles))
	for i, title := range titles {
		if _, ok := exclude[title]; ok {
			continue
		}
		candidates = append(candidates, candidate{
			pos:        i,
			title:      title,
			similarity: vectorize.Cosine(space.At(i), historyVec),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	recs := make([]types.Recommendation, len(candidates))
	for i, cand := range candidates {
		a, _ := c.Get(cand.title)
		rec := types.Recommendation{
			Title:       cand.title,
			Link:        a.Link,
			Similarity:  cand.similarity,
			Explanation: types.NoExplanation,
		}
		if opts.ExplainTerms > 0 {
			rec.Terms = space.Model.TopTerms(space.At(cand.pos), opts.ExplainTerms)
			if len(rec.Terms) > 0 {
				rec.Explanation = strings.Join(rec.Terms, ", ")
			}
		}
		recs[i] = rec
	}
	return recs
}
