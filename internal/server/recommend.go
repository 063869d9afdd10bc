// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/article-recommender/internal/recommend"
	"github.com/pdiddy/article-recommender/pkg/types"
)

// RecommendRequest is the body of POST /api/v1/recommend. Omitted fields
// take their values from the server configuration.
type RecommendRequest struct {
	History      []string `json:"history"`
	TopN         int      `json:"top_n,omitempty"`
	ExplainTerms *int     `json:"explain_terms,omitempty"`
	Tokenizer    string   `json:"tokenizer,omitempty"`
	Stemmer      string   `json:"stemmer,omitempty"`
	Lemmatize    *bool    `json:"lemmatize,omitempty"`
	MaxExpansion int      `json:"max_expansion,omitempty"`
	Offline      bool     `json:"offline,omitempty"`
	Persist      *bool    `json:"persist,omitempty"`
}

// RecommendResponse is the body of a successful recommendation.
type RecommendResponse struct {
	RequestID       string                 `json:"request_id"`
	Matched         []string               `json:"matched"`
	CorpusSize      int                    `json:"corpus_size"`
	Added           int                    `json:"added"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

func (req RecommendRequest) preprocessConfig(defaults types.PreprocessConfig) types.PreprocessConfig {
	cfg := defaults
	if req.Tokenizer != "" {
		cfg.Tokenizer = req.Tokenizer
	}
	if req.Stemmer != "" {
		cfg.Stemmer = req.Stemmer
	}
	if req.Lemmatize != nil {
		cfg.Lemmatize = *req.Lemmatize
	}
	return cfg
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	history := make([]string, 0, len(req.History))
	for _, h := range req.History {
		if strings.TrimSpace(h) != "" {
			history = append(history, h)
		}
	}
	if len(history) == 0 {
		s.respondError(w, http.StatusBadRequest, "EMPTY_HISTORY", "history must contain at least one title")
		return
	}
	if req.TopN < 0 || (req.ExplainTerms != nil && *req.ExplainTerms < 0) || req.MaxExpansion < 0 {
		s.respondError(w, http.StatusBadRequest, "INVALID_OPTION", "top_n, explain_terms and max_expansion must not be negative")
		return
	}

	rec, err := s.builder.Build(req.preprocessConfig(s.cfg.Preprocess), req.MaxExpansion, req.Offline)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	ctx := r.Context()
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("loading corpus", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "STORE_ERROR", "could not load corpus")
		return
	}

	defaults := s.cfg.Recommend.WithDefaults()
	opts := recommend.Options{TopN: defaults.TopN, ExplainTerms: defaults.ExplainTerms}
	if req.TopN > 0 {
		opts.TopN = req.TopN
	}
	if req.ExplainTerms != nil {
		opts.ExplainTerms = *req.ExplainTerms
	}

	out, err := rec.Recommend(ctx, history, snapshot, opts)
	if errors.Is(err, recommend.ErrNoMatchableHistory) {
		s.respondError(w, http.StatusUnprocessableEntity, "NO_MATCHABLE_HISTORY", err.Error())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "RECOMMEND_FAILED", err.Error())
		return
	}

	persist := s.cfg.Server.Persist
	if req.Persist != nil {
		persist = *req.Persist
	}
	if persist {
		if _, err := out.Persist(ctx, s.store); err != nil {
			s.log.Error("persisting corpus", zap.String("request_id", out.RequestID), zap.Error(err))
		}
	}

	recs := out.Recommendations
	if recs == nil {
		recs = []types.Recommendation{}
	}
	s.respondJSON(w, http.StatusOK, RecommendResponse{
		RequestID:       out.RequestID,
		Matched:         out.Matched,
		CorpusSize:      out.Corpus.Len(),
		Added:           len(out.Expansion.Added),
		Recommendations: recs,
	})
}
