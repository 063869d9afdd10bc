// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorize builds a TF-IDF vector space over a corpus snapshot.
//
// Terms are the whitespace-separated tokens of each article's processed
// content. The weight of term t in document d is
//
//	tf(t, d) * (ln(N / df(t)) + 1)
//
// with no smoothing of the document frequency, and each document vector is
// then scaled to unit length. The space is rebuilt from scratch on every
// call.
package vectorize

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/article-recommender/internal/corpus"
)

// Vector is a sparse weight vector. Indices are vocabulary positions in
// increasing order.
type Vector struct {
	Indices []int
	Weights []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int { return len(v.Indices) }

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Model is a fitted vocabulary with inverse document frequencies.
type Model struct {
	vocab []string
	index map[string]int
	idf   []float64
	docs  int
}

// Fit learns the vocabulary and document frequencies of docs. The
// vocabulary is sorted lexicographically.
func Fit(docs []string) *Model {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]struct{})
		for _, term := range strings.Fields(d) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	m := &Model{
		vocab: make([]string, 0, len(df)),
		index: make(map[string]int, len(df)),
		docs:  len(docs),
	}
	for term := range df {
		m.vocab = append(m.vocab, term)
	}
	sort.Strings(m.vocab)

	m.idf = make([]float64, len(m.vocab))
	n := float64(len(docs))
	for i, term := range m.vocab {
		m.index[term] = i
		m.idf[i] = math.Log(n/float64(df[term])) + 1
	}
	return m
}

// Vocabulary returns the sorted vocabulary.
func (m *Model) Vocabulary() []string {
	return append([]string(nil), m.vocab...)
}

// Documents returns the number of documents the model was fitted on.
func (m *Model) Documents() int { return m.docs }

// IDF returns the inverse document frequency of term.
func (m *Model) IDF(term string) (float64, bool) {
	i, ok := m.index[term]
	if !ok {
		return 0, false
	}
	return m.idf[i], true
}

// Term returns the vocabulary term at index i.
func (m *Model) Term(i int) string { return m.vocab[i] }

// Transform maps text into the model's space. Terms outside the
// vocabulary are ignored. The result has unit length unless it is empty.
func (m *Model) Transform(text string) Vector {
	tf := make(map[int]int)
	for _, term := range strings.Fields(text) {
		if i, ok := m.index[term]; ok {
			tf[i]++
		}
	}
	if len(tf) == 0 {
		return Vector{}
	}

	v := Vector{
		Indices: make([]int, 0, len(tf)),
		Weights: make([]float64, 0, len(tf)),
	}
	for i := range tf {
		v.Indices = append(v.Indices, i)
	}
	sort.Ints(v.Indices)
	for _, i := range v.Indices {
		v.Weights = append(v.Weights, float64(tf[i])*m.idf[i])
	}

	if norm := v.Norm(); norm > 0 {
		for i := range v.Weights {
			v.Weights[i] /= norm
		}
	}
	return v
}

// Space is a fitted model plus one vector per corpus article.
type Space struct {
	Model   *Model
	titles  []string
	vectors []Vector
	byTitle map[string]int
}

// Build fits a model over the processed content of every article in c and
// transforms each article. Documents are transformed by up to workers
// goroutines; the result does not depend on workers.
func Build(ctx context.Context, c *corpus.Corpus, workers int) (*Space, error) {
	articles := c.Articles()
	docs := make([]string, len(articles))
	for i, a := range articles {
		docs[i] = a.ProcessedContent
	}

	model := Fit(docs)
	s := &Space{
		Model:   model,
		titles:  make([]string, len(articles)),
		vectors: make([]Vector, len(articles)),
		byTitle: make(map[string]int, len(articles)),
	}
	for i, a := range articles {
		s.titles[i] = a.Title
		s.byTitle[a.Title] = i
	}

	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.vectors[i] = model.Transform(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("vectorizing corpus: %w", err)
	}
	return s, nil
}

// Len returns the number of documents.
func (s *Space) Len() int { return len(s.titles) }

// Titles returns document titles in corpus order.
func (s *Space) Titles() []string {
	return append([]string(nil), s.titles...)
}

// Vector returns the vector of the article with the given title.
func (s *Space) Vector(title string) (Vector, bool) {
	i, ok := s.byTitle[title]
	if !ok {
		return Vector{}, false
	}
	return s.vectors[i], true
}

// At returns the vector of the i-th document in corpus order.
func (s *Space) At(i int) Vector { return s.vectors[i] }

// Cosine returns the cosine similarity of a and b. If either vector has
// zero length the similarity is 0.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}

	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}

	sim := dot / (na * nb)
	if sim > 1 {
		sim = 1
	}
	return sim
}

// TopTerms returns up to k terms with the highest weight in v, heaviest
// first. Equal weights are ordered by vocabulary order. Terms with zero
// weight are never returned.
func (m *Model) TopTerms(v Vector, k int) []string {
	if k <= 0 {
		return nil
	}

	order := make([]int, 0, len(v.Indices))
	for pos, w := range v.Weights {
		if w > 0 {
			order = append(order, pos)
		}
	}
	sort.SliceStable(order, func(x, y int) bool {
		return v.Weights[order[x]] > v.Weights[order[y]]
	})
	if len(order) > k {
		order = order[:k]
	}

	terms := make([]string, len(order))
	for i, pos := range order {
		terms[i] = m.vocab[v.Indices[pos]]
	}
	return terms
}
