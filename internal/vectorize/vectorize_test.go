// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorize

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/pkg/types"
)

func animals() *corpus.Corpus {
	return corpus.New([]types.Article{
		{Title: "Cat", Link: "cat", ProcessedContent: "feline animal pet"},
		{Title: "Dog", Link: "dog", ProcessedContent: "canine animal pet"},
		{Title: "Rocket", Link: "rocket", ProcessedContent: "space vehicle fuel"},
	})
}

func TestFitVocabularyAndIDF(t *testing.T) {
	m := Fit([]string{"feline animal pet", "canine animal pet", "space vehicle fuel"})

	assert.Equal(t,
		[]string{"animal", "canine", "feline", "fuel", "pet", "space", "vehicle"},
		m.Vocabulary())
	assert.Equal(t, 3, m.Documents())

	idf, ok := m.IDF("animal")
	require.True(t, ok)
	assert.InDelta(t, math.Log(3.0/2.0)+1, idf, 1e-12)

	idf, ok = m.IDF("feline")
	require.True(t, ok)
	assert.InDelta(t, math.Log(3.0)+1, idf, 1e-12)

	_, ok = m.IDF("unicorn")
	assert.False(t, ok)
}

func TestFitTermInEveryDocumentHasIDFOne(t *testing.T) {
	m := Fit([]string{"a b", "a c"})
	idf, _ := m.IDF("a")
	assert.InDelta(t, 1.0, idf, 1e-12)
}

func TestTransformCountsTermFrequency(t *testing.T) {
	m := Fit([]string{"x y", "y z"})
	v := m.Transform("x x y unknown")

	require.Equal(t, []int{0, 1}, v.Indices)
	idfX, _ := m.IDF("x")
	idfY, _ := m.IDF("y")
	raw := []float64{2 * idfX, idfY}
	norm := math.Hypot(raw[0], raw[1])
	assert.InDelta(t, raw[0]/norm, v.Weights[0], 1e-12)
	assert.InDelta(t, raw[1]/norm, v.Weights[1], 1e-12)
	assert.InDelta(t, 1.0, v.Norm(), 1e-12)
}

func TestTransformOutOfVocabularyIsZero(t *testing.T) {
	m := Fit([]string{"x y"})
	v := m.Transform("unicorn rainbow")
	assert.Equal(t, 0, v.Len())
	assert.Zero(t, v.Norm())
}

func TestCosine(t *testing.T) {
	ctx := context.Background()
	space, err := Build(ctx, animals(), 1)
	require.NoError(t, err)

	cat, _ := space.Vector("Cat")
	dog, _ := space.Vector("Dog")
	rocket, _ := space.Vector("Rocket")

	a := math.Log(1.5) + 1
	f := math.Log(3) + 1
	want := 2 * a * a / (f*f + 2*a*a)

	assert.InDelta(t, 1.0, Cosine(cat, cat), 1e-12)
	assert.InDelta(t, want, Cosine(cat, dog), 1e-12)
	assert.Zero(t, Cosine(cat, rocket))
	assert.Zero(t, Cosine(cat, Vector{}))
	assert.Zero(t, Cosine(Vector{}, Vector{}))
}

func TestCosineBounded(t *testing.T) {
	m := Fit([]string{"a b c", "a a b", "c d"})
	docs := []string{"a b c", "a a b", "c d", "a", "d d d"}
	for _, x := range docs {
		for _, y := range docs {
			sim := Cosine(m.Transform(x), m.Transform(y))
			assert.GreaterOrEqual(t, sim, 0.0)
			assert.LessOrEqual(t, sim, 1.0)
		}
	}
}

func TestTopTerms(t *testing.T) {
	space, err := Build(context.Background(), animals(), 1)
	require.NoError(t, err)
	cat, _ := space.Vector("Cat")

	assert.Equal(t, []string{"feline", "animal"}, space.Model.TopTerms(cat, 2))
	assert.Equal(t, []string{"feline", "animal", "pet"}, space.Model.TopTerms(cat, 10))
	assert.Nil(t, space.Model.TopTerms(cat, 0))
	assert.Empty(t, space.Model.TopTerms(Vector{}, 3))
}

func TestBuildIndependentOfWorkers(t *testing.T) {
	var articles []types.Article
	for i := 0; i < 40; i++ {
		articles = append(articles, types.Article{
			Title:            fmt.Sprintf("T%d", i),
			Link:             fmt.Sprintf("l%d", i),
			ProcessedContent: fmt.Sprintf("term%d term%d shared term%d", i%7, i%5, i%3),
		})
	}
	c := corpus.New(articles)

	one, err := Build(context.Background(), c, 1)
	require.NoError(t, err)
	many, err := Build(context.Background(), c, 8)
	require.NoError(t, err)

	require.Equal(t, one.Len(), many.Len())
	assert.Equal(t, one.Titles(), many.Titles())
	for i := 0; i < one.Len(); i++ {
		assert.Equal(t, one.At(i), many.At(i))
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	space, err := Build(context.Background(), corpus.New(nil), 4)
	require.NoError(t, err)
	assert.Equal(t, 0, space.Len())
	assert.Empty(t, space.Model.Vocabulary())
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, animals(), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
