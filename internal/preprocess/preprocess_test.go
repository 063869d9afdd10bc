// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-recommender/pkg/types"
)

// --- fakes ---

type upperStemmer struct{}

func (upperStemmer) Name() string            { return "upper" }
func (upperStemmer) Stem(word string) string { return strings.ToUpper(word) }

type suffixLemmatizer struct{}

func (suffixLemmatizer) Lemmatize(word string) string { return word + "-lemma" }

var stop = EnglishStopWords()

// --- Preprocess ---

func TestPreprocessFiltersStopWordsAndNonAlphabetic(t *testing.T) {
	got := Preprocess("The Cats, and the DOGS! 42 well-known 3d", WordTokenize, nil, nil, false, stop)
	assert.Equal(t, "cats dogs", got)
}

func TestPreprocessWordPunctSplitsCompounds(t *testing.T) {
	got := Preprocess("The well-known cats", WordPunctTokenize, nil, nil, false, stop)
	assert.Equal(t, "well known cats", got)
}

func TestPreprocessPreservesOrder(t *testing.T) {
	got := Preprocess("zebra apple mango", WordTokenize, nil, nil, false, stop)
	assert.Equal(t, "zebra apple mango", got)
}

func TestPreprocessEmptyInput(t *testing.T) {
	assert.Equal(t, "", Preprocess("", WordTokenize, nil, nil, false, stop))
	assert.Equal(t, "", Preprocess("the and of", WordTokenize, nil, nil, false, stop))
}

func TestPreprocessStemmerWinsOverLemmatizer(t *testing.T) {
	got := Preprocess("cats sleep", WordTokenize, upperStemmer{}, suffixLemmatizer{}, true, stop)
	assert.Equal(t, "CATS SLEEP", got)
}

func TestPreprocessLemmatizerRequiresToggle(t *testing.T) {
	got := Preprocess("cats", WordTokenize, nil, suffixLemmatizer{}, false, stop)
	assert.Equal(t, "cats", got)

	got = Preprocess("cats", WordTokenize, nil, suffixLemmatizer{}, true, stop)
	assert.Equal(t, "cats-lemma", got)
}

func TestPreprocessIsIdempotentWithoutNormalization(t *testing.T) {
	inputs := []string{
		"The quick brown fox jumps over the lazy dog.",
		"Cats (Felis catus) are small, carnivorous mammals; they're popular pets!",
		"Rocket engines burn fuel — and don't stop.",
	}
	for _, tokenize := range []Tokenizer{WordTokenize, WordPunctTokenize} {
		for _, in := range inputs {
			once := Preprocess(in, tokenize, nil, nil, false, stop)
			twice := Preprocess(once, tokenize, nil, nil, false, stop)
			assert.Equal(t, once, twice, "input %q", in)
		}
	}
}

func TestResolveNormalization(t *testing.T) {
	tests := []struct {
		name          string
		stemmer       Stemmer
		lemmatizer    Lemmatizer
		useLemmatizer bool
		want          NormalizationKind
	}{
		{"nothing", nil, nil, false, NormalizeNone},
		{"stemmer only", upperStemmer{}, nil, false, NormalizeStem},
		{"stemmer beats lemmatizer", upperStemmer{}, suffixLemmatizer{}, true, NormalizeStem},
		{"lemmatizer toggled", nil, suffixLemmatizer{}, true, NormalizeLemmatize},
		{"lemmatizer not toggled", nil, suffixLemmatizer{}, false, NormalizeNone},
		{"toggle without lemmatizer", nil, nil, true, NormalizeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveNormalization(tt.stemmer, tt.lemmatizer, tt.useLemmatizer)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

// --- Tokenizers ---

func TestWordTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"don't stop, believing.", []string{"do", "n't", "stop", ",", "believing", "."}},
		{"the cat's toy", []string{"the", "cat", "'s", "toy"}},
		{"(state-of-the-art)", []string{"(", "state-of-the-art", ")"}},
		{"e.g. this", []string{"e.g", ".", "this"}},
		{"a,b", []string{"a", ",", "b"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, WordTokenize(tt.in))
		})
	}
}

func TestWordPunctTokenize(t *testing.T) {
	assert.Equal(t, []string{"don", "'", "t", "stop", "!"}, WordPunctTokenize("don't stop!"))
	assert.Equal(t, []string{"well", "-", "known"}, WordPunctTokenize("well-known"))
	assert.Equal(t, []string{"café", "naïve"}, WordPunctTokenize("café naïve"))
}

func TestTokenizerByName(t *testing.T) {
	_, err := TokenizerByName(TokenizerWord)
	require.NoError(t, err)
	_, err = TokenizerByName(TokenizerWordPunct)
	require.NoError(t, err)
	_, err = TokenizerByName("sentence")
	assert.Error(t, err)
}

// --- Pipeline ---

func TestPipelineProfile(t *testing.T) {
	tests := []struct {
		cfg  types.PreprocessConfig
		want string
	}{
		{types.PreprocessConfig{}, "word/porter"},
		{types.PreprocessConfig{Tokenizer: "word", Stemmer: "porter", Lemmatize: true}, "word/porter"},
		{types.PreprocessConfig{Tokenizer: "wordpunct", Stemmer: "none", Lemmatize: true}, "wordpunct/lemma"},
		{types.PreprocessConfig{Tokenizer: "word", Stemmer: "none"}, "word/none"},
		{types.PreprocessConfig{Tokenizer: "word", Stemmer: "lancaster"}, "word/lancaster"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p, err := NewPipeline(tt.cfg, stop)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Profile())
		})
	}
}

func TestPipelineProcess(t *testing.T) {
	p, err := NewPipeline(types.PreprocessConfig{Tokenizer: "word", Stemmer: "none", Lemmatize: true}, stop)
	require.NoError(t, err)
	assert.Equal(t, "child play box", p.Process("The children play with boxes"))
}

func TestNewPipelineRejectsUnknownNames(t *testing.T) {
	_, err := NewPipeline(types.PreprocessConfig{Tokenizer: "sentence"}, stop)
	assert.Error(t, err)

	_, err = NewPipeline(types.PreprocessConfig{Stemmer: "krovetz"}, stop)
	assert.Error(t, err)
}
