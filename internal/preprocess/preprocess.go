// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preprocess normalizes raw article text into a canonical,
// space-separated term sequence: lower-casing, tokenization, alphabetic and
// stop-word filtering, then optional stemming or lemmatization.
package preprocess

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/article-recommender/pkg/types"
)

// Tokenizer splits lower-cased text into tokens.
type Tokenizer func(text string) []string

// Stemmer reduces a token to its stem.
type Stemmer interface {
	Name() string
	Stem(word string) string
}

// Lemmatizer reduces a token to its dictionary form.
type Lemmatizer interface {
	Lemmatize(word string) string
}

// NormalizationKind tags the normalization applied to surviving tokens.
type NormalizationKind int

const (
	NormalizeNone NormalizationKind = iota
	NormalizeStem
	NormalizeLemmatize
)

// Normalization is the resolved per-token normalization. Only the field
// matching Kind is set.
type Normalization struct {
	Kind       NormalizationKind
	Stemmer    Stemmer
	Lemmatizer Lemmatizer
}

// ResolveNormalization applies the selection precedence: a stemmer always
// wins, a lemmatizer is used only when requested, otherwise tokens pass
// through unchanged.
func ResolveNormalization(stemmer Stemmer, lemmatizer Lemmatizer, useLemmatizer bool) Normalization {
	switch {
	case stemmer != nil:
		return Normalization{Kind: NormalizeStem, Stemmer: stemmer}
	case useLemmatizer && lemmatizer != nil:
		return Normalization{Kind: NormalizeLemmatize, Lemmatizer: lemmatizer}
	default:
		return Normalization{Kind: NormalizeNone}
	}
}

// Apply normalizes a single token.
func (n Normalization) Apply(token string) string {
	switch n.Kind {
	case NormalizeStem:
		return n.Stemmer.Stem(token)
	case NormalizeLemmatize:
		return n.Lemmatizer.Lemmatize(token)
	default:
		return token
	}
}

// String names the normalization for use in profiles.
func (n Normalization) String() string {
	switch n.Kind {
	case NormalizeStem:
		return n.Stemmer.Name()
	case NormalizeLemmatize:
		return "lemma"
	default:
		return "none"
	}
}

// Preprocess lower-cases text, tokenizes it, keeps alphabetic non-stop-word
// tokens and normalizes them according to ResolveNormalization. Tokens are
// rejoined with single spaces in their original order.
func Preprocess(text string, tokenize Tokenizer, stemmer Stemmer, lemmatizer Lemmatizer, useLemmatizer bool, stop StopWords) string {
	return process(text, tokenize, ResolveNormalization(stemmer, lemmatizer, useLemmatizer), stop)
}

func process(text string, tokenize Tokenizer, norm Normalization, stop StopWords) string {
	tokens := tokenize(strings.ToLower(text))
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isAlpha(tok) || stop.Contains(tok) {
			continue
		}
		kept = append(kept, norm.Apply(tok))
	}
	return strings.Join(kept, " ")
}

// isAlpha reports whether s is non-empty and made only of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Pipeline is a preprocessing configuration resolved once per request.
type Pipeline struct {
	tokenizerName string
	tokenize      Tokenizer
	norm          Normalization
	stop          StopWords
}

// NewPipeline resolves cfg into a Pipeline. Unknown tokenizer or stemmer
// names are an error.
func NewPipeline(cfg types.PreprocessConfig, stop StopWords) (*Pipeline, error) {
	cfg = cfg.WithDefaults()

	tokenize, err := TokenizerByName(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}
	stemmer, err := StemmerByName(cfg.Stemmer)
	if err != nil {
		return nil, err
	}

	var lemmatizer Lemmatizer
	if cfg.Lemmatize && stemmer == nil {
		l, err := NewNounLemmatizer()
		if err != nil {
			return nil, err
		}
		lemmatizer = l
	}

	return &Pipeline{
		tokenizerName: cfg.Tokenizer,
		tokenize:      tokenize,
		norm:          ResolveNormalization(stemmer, lemmatizer, cfg.Lemmatize),
		stop:          stop,
	}, nil
}

// Process preprocesses text with the pipeline's configuration.
func (p *Pipeline) Process(text string) string {
	return process(text, p.tokenize, p.norm, p.stop)
}

// Normalization returns the resolved normalization.
func (p *Pipeline) Normalization() Normalization {
	return p.norm
}

// Profile identifies the effective configuration, e.g. "word/porter".
// Two pipelines with the same profile produce identical output.
func (p *Pipeline) Profile() string {
	return fmt.Sprintf("%s/%s", p.tokenizerName, p.norm)
}
