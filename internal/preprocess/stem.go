// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"fmt"

	"github.com/kljensen/snowball"
)

// Stemmer names accepted by StemmerByName.
const (
	StemmerPorter    = "porter"
	StemmerLancaster = "lancaster"
	StemmerNone      = "none"
)

// StemmerByName returns the stemmer registered under name. "none" returns
// a nil Stemmer.
func StemmerByName(name string) (Stemmer, error) {
	switch name {
	case StemmerPorter:
		return PorterStemmer{}, nil
	case StemmerLancaster:
		return NewLancasterStemmer(), nil
	case StemmerNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q: use %s, %s or %s", name, StemmerPorter, StemmerLancaster, StemmerNone)
	}
}

// PorterStemmer is the light stemmer: the Snowball English (Porter2)
// algorithm.
type PorterStemmer struct{}

// Name returns "porter".
func (PorterStemmer) Name() string { return StemmerPorter }

// Stem returns the Porter2 stem of word, or word itself if stemming fails.
func (PorterStemmer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
