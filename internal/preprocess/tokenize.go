// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Tokenizer names accepted by TokenizerByName.
const (
	TokenizerWord      = "word"
	TokenizerWordPunct = "wordpunct"
)

// TokenizerByName returns the built-in tokenizer registered under name.
func TokenizerByName(name string) (Tokenizer, error) {
	switch name {
	case TokenizerWord:
		return WordTokenize, nil
	case TokenizerWordPunct:
		return WordPunctTokenize, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q: use %s or %s", name, TokenizerWord, TokenizerWordPunct)
	}
}

var wordPunctPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+|[^\p{L}\p{M}\p{N}_\s]+`)

// WordPunctTokenize splits text into runs of word characters and runs of
// punctuation, so "well-known" becomes "well", "-", "known".
func WordPunctTokenize(text string) []string {
	return wordPunctPattern.FindAllString(text, -1)
}

// separators are always split off as their own token, wherever they occur.
const separators = `,;:!?()[]{}"<>`

// contractionSuffixes are split off the end of a word, longest first.
var contractionSuffixes = []string{"n't", "'ll", "'re", "'ve", "'s", "'d", "'m"}

// WordTokenize is a treebank-style tokenizer. Separators and punctuation at
// word edges become their own tokens, English contractions are split
// ("don't" becomes "do", "n't") and punctuation inside a word is kept, so
// hyphenated compounds and abbreviations stay single tokens.
func WordTokenize(text string) []string {
	text = strings.ReplaceAll(text, "’", "'")

	var tokens []string
	for _, field := range strings.Fields(text) {
		for _, chunk := range splitSeparators(field) {
			tokens = appendWord(tokens, chunk)
		}
	}
	return tokens
}

// splitSeparators cuts s at separator runes, keeping each separator.
func splitSeparators(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if !strings.ContainsRune(separators, r) {
			continue
		}
		if i > start {
			parts = append(parts, s[start:i])
		}
		parts = append(parts, string(r))
		start = i + len(string(r))
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// appendWord peels edge punctuation and contractions from chunk.
func appendWord(tokens []string, chunk string) []string {
	runes := []rune(chunk)
	lo, hi := 0, len(runes)
	for lo < hi && isEdgePunct(runes[lo]) {
		tokens = append(tokens, string(runes[lo]))
		lo++
	}

	var trailing []string
	for hi > lo && isEdgePunct(runes[hi-1]) {
		trailing = append(trailing, string(runes[hi-1]))
		hi--
	}

	if core := string(runes[lo:hi]); core != "" {
		tokens = append(tokens, splitContraction(core)...)
	}
	for i := len(trailing) - 1; i >= 0; i-- {
		tokens = append(tokens, trailing[i])
	}
	return tokens
}

func splitContraction(word string) []string {
	for _, suffix := range contractionSuffixes {
		if len(word) > len(suffix) && strings.HasSuffix(word, suffix) {
			return []string{word[:len(word)-len(suffix)], suffix}
		}
	}
	return []string{word}
}

func isEdgePunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
}
