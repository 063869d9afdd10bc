// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Article is one encyclopedia page held in the corpus. Title is the corpus
// key; Link is also unique across the corpus.
type Article struct {
	// Title is the page title, or the user-supplied history title for
	// articles fetched directly during expansion.
	Title string `json:"title" yaml:"title"`

	// Link is the absolute URL the article was fetched from.
	Link string `json:"link" yaml:"link"`

	// Content is the raw paragraph text of the page.
	Content string `json:"content" yaml:"content"`

	// ProcessedContent is Content after preprocessing. It is derived and
	// may be blank for rows that were never processed.
	ProcessedContent string `json:"processed_content,omitempty" yaml:"processed_content,omitempty"`

	// ProcessedProfile identifies the preprocessing configuration that
	// produced ProcessedContent (see preprocess.Pipeline.Profile).
	ProcessedProfile string `json:"processed_profile,omitempty" yaml:"processed_profile,omitempty"`
}

// NoExplanation is the explanation shown when explanation terms were not
// requested.
const NoExplanation = "no explanation"

// Recommendation is a ranked corpus article returned to the reader.
type Recommendation struct {
	Title string `json:"title" yaml:"title"`
	Link  string `json:"link" yaml:"link"`

	// Similarity is 1 - cosine distance to the history vector.
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// Terms are the highest-weighted vocabulary terms of the article,
	// descending by weight. Empty when explanations are disabled.
	Terms []string `json:"terms,omitempty" yaml:"terms,omitempty"`

	// Explanation is Terms joined for display, or NoExplanation.
	Explanation string `json:"explanation" yaml:"explanation"`
}
