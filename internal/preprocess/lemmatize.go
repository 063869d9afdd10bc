// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"fmt"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// englishDictionary loads the golem English lemma dictionary once per process.
var englishDictionary = sync.OnceValues(func() (*golem.Lemmatizer, error) {
	return golem.New(en.New())
})

// NounLemmatizer reduces plural nouns to their singular dictionary form.
// Irregular and invariant nouns are resolved from fixed tables, everything
// else through the English lemma dictionary. Words found in neither are
// returned unchanged.
type NounLemmatizer struct {
	dict      *golem.Lemmatizer
	irregular map[string]string
	invariant map[string]struct{}
}

// NewNounLemmatizer returns a lemmatizer backed by the English dictionary.
func NewNounLemmatizer() (*NounLemmatizer, error) {
	dict, err := englishDictionary()
	if err != nil {
		return nil, fmt.Errorf("loading english lemma dictionary: %w", err)
	}
	invariant := make(map[string]struct{}, len(invariantNouns))
	for _, w := range invariantNouns {
		invariant[w] = struct{}{}
	}
	return &NounLemmatizer{dict: dict, irregular: irregularNouns, invariant: invariant}, nil
}

// Lemmatize returns the dictionary form of word.
func (l *NounLemmatizer) Lemmatize(word string) string {
	if lemma, ok := l.irregular[word]; ok {
		return lemma
	}
	if _, ok := l.invariant[word]; ok {
		return word
	}
	return l.dict.Lemma(word)
}

var irregularNouns = map[string]string{
	"children":   "child",
	"men":        "man",
	"women":      "woman",
	"firemen":    "fireman",
	"mice":       "mouse",
	"lice":       "louse",
	"geese":      "goose",
	"feet":       "foot",
	"teeth":      "tooth",
	"oxen":       "ox",
	"knives":     "knife",
	"wives":      "wife",
	"lives":      "life",
	"leaves":     "leaf",
	"wolves":     "wolf",
	"halves":     "half",
	"shelves":    "shelf",
	"calves":     "calf",
	"loaves":     "loaf",
	"thieves":    "thief",
	"criteria":   "criterion",
	"phenomena":  "phenomenon",
	"analyses":   "analysis",
	"theses":     "thesis",
	"crises":     "crisis",
	"hypotheses": "hypothesis",
	"diagnoses":  "diagnosis",
	"indices":    "index",
	"matrices":   "matrix",
	"vertices":   "vertex",
	"cacti":      "cactus",
	"fungi":      "fungus",
	"nuclei":     "nucleus",
	"radii":      "radius",
	"stimuli":    "stimulus",
	"alumni":     "alumnus",
	"larvae":     "larva",
	"formulae":   "formula",
	"antennae":   "antenna",
	"bacteria":   "bacterium",
	"curricula":  "curriculum",
	"memoranda":  "memorandum",
	"dice":       "die",
	"buses":      "bus",
	"viruses":    "virus",
	"statuses":   "status",
	"gases":      "gas",
	"potatoes":   "potato",
	"tomatoes":   "tomato",
	"heroes":     "hero",
	"echoes":     "echo",
	"vetoes":     "veto",
	"volcanoes":  "volcano",
	"torpedoes":  "torpedo",
	"mosquitoes": "mosquito",
	"dominoes":   "domino",
	"appendices": "appendix",
	"automata":   "automaton",
	"millennia":  "millennium",
	"symposia":   "symposium",
	"spectra":    "spectrum",
	"strata":     "stratum",
	"addenda":    "addendum",
	"errata":     "erratum",
	"corpora":    "corpus",
	"genera":     "genus",
	"ova":        "ovum",
	"quanta":     "quantum",
	"maxima":     "maximum",
	"minima":     "minimum",
	"optima":     "optimum",
	"data":       "datum",
}

// invariantNouns end like plurals but are their own lemma.
var invariantNouns = []string{
	"species", "bias", "chaos", "atlas", "cosmos", "bus", "gas", "analysis",
	"thesis", "crisis", "basis", "axis", "census", "status", "virus",
	"series", "news", "physics", "mathematics", "economics", "politics",
	"ethics", "linguistics", "statistics", "genetics", "athletics",
	"aircraft", "sheep", "deer", "fish", "moose", "salmon", "trout",
	"headquarters", "means", "crossroads", "barracks", "gallows", "lens",
	"always", "perhaps", "whereas", "thus", "towards", "afterwards",
	"sometimes", "besides", "various", "previous", "famous", "serious",
	"numerous", "anonymous", "continuous", "enormous", "dangerous",
}
