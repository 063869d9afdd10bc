// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// lancasterRules is the Paice/Husk rule table. Each rule is the reversed
// ending, an optional "*" (word must be intact), the number of characters
// to remove, the string to append, and "." (stop) or ">" (continue).
var lancasterRules = []string{
	"ai*2.", "a*1.",
	"bb1.",
	"city3s.", "ci2>", "cn1t>",
	"dd1.", "dei3y>", "deec2ss.", "dee1.", "de2>", "dooh4>",
	"e1>",
	"feil1v.", "fi2>",
	"gni3>", "gai3y.", "ga2>", "gg1.",
	"ht*2.", "hsiug5ct.", "hsi3>",
	"i*1.", "i1y>",
	"ji1d.", "juf1s.", "ju1d.", "jo1d.", "jeh1r.", "jrev1t.", "jsim2t.", "jn1d.", "j1s.",
	"lbaifi6.", "lbai4y.", "lba3>", "lbi3.", "lib2l>", "lc1.", "lufi4y.", "luf3>", "lu2.", "lai3>", "lau3>", "la2>", "ll1.",
	"mui3.", "mu*2.", "msi3>", "mm1.",
	"nois4j>", "noix4ct.", "noi3>", "nai3>", "na2>", "nee0.", "ne2>", "nn1.",
	"pihs4>", "pp1.",
	"re2>", "rae0.", "ra2.", "ro2>", "ru2>", "rr1.", "rt1>", "rei3y>",
	"sei3y>", "sis2.", "si2>", "ssen4>", "ss0.", "suo3>", "su*2.", "s*1>", "s0.",
	"tacilp4y.", "ta2>", "tnem4>", "tne3>", "tna3>", "tpir2b.", "tpro2b.", "tcud1.", "tpmus2.", "tpec2iv.", "tulo2v.", "tsis0.", "tsi3>", "tt1.",
	"uqi3.", "ugo1.",
	"vis3j>", "vie0.", "vi2>",
	"ylb1>", "yli3y>", "ylp0.", "yl2>", "ygo1.", "yhp1.", "ymo1.", "ypo1.", "yti3>", "yte3>", "ytl2.", "yrtsi5.", "yra3>", "yro3>", "yfi3.", "ycn2t>", "yca3>",
	"zi2>", "zy1s.",
}

var lancasterRulePattern = regexp.MustCompile(`^([a-z]+)(\*?)(\d)([a-z]*)([>.]?)$`)

type lancasterRule struct {
	ending     string
	intactOnly bool
	remove     int
	appendStr  string
	stop       bool
}

// LancasterStemmer is the aggressive stemmer: the Paice/Husk iterative
// rule-based algorithm.
type LancasterStemmer struct {
	rules map[byte][]lancasterRule
}

// NewLancasterStemmer parses the rule table.
func NewLancasterStemmer() *LancasterStemmer {
	rules := make(map[byte][]lancasterRule)
	for _, raw := range lancasterRules {
		m := lancasterRulePattern.FindStringSubmatch(raw)
		if m == nil {
			panic("preprocess: malformed lancaster rule " + raw)
		}
		remove, _ := strconv.Atoi(m[3])
		rules[raw[0]] = append(rules[raw[0]], lancasterRule{
			ending:     reverse(m[1]),
			intactOnly: m[2] == "*",
			remove:     remove,
			appendStr:  m[4],
			stop:       m[5] == ".",
		})
	}
	return &LancasterStemmer{rules: rules}
}

// Name returns "lancaster".
func (s *LancasterStemmer) Name() string { return StemmerLancaster }

// Stem applies rules keyed by the word's last letter until a stop rule
// fires or no rule applies.
func (s *LancasterStemmer) Stem(word string) string {
	word = strings.ToLower(word)
	intact := word

	for word != "" {
		candidates, ok := s.rules[word[len(word)-1]]
		if !ok {
			break
		}

		applied, stop := false, false
		for _, r := range candidates {
			if !strings.HasSuffix(word, r.ending) {
				continue
			}
			if r.intactOnly && word != intact {
				continue
			}
			if !lancasterAcceptable(word, r.remove) {
				continue
			}
			word = word[:len(word)-r.remove] + r.appendStr
			applied, stop = true, r.stop
			break
		}
		if !applied || stop {
			break
		}
	}
	return word
}

// lancasterAcceptable guards against over-stemming: a stem starting with a
// vowel keeps at least two letters, otherwise at least three with a vowel
// among the second and third.
func lancasterAcceptable(word string, remove int) bool {
	runes := []rune(word)
	remaining := utf8.RuneCountInString(word) - remove
	if isLancasterVowel(runes[0]) {
		return remaining >= 2
	}
	if remaining < 3 {
		return false
	}
	return isLancasterVowel(runes[1]) || isLancasterVowel(runes[2])
}

func isLancasterVowel(r rune) bool {
	return strings.ContainsRune("aeiouy", r)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
