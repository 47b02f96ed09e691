// Package text implements the fuzzy title and semantic token similarity
// components.
package text

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// semanticStopWords filters common words that add noise to token overlap.
var semanticStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true,
}

// TitleSimilarity returns the fuzzy partial-match ratio between two
// free-text titles, normalized to [0,1]. The component is absent (second
// return false) when either title is empty. Taking the max of both
// argument orders keeps the result symmetric.
func TitleSimilarity(a, b string) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	r1 := fuzzy.PartialRatio(a, b)
	r2 := fuzzy.PartialRatio(b, a)
	if r2 > r1 {
		r1 = r2
	}
	return float64(r1) / 100.0, true
}

// SemanticSimilarity returns token-set overlap between two pre-extracted
// text blobs: |A∩B| / max(|A|,|B|). Absent when either blob tokenizes to
// nothing.
func SemanticSimilarity(a, b string) (float64, bool) {
	at := Tokens(a)
	bt := Tokens(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0, false
	}
	inter := 0
	small, large := at, bt
	if len(bt) < len(at) {
		small, large = bt, at
	}
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	denom := len(at)
	if len(bt) > denom {
		denom = len(bt)
	}
	return float64(inter) / float64(denom), true
}

// Tokens lowercases and splits text into a token set, keeping tokens longer
// than two runes and skipping stop words. + # . are treated as word
// characters so tech names like "c++" and "node.js" survive intact.
func Tokens(text string) map[string]struct{} {
	out := make(map[string]struct{})
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) > 2 && !semanticStopWords[w] {
			out[w] = struct{}{}
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '_' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}
