// Package stem implements the external tokenizer/stemmer contract assumed
// by the indexing core: splitting raw text into lowercase ASCII-letter
// tokens and reducing each token to its Snowball-English stem.
package stem

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches runs of ASCII letters, the unit the rest of the
// system treats as a "word". Numbers and punctuation are delimiters.
var tokenPattern = regexp.MustCompile(`[A-Za-z]+`)

// Tokenize splits text into lowercase ASCII-letter tokens, in text order,
// including repeats. Input is first normalized to NFC so that composed and
// decomposed Unicode spellings of the same text tokenize identically; this
// is a text-hygiene step, not a claim about normalization the tokenizer
// itself performs.
func Tokenize(text string) []string {
	normalized := norm.NFC.String(text)
	matches := tokenPattern.FindAllString(normalized, -1)
	tokens := make([]string, len(matches))
	for i, m := range matches {
		tokens[i] = strings.ToLower(m)
	}
	return tokens
}

// Stem reduces a single lowercase token to its Snowball-English stem.
func Stem(token string) string {
	return english.Stem(token, false)
}

// TokenizeStem tokenizes text and stems every token, preserving order and
// duplicates. This is the composed primitive the builders and crawler use
// to go from raw text to index keys in one pass.
func TokenizeStem(text string) []string {
	tokens := Tokenize(text)
	stems := make([]string, len(tokens))
	for i, t := range tokens {
		stems[i] = Stem(t)
	}
	return stems
}
