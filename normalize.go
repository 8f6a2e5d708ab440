package sentiment

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer turns raw review text into the token string the vectorizer was
// fitted on: alphabetic characters only, lowercase, stopwords removed and
// every remaining token stemmed.
//
// A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	nonAlpha  *regexp.Regexp
	stopwords Stopwords
	stem      Stemmer
}

// NormalizerOptFunc configures a Normalizer.
type NormalizerOptFunc func(*Normalizer)

// UsingStopwords replaces the default English stopword set.
func UsingStopwords(x Stopwords) NormalizerOptFunc {
	return func(n *Normalizer) {
		n.stopwords = x
	}
}

// UsingStemmer replaces the default Porter stemmer.
func UsingStemmer(x Stemmer) NormalizerOptFunc {
	return func(n *Normalizer) {
		n.stem = x
	}
}

// NewNormalizer returns a Normalizer using the English stopword list and the
// Porter stemmer unless overridden by opts.
func NewNormalizer(opts ...NormalizerOptFunc) *Normalizer {
	n := &Normalizer{
		nonAlpha:  nonAlphaRE,
		stopwords: EnglishStopwords(),
		stem:      PorterStem,
	}
	for _, applyOpt := range opts {
		applyOpt(n)
	}
	return n
}

// Tokens returns the normalized tokens of text.
func (n *Normalizer) Tokens(text string) []string {
	cleaned := n.nonAlpha.ReplaceAllString(text, " ")
	words := strings.Fields(strings.ToLower(cleaned))

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if n.stopwords != nil && n.stopwords.Contains(word) {
			continue
		}
		if n.stem != nil {
			word = n.stem(word)
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Normalize returns the normalized form of text. It never fails; text that
// holds nothing but stopwords and punctuation normalizes to "".
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// NormalizeValue coerces v to its string form before normalizing it. Nil
// values normalize to "".
func (n *Normalizer) NormalizeValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return n.Normalize(x)
	case fmt.Stringer:
		return n.Normalize(x.String())
	default:
		return n.Normalize(fmt.Sprint(x))
	}
}

var nonAlphaRE = regexp.MustCompile(`[^a-zA-Z]`)
