package sentiment

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bbalet/stopwords"
)

// Stopwords reports whether a lowercase token carries too little information
// to be kept as a feature.
type Stopwords interface {
	Contains(word string) bool
}

// Supported stopword sources.
const (
	StopwordsNLTK   = "nltk"
	StopwordsBbalet = "bbalet"
)

// WordSet is a fixed set of stopwords.
type WordSet map[string]struct{}

// NewWordSet builds a WordSet from words.
func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether word is in the set.
func (ws WordSet) Contains(word string) bool {
	_, found := ws[word]
	return found
}

// Words returns the set's members in sorted order.
func (ws WordSet) Words() []string {
	words := make([]string, 0, len(ws))
	for w := range ws {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// EnglishStopwords returns the fixed English stopword list the shipped
// vocabularies were built with.
func EnglishStopwords() WordSet {
	return NewWordSet(englishStopwords...)
}

// LibraryStopwords uses the stopword lists bundled with bbalet/stopwords.
//
// The library does not export its lists, so membership is probed by cleaning
// the single word and checking whether anything survives.
type LibraryStopwords struct {
	langCode string
	seen     sync.Map // word -> bool
}

// NewLibraryStopwords returns a stopword set for an ISO 639-1 language code.
func NewLibraryStopwords(langCode string) *LibraryStopwords {
	return &LibraryStopwords{langCode: langCode}
}

// Contains reports whether the library removes word as a stopword.
func (ls *LibraryStopwords) Contains(word string) bool {
	if word == "" {
		return false
	}
	if v, ok := ls.seen.Load(word); ok {
		return v.(bool)
	}
	cleaned := stopwords.CleanString(word, ls.langCode, false)
	stop := strings.TrimSpace(cleaned) == ""
	ls.seen.Store(word, stop)
	return stop
}

// StopwordsFor returns the stopword set registered under source.
func StopwordsFor(source string) (Stopwords, error) {
	switch strings.ToLower(source) {
	case "", StopwordsNLTK:
		return EnglishStopwords(), nil
	case StopwordsBbalet:
		return NewLibraryStopwords("en"), nil
	default:
		return nil, fmt.Errorf("unknown stopword source %q", source)
	}
}

var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
	"you're", "you've", "you'll", "you'd", "your", "yours", "yourself",
	"yourselves", "he", "him", "his", "himself", "she", "she's", "her", "hers",
	"herself", "it", "it's", "its", "itself", "they", "them", "their", "theirs",
	"themselves", "what", "which", "who", "whom", "this", "that", "that'll",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then",
	"once", "here", "there", "when", "where", "why", "how", "all", "any",
	"both", "each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "very", "s", "t", "can",
	"will", "just", "don", "don't", "should", "should've", "now", "d", "ll",
	"m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
	"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't",
	"haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn",
	"mustn't", "needn", "needn't", "shan", "shan't", "shouldn", "shouldn't",
	"wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}
