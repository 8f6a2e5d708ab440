package sentiment

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// A Stemmer reduces a lowercase word to its root form.
type Stemmer func(word string) string

// irregularStems are whole words with a fixed stem.
var irregularStems = map[string]string{
	"skies":    "sky",
	"sky":      "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"innings":  "inning",
	"inning":   "inning",
	"outings":  "outing",
	"outing":   "outing",
	"cannings": "canning",
	"canning":  "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

// PorterStem stems word with the Porter suffix-stripping algorithm in the
// variant NLTK applies by default, which the shipped vocabularies were built
// with. It differs from the 1980 algorithm in these ways:
//
//   - Words of one or two letters are left alone.
//   - A small table of irregular forms is looked up first (skies, dying, news).
//   - Four-letter words ending in "ies" or "ied" keep "ie" (ties, died). Longer
//     "ied" words end in "i".
//   - A final "y" only becomes "i" after a consonant that is not the first
//     letter, so enjoyed stems to enjoy and cry to cri.
//   - The "fulli", "bli", "logi" and "alli" suffixes are rewritten before the
//     later steps run.
//
// Everything else is delegated to go-porterstemmer.
func PorterStem(word string) string {
	if len(word) <= 2 {
		return word
	}
	if stem, ok := irregularStems[word]; ok {
		return stem
	}

	n := len(word)
	switch {
	case n == 4 && (strings.HasSuffix(word, "ies") || strings.HasSuffix(word, "ied")):
		return porter(word[:3])
	case strings.HasSuffix(word, "ied"):
		return porter(word[:n-3] + "i")
	}

	switch {
	case strings.HasSuffix(word, "fully") && measure(word[:n-5]) > 0:
		return porter(word[:n-2])
	case strings.HasSuffix(word, "ally") && measure(word[:n-4]) > 0:
		return porter(word[:n-2])
	case strings.HasSuffix(word, "logy") && measure(word[:n-3]) > 0:
		return porter(word[:n-1])
	case strings.HasSuffix(word, "bly") && measure(word[:n-3]) > 0:
		return porter(word[:n-1] + "e")
	}

	base := step1(word)
	if strings.HasSuffix(base, "y") {
		stem := base[:len(base)-1]
		if len(stem) > 1 && isConsonant(stem, len(stem)-1) {
			return porter(stem + "i")
		}
		return base
	}
	return porter(word)
}

func porter(word string) string {
	return porterstemmer.StemString(word)
}

// step1 strips the plural and -ed/-ing endings the way the first step of the
// algorithm does, up to the point where a trailing "y" is examined.
func step1(word string) string {
	switch {
	case strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "ies"):
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "ss"):
	case strings.HasSuffix(word, "s"):
		word = word[:len(word)-1]
	}

	switch {
	case strings.HasSuffix(word, "eed"):
	case strings.HasSuffix(word, "ed") && containsVowel(word[:len(word)-2]):
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "ing") && containsVowel(word[:len(word)-3]):
		word = word[:len(word)-3]
	}
	return word
}

// isConsonant reports whether word[i] is a consonant. A "y" is a consonant
// at the start of a word or after a vowel.
func isConsonant(word string, i int) bool {
	switch word[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		return i == 0 || !isConsonant(word, i-1)
	}
	return true
}

func containsVowel(word string) bool {
	for i := range word {
		if !isConsonant(word, i) {
			return true
		}
	}
	return false
}

// measure counts the vowel-consonant sequences in word.
func measure(word string) int {
	m := 0
	vowel := false
	for i := range word {
		if isConsonant(word, i) {
			if vowel {
				m++
			}
			vowel = false
		} else {
			vowel = true
		}
	}
	return m
}
