package sentiment

import "testing"

func TestPorterStem(t *testing.T) {
	tests := []struct {
		word     string
		expected string
		desc     string
	}{
		{"is", "is", "Two letters untouched"},
		{"skies", "sky", "Irregular plural"},
		{"sky", "sky", "Irregular base form"},
		{"dying", "die", "Irregular participle"},
		{"lying", "lie", "Irregular participle"},
		{"tying", "tie", "Irregular participle"},
		{"news", "news", "Irregular plural kept"},
		{"innings", "inning", "Irregular plural"},
		{"proceed", "proceed", "Irregular verb kept"},
		{"ties", "tie", "Four-letter ies"},
		{"died", "die", "Four-letter ied"},
		{"cried", "cri", "Long ied"},
		{"ponies", "poni", "Long ies"},
		{"caresses", "caress", "Plural sses"},
		{"enjoy", "enjoy", "Y after vowel kept"},
		{"enjoyed", "enjoy", "Y after vowel kept once ed is removed"},
		{"played", "play", "Y after vowel kept once ed is removed"},
		{"days", "day", "Y after vowel kept once s is removed"},
		{"buying", "buy", "Y after vowel kept once ing is removed"},
		{"cry", "cri", "Y after consonant"},
		{"trying", "tri", "Y after consonant once ing is removed"},
		{"happy", "happi", "Y after consonant"},
		{"really", "realli", "Short stem before alli"},
		{"carefully", "care", "fulli rewritten"},
		{"basically", "basic", "alli rewritten"},
		{"possibly", "possibl", "bli rewritten"},
		{"probably", "probabl", "bli rewritten"},
		{"biology", "biolog", "logi rewritten"},
		{"running", "run", "Double consonant"},
		{"loved", "love", "Restored e"},
		{"terrible", "terribl", "Final e removed"},
		{"wonderful", "wonder", "ful removed"},
	}

	for _, tt := range tests {
		t.Run(tt.desc+"/"+tt.word, func(t *testing.T) {
			if got := PorterStem(tt.word); got != tt.expected {
				t.Errorf("PorterStem(%q) = %q, want %q", tt.word, got, tt.expected)
			}
		})
	}
}

func TestNormalizeUsesIrregularStems(t *testing.T) {
	n := NewNormalizer()
	if got := n.Normalize("Clear skies in the news, I enjoyed it"); got != "clear sky news enjoy" {
		t.Errorf("Normalize = %q, want %q", got, "clear sky news enjoy")
	}
}
