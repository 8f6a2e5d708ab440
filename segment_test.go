package sentiment

import (
	"testing"
)

func TestPunktSegmenter(t *testing.T) {
	seg, err := NewPunktSegmenter()
	if err != nil {
		t.Fatalf("NewPunktSegmenter: %v", err)
	}

	tests := []struct {
		text     string
		expected []string
		desc     string
	}{
		{
			"I love this phone. The battery is terrible.",
			[]string{"I love this phone.", "The battery is terrible."},
			"Two sentences",
		},
		{
			"Shipping was fast!  Would buy again?",
			[]string{"Shipping was fast!", "Would buy again?"},
			"Other terminators",
		},
		{"Just one", []string{"Just one"}, "No terminator"},
		{"   ", nil, "Blank"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := seg.Segment(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("Segment(%q) = %+v, want %d sentences", tt.text, got, len(tt.expected))
			}
			for i, s := range got {
				if s.Text != tt.expected[i] {
					t.Errorf("sentence %d = %q, want %q", i, s.Text, tt.expected[i])
				}
			}
		})
	}
}
