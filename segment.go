package sentiment

import (
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A Segment is a sentence and its byte offsets in the source text.
type Segment struct {
	Text  string
	Start int
	End   int
}

// A Segmenter splits text into sentences.
type Segmenter interface {
	Segment(text string) []Segment
}

// PunktSegmenter splits English text with a pretrained Punkt model.
type PunktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSegmenter loads the bundled English Punkt model.
func NewPunktSegmenter() (*PunktSegmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &PunktSegmenter{tokenizer: tokenizer}, nil
}

// Segment returns the non-blank sentences of text.
func (p *PunktSegmenter) Segment(text string) []Segment {
	var segs []Segment
	for _, s := range p.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		segs = append(segs, Segment{Text: trimmed, Start: s.Start, End: s.End})
	}
	return segs
}
