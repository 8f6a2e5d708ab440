package sentiment

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"
)

// A Vectorizer maps normalized documents to fixed-width feature vectors.
type Vectorizer interface {
	// Transform returns one vector per document, in document order.
	Transform(docs ...string) ([]*mat.VecDense, error)

	// Dims returns the width of every vector Transform produces.
	Dims() int
}

// CountVectorizer counts occurrences of each vocabulary term in a document.
// Terms outside the vocabulary are ignored.
type CountVectorizer struct {
	cv    *nlp.CountVectoriser
	terms []string
}

// NewCountVectorizer builds a CountVectorizer over a fitted vocabulary. The
// column indices of vocabulary must cover 0..len(vocabulary)-1 exactly once.
func NewCountVectorizer(vocabulary map[string]int) (*CountVectorizer, error) {
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidModel)
	}

	terms := make([]string, len(vocabulary))
	for term, idx := range vocabulary {
		if idx < 0 || idx >= len(vocabulary) {
			return nil, fmt.Errorf("%w: vocabulary index %d for %q outside [0,%d)",
				ErrInvalidModel, idx, term, len(vocabulary))
		}
		if terms[idx] != "" {
			return nil, fmt.Errorf("%w: vocabulary index %d shared by %q and %q",
				ErrInvalidModel, idx, terms[idx], term)
		}
		terms[idx] = term
	}

	cv := nlp.NewCountVectoriser()
	cv.Vocabulary = make(map[string]int, len(vocabulary))
	for term, idx := range vocabulary {
		cv.Vocabulary[term] = idx
	}
	return &CountVectorizer{cv: cv, terms: terms}, nil
}

// LoadCountVectorizer reads a vocabulary artifact of the form
// {"vocabulary": {"term": index, ...}}.
func LoadCountVectorizer(r io.Reader) (*CountVectorizer, error) {
	var artifact vectorizerArtifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: decoding vectorizer: %v", ErrInvalidModel, err)
	}
	return NewCountVectorizer(artifact.Vocabulary)
}

// Dims returns the vocabulary size.
func (v *CountVectorizer) Dims() int {
	return len(v.terms)
}

// Terms returns the vocabulary in column order.
func (v *CountVectorizer) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Vocabulary returns a copy of the term to column mapping.
func (v *CountVectorizer) Vocabulary() map[string]int {
	vocab := make(map[string]int, len(v.terms))
	for idx, term := range v.terms {
		vocab[term] = idx
	}
	return vocab
}

// Transform counts vocabulary terms in each of docs. At least one document is
// required.
func (v *CountVectorizer) Transform(docs ...string) ([]*mat.VecDense, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	// The term-document matrix has one row per term and one column per doc.
	tdm, err := v.cv.Transform(docs...)
	if err != nil {
		return nil, err
	}
	terms, cols := tdm.Dims()
	if terms != len(v.terms) || cols != len(docs) {
		return nil, fmt.Errorf("%w: term-document matrix is %dx%d, want %dx%d",
			ErrDimensionMismatch, terms, cols, len(v.terms), len(docs))
	}

	vecs := make([]*mat.VecDense, cols)
	for j := 0; j < cols; j++ {
		vecs[j] = mat.NewVecDense(terms, mat.Col(nil, j, tdm))
	}
	return vecs, nil
}

// MarshalJSON encodes the vectorizer as a vocabulary artifact.
func (v *CountVectorizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(vectorizerArtifact{Vocabulary: v.Vocabulary()})
}

type vectorizerArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
}
