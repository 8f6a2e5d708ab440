package sentiment

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// fixedClassifier always predicts one class.
type fixedClassifier struct {
	class    int
	features int
}

func (f fixedClassifier) PredictProba(x mat.Vector) ([]float64, error) {
	probs := make([]float64, NumClasses)
	probs[f.class] = 1
	return probs, nil
}

func (f fixedClassifier) NumFeatures() int {
	return f.features
}

// countingVectorizer records how often Transform is called.
type countingVectorizer struct {
	Vectorizer
	calls int
	docs  int
}

func (c *countingVectorizer) Transform(docs ...string) ([]*mat.VecDense, error) {
	c.calls++
	c.docs += len(docs)
	return c.Vectorizer.Transform(docs...)
}

func loadTestModel(t *testing.T, dir string) *Model {
	t.Helper()
	model, err := ModelFromDisk(filepath.Join("testdata", dir))
	if err != nil {
		t.Fatalf("ModelFromDisk(%s): %v", dir, err)
	}
	return model
}

func testVectorizer(t *testing.T) *CountVectorizer {
	t.Helper()
	v, err := NewCountVectorizer(map[string]int{
		"love": 0, "great": 1, "good": 2, "fine": 3, "bad": 4, "hate": 5, "terribl": 6,
	})
	if err != nil {
		t.Fatalf("NewCountVectorizer: %v", err)
	}
	return v
}

// newFixedModel builds a model whose classifier always answers class.
func newFixedModel(t *testing.T, class int) (*Model, *countingVectorizer) {
	t.Helper()
	v := &countingVectorizer{Vectorizer: testVectorizer(t)}
	s, err := NewIdentityScaler(v.Dims())
	if err != nil {
		t.Fatal(err)
	}
	model, err := NewModel("fixed", v, s, fixedClassifier{class: class, features: v.Dims()})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return model, v
}

func newTestPredictor(t *testing.T, model *Model, opts ...PredictorOpt) *Predictor {
	t.Helper()
	p, err := NewPredictor(model, opts...)
	if err != nil {
		t.Fatalf("NewPredictor: %v", err)
	}
	return p
}
