package sentiment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// A Classifier produces class probabilities for a scaled feature vector.
type Classifier interface {
	// PredictProba returns NumClasses probabilities summing to 1.
	PredictProba(x mat.Vector) ([]float64, error)

	// NumFeatures returns the expected input width, or 0 if the classifier
	// does not record it.
	NumFeatures() int
}

// Classifier kinds accepted in classifier artifacts.
const (
	ClassifierSoftmax = "softmax"
	ClassifierXGBoost = "xgboost"
)

// SoftmaxClassifier is a multinomial linear model: softmax(coef·x + intercept).
type SoftmaxClassifier struct {
	coef      *mat.Dense
	intercept *mat.VecDense
}

// NewSoftmaxClassifier builds a linear classifier from one coefficient row
// per class.
func NewSoftmaxClassifier(coef [][]float64, intercept []float64) (*SoftmaxClassifier, error) {
	if len(coef) != NumClasses {
		return nil, fmt.Errorf("%w: %d coefficient rows, want %d", ErrInvalidModel, len(coef), NumClasses)
	}
	width := len(coef[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty coefficient row", ErrInvalidModel)
	}
	data := make([]float64, 0, NumClasses*width)
	for i, row := range coef {
		if len(row) != width {
			return nil, fmt.Errorf("%w: coefficient row %d has %d entries, want %d",
				ErrDimensionMismatch, i, len(row), width)
		}
		data = append(data, row...)
	}

	if len(intercept) == 0 {
		intercept = make([]float64, NumClasses)
	}
	if len(intercept) != NumClasses {
		return nil, fmt.Errorf("%w: %d intercepts, want %d", ErrInvalidModel, len(intercept), NumClasses)
	}

	return &SoftmaxClassifier{
		coef:      mat.NewDense(NumClasses, width, data),
		intercept: mat.NewVecDense(NumClasses, append([]float64(nil), intercept...)),
	}, nil
}

// NumFeatures returns the coefficient width.
func (c *SoftmaxClassifier) NumFeatures() int {
	_, width := c.coef.Dims()
	return width
}

// PredictProba returns the softmax of the linear scores.
func (c *SoftmaxClassifier) PredictProba(x mat.Vector) ([]float64, error) {
	if err := checkWidth(x, c.NumFeatures()); err != nil {
		return nil, err
	}
	scores := mat.NewVecDense(NumClasses, nil)
	scores.MulVec(c.coef, x)
	scores.AddVec(scores, c.intercept)
	return softmax(scores.RawVector().Data), nil
}

// MarshalJSON encodes the classifier as a classifier artifact.
func (c *SoftmaxClassifier) MarshalJSON() ([]byte, error) {
	coef := make([][]float64, NumClasses)
	for i := range coef {
		coef[i] = mat.Row(nil, i, c.coef)
	}
	return json.Marshal(softmaxArtifact{
		Kind:      ClassifierSoftmax,
		Coef:      coef,
		Intercept: c.intercept.RawVector().Data,
	})
}

type softmaxArtifact struct {
	Kind      string      `json:"kind"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// LoadClassifier reads a classifier artifact. Native XGBoost JSON models are
// recognised by their top-level "learner" key; anything else must carry a
// "kind".
func LoadClassifier(r io.Reader) (Classifier, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Kind    string          `json:"kind"`
		Learner json.RawMessage `json:"learner"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: decoding classifier: %v", ErrInvalidModel, err)
	}

	switch {
	case len(probe.Learner) > 0:
		return NewXGBoostClassifier(bytes.NewReader(raw))
	case probe.Kind == ClassifierSoftmax:
		var artifact softmaxArtifact
		if err := json.Unmarshal(raw, &artifact); err != nil {
			return nil, fmt.Errorf("%w: decoding softmax classifier: %v", ErrInvalidModel, err)
		}
		return NewSoftmaxClassifier(artifact.Coef, artifact.Intercept)
	default:
		return nil, fmt.Errorf("%w: unknown classifier kind %q", ErrInvalidModel, probe.Kind)
	}
}

// softmax returns exp(s_i) / sum(exp(s)), shifted by max(s) for stability.
func softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	shift := floats.Max(scores)
	for i, s := range scores {
		out[i] = math.Exp(s - shift)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// argmax returns the index of the largest probability. Ties resolve to the
// lowest index.
func argmax(probs []float64) (int, error) {
	if len(probs) != NumClasses {
		return 0, fmt.Errorf("%w: %d probabilities, want %d", ErrInvalidModel, len(probs), NumClasses)
	}
	for _, p := range probs {
		if math.IsNaN(p) {
			return 0, fmt.Errorf("%w: NaN probability", ErrInvalidModel)
		}
	}
	return floats.MaxIdx(probs), nil
}
