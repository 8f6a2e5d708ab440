package sentiment

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// A Scaler applies a fitted per-feature affine transform to count vectors.
type Scaler interface {
	Transform(x *mat.VecDense) (*mat.VecDense, error)
	Dims() int
}

// Scaler kinds accepted in scaler artifacts.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
	ScalerIdentity = "identity"
)

// StandardScaler computes (x - mean) / scale for every feature.
type StandardScaler struct {
	mean  *mat.VecDense
	scale *mat.VecDense
}

// NewStandardScaler builds a StandardScaler. Either slice may be empty,
// meaning a zero mean or a unit scale, but not both. Zero scale entries are
// treated as 1.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	n, err := scalerWidth(mean, scale)
	if err != nil {
		return nil, err
	}
	return &StandardScaler{
		mean:  vecOrFill(mean, n, 0),
		scale: vecOrFill(safeScale(scale), n, 1),
	}, nil
}

// Dims returns the number of features the scaler was fitted on.
func (s *StandardScaler) Dims() int {
	return s.mean.Len()
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x *mat.VecDense) (*mat.VecDense, error) {
	if err := checkWidth(x, s.Dims()); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(s.Dims(), nil)
	out.SubVec(x, s.mean)
	out.DivElemVec(out, s.scale)
	return out, nil
}

// MarshalJSON encodes the scaler as a scaler artifact.
func (s *StandardScaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(scalerArtifact{
		Kind:  ScalerStandard,
		Mean:  s.mean.RawVector().Data,
		Scale: s.scale.RawVector().Data,
	})
}

// MinMaxScaler computes x*scale + min for every feature, the form in which
// min-max scalers store their fitted parameters.
type MinMaxScaler struct {
	min   *mat.VecDense
	scale *mat.VecDense
}

// NewMinMaxScaler builds a MinMaxScaler. Either slice may be empty, meaning
// a zero offset or a unit scale, but not both.
func NewMinMaxScaler(min, scale []float64) (*MinMaxScaler, error) {
	n, err := scalerWidth(min, scale)
	if err != nil {
		return nil, err
	}
	return &MinMaxScaler{
		min:   vecOrFill(min, n, 0),
		scale: vecOrFill(scale, n, 1),
	}, nil
}

// Dims returns the number of features the scaler was fitted on.
func (s *MinMaxScaler) Dims() int {
	return s.min.Len()
}

// Transform returns a rescaled copy of x.
func (s *MinMaxScaler) Transform(x *mat.VecDense) (*mat.VecDense, error) {
	if err := checkWidth(x, s.Dims()); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(s.Dims(), nil)
	out.MulElemVec(x, s.scale)
	out.AddVec(out, s.min)
	return out, nil
}

// MarshalJSON encodes the scaler as a scaler artifact.
func (s *MinMaxScaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(scalerArtifact{
		Kind:  ScalerMinMax,
		Min:   s.min.RawVector().Data,
		Scale: s.scale.RawVector().Data,
	})
}

// IdentityScaler passes vectors through unchanged.
type IdentityScaler struct {
	n int
}

// NewIdentityScaler returns a scaler for n features that does nothing.
func NewIdentityScaler(n int) (*IdentityScaler, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: identity scaler needs a positive width, got %d", ErrInvalidModel, n)
	}
	return &IdentityScaler{n: n}, nil
}

// Dims returns the configured width.
func (s *IdentityScaler) Dims() int {
	return s.n
}

// Transform returns a copy of x.
func (s *IdentityScaler) Transform(x *mat.VecDense) (*mat.VecDense, error) {
	if err := checkWidth(x, s.n); err != nil {
		return nil, err
	}
	return mat.VecDenseCopyOf(x), nil
}

// MarshalJSON encodes the scaler as a scaler artifact.
func (s *IdentityScaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(scalerArtifact{Kind: ScalerIdentity, Features: s.n})
}

// LoadScaler reads a scaler artifact.
func LoadScaler(r io.Reader) (Scaler, error) {
	var artifact scalerArtifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: decoding scaler: %v", ErrInvalidModel, err)
	}

	switch artifact.Kind {
	case ScalerStandard, "":
		return NewStandardScaler(artifact.Mean, artifact.Scale)
	case ScalerMinMax:
		return NewMinMaxScaler(artifact.Min, artifact.Scale)
	case ScalerIdentity:
		return NewIdentityScaler(artifact.Features)
	default:
		return nil, fmt.Errorf("%w: unknown scaler kind %q", ErrInvalidModel, artifact.Kind)
	}
}

type scalerArtifact struct {
	Kind     string    `json:"kind"`
	Mean     []float64 `json:"mean,omitempty"`
	Min      []float64 `json:"min,omitempty"`
	Scale    []float64 `json:"scale,omitempty"`
	Features int       `json:"n_features,omitempty"`
}

func scalerWidth(offset, scale []float64) (int, error) {
	switch {
	case len(offset) == 0 && len(scale) == 0:
		return 0, fmt.Errorf("%w: scaler has no parameters", ErrInvalidModel)
	case len(offset) == 0:
		return len(scale), nil
	case len(scale) == 0:
		return len(offset), nil
	case len(offset) != len(scale):
		return 0, fmt.Errorf("%w: scaler offset has %d entries, scale has %d",
			ErrDimensionMismatch, len(offset), len(scale))
	}
	return len(offset), nil
}

// safeScale replaces zero entries with 1, as constant features are left
// unscaled.
func safeScale(scale []float64) []float64 {
	if len(scale) == 0 {
		return nil
	}
	out := make([]float64, len(scale))
	for i, s := range scale {
		if s == 0 {
			s = 1
		}
		out[i] = s
	}
	return out
}

func vecOrFill(data []float64, n int, fill float64) *mat.VecDense {
	buf := make([]float64, n)
	if len(data) == 0 {
		for i := range buf {
			buf[i] = fill
		}
	} else {
		copy(buf, data)
	}
	return mat.NewVecDense(n, buf)
}

func checkWidth(x mat.Vector, want int) error {
	if x.Len() != want {
		return fmt.Errorf("%w: vector has %d features, want %d", ErrDimensionMismatch, x.Len(), want)
	}
	return nil
}
