package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// Artifact file names within a model directory.
const (
	VectorizerFile = "vectorizer.json"
	ScalerFile     = "scaler.json"
	ClassifierFile = "classifier.json"
)

// A Model holds the fitted vectorizer, scaler and classifier that together
// map normalized text to class probabilities. A Model is read-only after
// construction and safe for concurrent use.
type Model struct {
	Name string

	vectorizer Vectorizer
	scaler     Scaler
	classifier Classifier
}

// NewModel assembles a Model, checking that the three stages agree on the
// feature width.
func NewModel(name string, vectorizer Vectorizer, scaler Scaler, classifier Classifier) (*Model, error) {
	if vectorizer == nil || scaler == nil || classifier == nil {
		return nil, fmt.Errorf("%w: model %q is missing a stage", ErrInvalidModel, name)
	}

	dims := vectorizer.Dims()
	if scaler.Dims() != dims {
		return nil, fmt.Errorf("%w: vocabulary has %d terms, scaler expects %d features",
			ErrDimensionMismatch, dims, scaler.Dims())
	}
	if n := classifier.NumFeatures(); n != 0 && n != dims {
		return nil, fmt.Errorf("%w: vocabulary has %d terms, classifier expects %d features",
			ErrDimensionMismatch, dims, n)
	}

	return &Model{
		Name:       name,
		vectorizer: vectorizer,
		scaler:     scaler,
		classifier: classifier,
	}, nil
}

// ModelFromDisk loads a Model from the artifacts in the directory at path.
func ModelFromDisk(path string) (*Model, error) {
	return loadModel(filepath.Base(path), os.DirFS(path))
}

// ModelFromFS loads a model from the first directory called name within
// filesys, such as an embedded model bundle.
func ModelFromFS(name string, filesys fs.FS) (*Model, error) {
	var modelFS fs.FS
	err := fs.WalkDir(filesys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Model located. Exit tree traversal
		if d.IsDir() && d.Name() == name {
			modelFS, err = fs.Sub(filesys, path)
			if err != nil {
				return err
			}
			return io.EOF
		}

		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if modelFS == nil {
		return nil, fmt.Errorf("%w: no model directory named %q", ErrInvalidModel, name)
	}

	return loadModel(name, modelFS)
}

func loadModel(name string, filesys fs.FS) (*Model, error) {
	var (
		vectorizer *CountVectorizer
		scaler     Scaler
		classifier Classifier
	)

	err := readArtifact(filesys, VectorizerFile, func(r io.Reader) (err error) {
		vectorizer, err = LoadCountVectorizer(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = readArtifact(filesys, ScalerFile, func(r io.Reader) (err error) {
		scaler, err = LoadScaler(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = readArtifact(filesys, ClassifierFile, func(r io.Reader) (err error) {
		classifier, err = LoadClassifier(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	return NewModel(name, vectorizer, scaler, classifier)
}

func readArtifact(filesys fs.FS, name string, decode func(io.Reader) error) error {
	file, err := filesys.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer file.Close()

	if err := decode(file); err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	return nil
}

// Write saves a Model to the user-provided location. Every stage must be
// encodable as JSON.
func (m *Model) Write(path string) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return err
	}

	stages := []struct {
		file  string
		stage interface{}
	}{
		{VectorizerFile, m.vectorizer},
		{ScalerFile, m.scaler},
		{ClassifierFile, m.classifier},
	}
	for _, s := range stages {
		enc, ok := s.stage.(json.Marshaler)
		if !ok {
			return fmt.Errorf("%T cannot be written as %s", s.stage, s.file)
		}
		data, err := enc.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", s.file, err)
		}
		if err := os.WriteFile(filepath.Join(path, s.file), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Dims returns the feature width shared by every stage.
func (m *Model) Dims() int {
	return m.vectorizer.Dims()
}

// PredictProba returns class probabilities for each normalized document.
func (m *Model) PredictProba(docs []string) ([][]float64, error) {
	vecs, err := m.vectorizer.Transform(docs...)
	if err != nil {
		return nil, err
	}
	probs := make([][]float64, len(vecs))
	for i, v := range vecs {
		probs[i], err = m.predictVector(v)
		if err != nil {
			return nil, err
		}
	}
	return probs, nil
}

// predictVector scales a raw count vector and classifies it.
func (m *Model) predictVector(counts *mat.VecDense) ([]float64, error) {
	scaled, err := m.scaler.Transform(counts)
	if err != nil {
		return nil, err
	}
	probs, err := m.classifier.PredictProba(scaled)
	if err != nil {
		return nil, err
	}
	if len(probs) != NumClasses {
		return nil, fmt.Errorf("%w: classifier returned %d probabilities", ErrInvalidModel, len(probs))
	}
	return probs, nil
}
