package sentiment

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestModelFromDisk(t *testing.T) {
	for _, dir := range []string{"model", "xgboost"} {
		t.Run(dir, func(t *testing.T) {
			model := loadTestModel(t, dir)
			if model.Name != dir {
				t.Errorf("Name = %q, want %q", model.Name, dir)
			}
			if model.Dims() != 7 {
				t.Errorf("Dims() = %d, want 7", model.Dims())
			}

			probs, err := model.PredictProba([]string{"terribl hate", "love great", "fine", ""})
			if err != nil {
				t.Fatalf("PredictProba: %v", err)
			}
			want := []int{0, 2, 1, 1}
			for i, p := range probs {
				class, err := argmax(p)
				if err != nil {
					t.Fatal(err)
				}
				if class != want[i] {
					t.Errorf("doc %d class = %d, want %d (probs %v)", i, class, want[i], p)
				}
			}
		})
	}
}

func TestModelFromDiskMissingArtifact(t *testing.T) {
	if _, err := ModelFromDisk(filepath.Join("testdata", "absent")); err == nil {
		t.Error("expected an error for a missing model directory")
	}
}

func TestModelFromFS(t *testing.T) {
	read := func(name string) []byte {
		data, err := os.ReadFile(filepath.Join("testdata", "model", name))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	fsys := fstest.MapFS{
		"bundle/models/en-reviews/vectorizer.json": {Data: read(VectorizerFile)},
		"bundle/models/en-reviews/scaler.json":     {Data: read(ScalerFile)},
		"bundle/models/en-reviews/classifier.json": {Data: read(ClassifierFile)},
	}

	model, err := ModelFromFS("en-reviews", fsys)
	if err != nil {
		t.Fatalf("ModelFromFS: %v", err)
	}
	if model.Name != "en-reviews" || model.Dims() != 7 {
		t.Errorf("got model %q with %d features", model.Name, model.Dims())
	}

	if _, err := ModelFromFS("fr-reviews", fsys); !errors.Is(err, ErrInvalidModel) {
		t.Errorf("unknown model error = %v, want ErrInvalidModel", err)
	}
}

func TestNewModelDimensionChecks(t *testing.T) {
	v := testVectorizer(t)
	narrow, err := NewIdentityScaler(3)
	if err != nil {
		t.Fatal(err)
	}
	wide, err := NewIdentityScaler(v.Dims())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		scaler     Scaler
		classifier Classifier
		wantErr    error
		desc       string
	}{
		{narrow, fixedClassifier{features: v.Dims()}, ErrDimensionMismatch, "Scaler narrower than vocabulary"},
		{wide, fixedClassifier{features: 3}, ErrDimensionMismatch, "Classifier narrower than vocabulary"},
		{wide, nil, ErrInvalidModel, "Missing classifier"},
		{wide, fixedClassifier{}, nil, "Classifier without declared width"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := NewModel("test", v, tt.scaler, tt.classifier)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestModelWrite(t *testing.T) {
	model := loadTestModel(t, "xgboost")
	dir := filepath.Join(t.TempDir(), "copy")
	if err := model.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}

	copied, err := ModelFromDisk(dir)
	if err != nil {
		t.Fatalf("ModelFromDisk: %v", err)
	}
	docs := []string{"terribl", "love", "good bad"}
	a, err := model.PredictProba(docs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := copied.PredictProba(docs)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Errorf("doc %d class %d: %v != %v", i, j, a[i][j], b[i][j])
			}
		}
	}

	fixed, _ := newFixedModel(t, 0)
	if err := fixed.Write(t.TempDir()); err == nil {
		t.Error("expected an error writing a model with an unencodable stage")
	}
}
