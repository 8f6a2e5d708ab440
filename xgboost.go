package sentiment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// XGBoostClassifier evaluates a multi-class gradient boosted tree ensemble
// saved in XGBoost's native JSON model format. Only the gbtree booster with a
// softmax objective is supported.
type XGBoostClassifier struct {
	trees      []xgbTree
	treeClass  []int
	baseMargin []float64
	features   int
	raw        []byte
}

// NewXGBoostClassifier reads an XGBoost JSON model.
func NewXGBoostClassifier(r io.Reader) (*XGBoostClassifier, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc xgbDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding xgboost model: %v", ErrInvalidModel, err)
	}
	learner := doc.Learner

	if name := learner.GradientBooster.Name; name != "gbtree" {
		return nil, fmt.Errorf("%w: unsupported booster %q", ErrInvalidModel, name)
	}
	switch obj := learner.Objective.Name; obj {
	case "multi:softprob", "multi:softmax":
	default:
		return nil, fmt.Errorf("%w: unsupported objective %q", ErrInvalidModel, obj)
	}

	numClass, err := strconv.Atoi(learner.Params.NumClass)
	if err != nil || numClass != NumClasses {
		return nil, fmt.Errorf("%w: num_class %q, want %d", ErrInvalidModel, learner.Params.NumClass, NumClasses)
	}

	features := 0
	if learner.Params.NumFeature != "" {
		features, err = strconv.Atoi(learner.Params.NumFeature)
		if err != nil || features < 0 {
			return nil, fmt.Errorf("%w: num_feature %q", ErrInvalidModel, learner.Params.NumFeature)
		}
	}

	base, err := parseBaseScore(learner.Params.BaseScore)
	if err != nil {
		return nil, err
	}

	booster := learner.GradientBooster.Model
	treeClass := booster.TreeInfo
	if len(treeClass) == 0 {
		treeClass = make([]int, len(booster.Trees))
		for i := range treeClass {
			treeClass[i] = i % NumClasses
		}
	}
	if len(treeClass) != len(booster.Trees) {
		return nil, fmt.Errorf("%w: %d trees but %d tree_info entries",
			ErrInvalidModel, len(booster.Trees), len(treeClass))
	}

	for i := range booster.Trees {
		if treeClass[i] < 0 || treeClass[i] >= NumClasses {
			return nil, fmt.Errorf("%w: tree %d assigned to class %d", ErrClassOutOfRange, i, treeClass[i])
		}
		if err := booster.Trees[i].validate(features); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return &XGBoostClassifier{
		trees:      booster.Trees,
		treeClass:  treeClass,
		baseMargin: base,
		features:   features,
		raw:        raw,
	}, nil
}

// NumFeatures returns num_feature from the model parameters.
func (c *XGBoostClassifier) NumFeatures() int {
	return c.features
}

// PredictProba sums the leaf values of each class's trees on top of the base
// margin and applies softmax.
func (c *XGBoostClassifier) PredictProba(x mat.Vector) ([]float64, error) {
	if c.features > 0 {
		if err := checkWidth(x, c.features); err != nil {
			return nil, err
		}
	}

	margin := append([]float64(nil), c.baseMargin...)
	for i := range c.trees {
		margin[c.treeClass[i]] += c.trees[i].leaf(x)
	}
	return softmax(margin), nil
}

// MarshalJSON returns the model exactly as it was read.
func (c *XGBoostClassifier) MarshalJSON() ([]byte, error) {
	return c.raw, nil
}

// parseBaseScore accepts the scalar ("5E-1") and per-class ("[5E-1,5E-1,5E-1]")
// encodings and returns one margin per class. A scalar shifts every class
// equally, which softmax ignores, so only per-class scores change the outcome.
func parseBaseScore(s string) ([]float64, error) {
	margin := make([]float64, NumClasses)
	s = strings.TrimSpace(s)
	if s == "" {
		return margin, nil
	}

	parts := strings.Split(strings.Trim(s, "[]"), ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: base_score %q", ErrInvalidModel, s)
		}
		values[i] = v
	}

	switch len(values) {
	case 1:
		for i := range margin {
			margin[i] = values[0]
		}
	case NumClasses:
		copy(margin, values)
	default:
		return nil, fmt.Errorf("%w: base_score has %d entries, want 1 or %d", ErrInvalidModel, len(values), NumClasses)
	}
	return margin, nil
}

type xgbDocument struct {
	Learner struct {
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				TreeInfo []int     `json:"tree_info"`
				Trees    []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
		Params struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
	} `json:"learner"`
}

// xgbTree is a single regression tree in XGBoost's array layout. Node i is a
// leaf when LeftChildren[i] is -1, in which case SplitConditions[i] holds the
// leaf value.
type xgbTree struct {
	LeftChildren    []int      `json:"left_children"`
	RightChildren   []int      `json:"right_children"`
	SplitIndices    []int      `json:"split_indices"`
	SplitConditions []float64  `json:"split_conditions"`
	DefaultLeft     []flexBool `json:"default_left"`
}

func (t *xgbTree) validate(features int) error {
	n := len(t.LeftChildren)
	if n == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidModel)
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return fmt.Errorf("%w: tree node arrays differ in length", ErrInvalidModel)
	}
	if len(t.DefaultLeft) != 0 && len(t.DefaultLeft) != n {
		return fmt.Errorf("%w: default_left has %d entries, want %d", ErrInvalidModel, len(t.DefaultLeft), n)
	}

	for i := 0; i < n; i++ {
		if t.LeftChildren[i] == -1 {
			continue
		}
		// Children always follow their parent, so walks terminate.
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("%w: node %d has children %d and %d", ErrInvalidModel, i, l, r)
		}
		if t.SplitIndices[i] < 0 || (features > 0 && t.SplitIndices[i] >= features) {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrDimensionMismatch, i, t.SplitIndices[i])
		}
	}
	return nil
}

// leaf walks x from the root to a leaf and returns the leaf value. Missing
// features read as zero and NaN follows the node's default direction.
func (t *xgbTree) leaf(x mat.Vector) float64 {
	node := 0
	for t.LeftChildren[node] != -1 {
		v := 0.0
		if f := t.SplitIndices[node]; f < x.Len() {
			v = x.AtVec(f)
		}

		var left bool
		if math.IsNaN(v) {
			left = len(t.DefaultLeft) > 0 && bool(t.DefaultLeft[node])
		} else {
			left = v < t.SplitConditions[node]
		}

		if left {
			node = t.LeftChildren[node]
		} else {
			node = t.RightChildren[node]
		}
	}
	return t.SplitConditions[node]
}

// flexBool decodes JSON booleans as well as the 0/1 integers older XGBoost
// versions write.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
	case "false", "0", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}
