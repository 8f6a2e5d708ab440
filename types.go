package sentiment

import (
	"fmt"
)

// A Label is the human-readable name of a sentiment class.
type Label string

const (
	Negative Label = "NEGATIVE"
	Neutral  Label = "NEUTRAL"
	Positive Label = "POSITIVE"

	// Undetermined marks bulk rows whose normalized text was empty and which
	// therefore never reached the classifier.
	Undetermined Label = "UNDETERMINED"
)

// NumClasses is the number of classes every classifier must produce.
const NumClasses = 3

// classLabels maps the ordinal class index to its label.
var classLabels = [NumClasses]Label{Negative, Neutral, Positive}

// Labels returns the three class labels in class-index order.
func Labels() []Label {
	labels := classLabels
	return labels[:]
}

// LabelFor maps a class index in {0,1,2} to its label.
func LabelFor(class int) (Label, error) {
	if class < 0 || class >= NumClasses {
		return "", fmt.Errorf("%w: %d", ErrClassOutOfRange, class)
	}
	return classLabels[class], nil
}

// Index returns the class index of l, or -1 for labels outside the class set.
func (l Label) Index() int {
	for i, c := range classLabels {
		if c == l {
			return i
		}
	}
	return -1
}

// String returns the label text.
func (l Label) String() string {
	return string(l)
}

// A Prediction is the outcome of classifying one piece of text.
type Prediction struct {
	Label         Label     // The predicted label.
	Class         int       // The predicted class index.
	Probabilities []float64 // Class probabilities in class-index order.
	Normalized    string    // The normalized text fed to the vectorizer.
}

// Confidence returns the probability of the predicted class.
func (p Prediction) Confidence() float64 {
	if p.Class < 0 || p.Class >= len(p.Probabilities) {
		return 0
	}
	return p.Probabilities[p.Class]
}

// SentencePrediction is the prediction for a single sentence of a longer text.
type SentencePrediction struct {
	Text       string
	Start      int
	End        int
	Prediction Prediction
}

// A LabelCount is one slice of a label distribution.
type LabelCount struct {
	Label   Label
	Count   int
	Percent float64
}

// Distribution summarises how many rows received each label, ordered by
// descending count.
type Distribution []LabelCount

// Total returns the number of rows counted by the distribution.
func (d Distribution) Total() int {
	total := 0
	for _, lc := range d {
		total += lc.Count
	}
	return total
}

// Count returns the count recorded for label, or zero.
func (d Distribution) Count(label Label) int {
	for _, lc := range d {
		if lc.Label == label {
			return lc.Count
		}
	}
	return 0
}

// BulkResult is the outcome of predicting every row of a table.
type BulkResult struct {
	Table        *Table       // The input table with the prediction column appended.
	Labels       []Label      // One label per input row, Undetermined for skipped rows.
	Distribution Distribution // Label counts over the predicted rows.
	Chart        []byte       // PNG pie chart, nil when nothing was predicted.

	Rows       int // Rows in the input table.
	CorpusSize int // Rows handed to the vectorizer.
	Skipped    int // Rows whose normalized text was empty.
}

// HasChart reports whether a distribution chart was rendered.
func (r *BulkResult) HasChart() bool {
	return len(r.Chart) > 0
}
