package sentiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultPredictionColumn is the column bulk predictions are written to.
const DefaultPredictionColumn = "Predicted sentiment"

// batchSize bounds how many documents are vectorized at once. Count vectors
// are dense, so a whole upload at once could need vocabulary*rows floats.
const batchSize = 256

// A Predictor runs the full normalize, vectorize, scale and classify pipeline
// against a loaded Model. It is safe for concurrent use.
type Predictor struct {
	model      *Model
	normalizer *Normalizer
	segmenter  Segmenter
	logger     zerolog.Logger

	predictionColumn string
	chart            ChartOptions
}

// A PredictorOpt represents a setting that changes how a Predictor works.
//
// For example, it might replace the stopword list:
//
//	p, err := sentiment.NewPredictor(model, sentiment.UsingNormalizer(
//		sentiment.NewNormalizer(sentiment.UsingStopwords(sw))))
type PredictorOpt func(p *Predictor)

// UsingNormalizer replaces the default Normalizer.
func UsingNormalizer(n *Normalizer) PredictorOpt {
	return func(p *Predictor) {
		p.normalizer = n
	}
}

// UsingSegmenter replaces the default Punkt sentence segmenter.
func UsingSegmenter(s Segmenter) PredictorOpt {
	return func(p *Predictor) {
		p.segmenter = s
	}
}

// WithLogger sets the logger used for per-batch diagnostics.
func WithLogger(l zerolog.Logger) PredictorOpt {
	return func(p *Predictor) {
		p.logger = l
	}
}

// WithPredictionColumn sets the column bulk predictions are written to.
func WithPredictionColumn(name string) PredictorOpt {
	return func(p *Predictor) {
		p.predictionColumn = name
	}
}

// WithChartOptions sets the size and title of distribution charts.
func WithChartOptions(o ChartOptions) PredictorOpt {
	return func(p *Predictor) {
		p.chart = o
	}
}

// NewPredictor returns a Predictor for model.
func NewPredictor(model *Model, opts ...PredictorOpt) (*Predictor, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidModel)
	}

	p := &Predictor{
		model:            model,
		logger:           zerolog.Nop(),
		predictionColumn: DefaultPredictionColumn,
		chart:            DefaultChartOptions(),
	}
	for _, applyOpt := range opts {
		applyOpt(p)
	}

	if p.normalizer == nil {
		p.normalizer = NewNormalizer()
	}
	if p.segmenter == nil {
		seg, err := NewPunktSegmenter()
		if err != nil {
			return nil, fmt.Errorf("loading sentence segmenter: %w", err)
		}
		p.segmenter = seg
	}
	return p, nil
}

// Model returns the model the predictor runs.
func (p *Predictor) Model() *Model {
	return p.model
}

// Normalizer returns the normalizer applied to every input.
func (p *Predictor) Normalizer() *Normalizer {
	return p.normalizer
}

// PredictText classifies a single piece of text. Text that normalizes to ""
// is still classified, as the all-zero count vector.
func (p *Predictor) PredictText(ctx context.Context, text string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	normalized := p.normalizer.Normalize(text)
	probs, err := p.model.PredictProba([]string{normalized})
	if err != nil {
		return Prediction{}, err
	}
	return newPrediction(normalized, probs[0])
}

// PredictBatch classifies texts, skipping those that normalize to "". Skipped
// entries keep their position and are reported with the Undetermined label
// and class -1. The second return value is the number of texts that reached
// the vectorizer.
func (p *Predictor) PredictBatch(ctx context.Context, texts []string) ([]Prediction, int, error) {
	preds := make([]Prediction, len(texts))
	corpus := make([]string, 0, len(texts))
	positions := make([]int, 0, len(texts))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		normalized := p.normalizer.Normalize(text)
		if normalized == "" {
			preds[i] = Prediction{Label: Undetermined, Class: -1}
			continue
		}
		preds[i].Normalized = normalized
		corpus = append(corpus, normalized)
		positions = append(positions, i)
	}

	for start := 0; start < len(corpus); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		end := start + batchSize
		if end > len(corpus) {
			end = len(corpus)
		}

		probs, err := p.model.PredictProba(corpus[start:end])
		if err != nil {
			return nil, 0, err
		}
		for j, pr := range probs {
			pos := positions[start+j]
			preds[pos], err = newPrediction(corpus[start+j], pr)
			if err != nil {
				return nil, 0, fmt.Errorf("row %d: %w", pos, err)
			}
		}
	}

	return preds, len(corpus), nil
}

// PredictTable classifies every row of table by the text in column and
// returns a copy of table with the labels in the prediction column, plus the
// label distribution and its chart.
//
// Rows whose text normalizes to "" never reach the classifier and are
// labelled Undetermined. When no row survives normalization the vectorizer
// is not called and no chart is rendered.
func (p *Predictor) PredictTable(ctx context.Context, table *Table, column string) (*BulkResult, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	texts, err := table.Column(column)
	if err != nil {
		return nil, err
	}

	preds, corpusSize, err := p.PredictBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	labels := make([]Label, len(preds))
	cells := make([]string, len(preds))
	for i, pr := range preds {
		labels[i] = pr.Label
		cells[i] = pr.Label.String()
	}

	out, err := table.WithColumn(p.predictionColumn, cells)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{
		Table:        out,
		Labels:       labels,
		Distribution: NewDistribution(labels),
		Rows:         len(texts),
		CorpusSize:   corpusSize,
		Skipped:      len(texts) - corpusSize,
	}

	if corpusSize > 0 {
		result.Chart, err = RenderChart(result.Distribution, p.chart)
		if err != nil {
			return nil, err
		}
	}

	p.logger.Debug().
		Int("rows", result.Rows).
		Int("corpus", result.CorpusSize).
		Int("skipped", result.Skipped).
		Int("negative", result.Distribution.Count(Negative)).
		Int("neutral", result.Distribution.Count(Neutral)).
		Int("positive", result.Distribution.Count(Positive)).
		Msg("bulk prediction")

	return result, nil
}

// PredictSentences splits text into sentences and classifies each one.
// Sentences with no informative words are labelled Undetermined.
func (p *Predictor) PredictSentences(ctx context.Context, text string) ([]SentencePrediction, error) {
	segs := p.segmenter.Segment(text)
	if len(segs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	preds, _, err := p.PredictBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]SentencePrediction, len(segs))
	for i, s := range segs {
		out[i] = SentencePrediction{
			Text:       s.Text,
			Start:      s.Start,
			End:        s.End,
			Prediction: preds[i],
		}
	}
	return out, nil
}

func newPrediction(normalized string, probs []float64) (Prediction, error) {
	class, err := argmax(probs)
	if err != nil {
		return Prediction{}, err
	}
	label, err := LabelFor(class)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Label:         label,
		Class:         class,
		Probabilities: probs,
		Normalized:    normalized,
	}, nil
}
