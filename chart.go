package sentiment

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartOptions controls distribution chart rendering.
type ChartOptions struct {
	Title  string
	Width  int // pixels
	Height int // pixels
}

// DefaultChartOptions returns a 500x500 chart titled "Sentiment Distribution".
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "Sentiment Distribution",
		Width:  500,
		Height: 500,
	}
}

var labelColors = map[Label]drawing.Color{
	Negative: drawing.ColorFromHex("d62728"),
	Neutral:  drawing.ColorFromHex("ffbf00"),
	Positive: drawing.ColorFromHex("2ca02c"),
}

// NewDistribution counts the class labels in labels, ignoring Undetermined,
// and orders them by descending count. Ties keep class-index order.
func NewDistribution(labels []Label) Distribution {
	var counts [NumClasses]int
	total := 0
	for _, l := range labels {
		if idx := l.Index(); idx >= 0 {
			counts[idx]++
			total++
		}
	}

	dist := make(Distribution, 0, NumClasses)
	for idx, label := range Labels() {
		n := counts[idx]
		if n == 0 {
			continue
		}
		dist = append(dist, LabelCount{
			Label:   label,
			Count:   n,
			Percent: 100 * float64(n) / float64(total),
		})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist
}

// RenderChart draws dist as a PNG pie chart with one wedge per label.
func RenderChart(dist Distribution, opts ChartOptions) ([]byte, error) {
	if dist.Total() == 0 {
		return nil, fmt.Errorf("%w: nothing to chart", ErrEmptyCorpus)
	}
	defaults := DefaultChartOptions()
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Height <= 0 {
		opts.Height = defaults.Height
	}

	values := make([]chart.Value, 0, len(dist))
	for _, lc := range dist {
		if lc.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", lc.Label, lc.Percent),
			Value: float64(lc.Count),
			Style: chart.Style{
				FillColor:   labelColors[lc.Label],
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 1,
			},
		})
	}

	pie := chart.PieChart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	// A lone value is drawn as a full circle using the slice style only.
	if len(values) == 1 {
		pie.SliceStyle = values[0].Style
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}
