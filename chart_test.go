package sentiment

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestRenderChart(t *testing.T) {
	tests := []struct {
		labels []Label
		desc   string
	}{
		{[]Label{Positive, Positive, Negative, Neutral}, "Three classes"},
		{[]Label{Negative, Negative}, "Single class"},
		{[]Label{Positive, Undetermined}, "Undetermined ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			data, err := RenderChart(NewDistribution(tt.labels), ChartOptions{Width: 320, Height: 240})
			if err != nil {
				t.Fatalf("RenderChart: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
				t.Errorf("size = %dx%d, want 320x240", b.Dx(), b.Dy())
			}
		})
	}
}

func TestRenderChartDefaults(t *testing.T) {
	data, err := RenderChart(NewDistribution([]Label{Neutral}), ChartOptions{})
	if err != nil {
		t.Fatalf("RenderChart: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 500 || cfg.Height != 500 {
		t.Errorf("size = %dx%d, want 500x500", cfg.Width, cfg.Height)
	}
}

func TestRenderChartEmpty(t *testing.T) {
	if _, err := RenderChart(NewDistribution([]Label{Undetermined}), DefaultChartOptions()); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("error = %v, want ErrEmptyCorpus", err)
	}
}
