package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SENTIMENT_MODEL_DIR", filepath.Join("..", "..", "testdata", "model"))
	if os.Getenv("SENTIMENT_LOG_LEVEL") == "" {
		t.Setenv("SENTIMENT_LOG_LEVEL", "error")
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictText(t *testing.T) {
	out, err := run(t, "predict", "--text", "I love it, truly great")
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE\n", out)
}

func TestPredictCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "reviews.csv")
	outPath := filepath.Join(dir, "out.csv")
	chart := filepath.Join(dir, "chart.png")
	require.NoError(t, os.WriteFile(in, []byte("reviews.text\nterrible\nthe\nlove it\n"), 0o644))

	_, err := run(t, "predict", "--csv", in, "--out", outPath, "--chart", chart)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "reviews.text,Predicted sentiment\nterrible,NEGATIVE\nthe,UNDETERMINED\nlove it,POSITIVE\n", string(data))

	png, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))
}

func TestPredictRequiresOneInput(t *testing.T) {
	_, err := run(t, "predict")
	assert.Error(t, err)

	_, err = run(t, "predict", "--text", "good", "--csv", "x.csv")
	assert.Error(t, err)
}

func TestPredictLogsToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "sentimentd.log")
	cfgPath := filepath.Join(dir, "sentiment.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n  output: "+logPath+"\n"), 0o644))
	t.Setenv("SENTIMENT_LOG_LEVEL", "info")

	out, err := run(t, "--config", cfgPath, "predict", "--text", "terrible")
	require.NoError(t, err)
	assert.Equal(t, "NEGATIVE\n", out)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"model loaded"`)
}
