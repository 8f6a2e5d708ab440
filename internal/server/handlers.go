// Package server exposes the predictor over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tsawler/sentiment"
)

const testMessage = "Test request received successfully. Service is running."

// Response headers describing the distribution chart of a bulk prediction.
const (
	HeaderGraphExists = "X-Graph-Exists"
	HeaderGraphData   = "X-Graph-Data"
)

// PredictRequest is the JSON body of a single-text prediction.
type PredictRequest struct {
	Text      *string `json:"text"`
	Sentences bool    `json:"sentences"`
}

// SentenceResult is the label of one sentence of the request text.
type SentenceResult struct {
	Text       string `json:"text"`
	Prediction string `json:"prediction"`
}

// PredictResponse is the JSON reply to a single-text prediction.
type PredictResponse struct {
	Prediction string           `json:"prediction"`
	Sentences  []SentenceResult `json:"sentences,omitempty"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the prediction routes.
type Handler struct {
	predictor  *sentiment.Predictor
	logger     zerolog.Logger
	textColumn string
	maxUpload  int64
}

// NewHandler returns a Handler reading bulk text from textColumn and
// rejecting uploads larger than maxUpload bytes.
func NewHandler(predictor *sentiment.Predictor, logger zerolog.Logger, textColumn string, maxUpload int64) *Handler {
	return &Handler{
		predictor:  predictor,
		logger:     logger,
		textColumn: textColumn,
		maxUpload:  maxUpload,
	}
}

// Test reports that the service is up.
func (h *Handler) Test(c *gin.Context) {
	c.String(http.StatusOK, testMessage)
}

// Health reports the loaded model and its vocabulary size.
func (h *Handler) Health(c *gin.Context) {
	model := h.predictor.Model()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"model":      model.Name,
		"vocabulary": model.Dims(),
	})
}

// Predict classifies an uploaded CSV file when the request carries a "file"
// part and a JSON {"text": ...} body otherwise.
func (h *Handler) Predict(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.predictFile(c)
		return
	}
	h.predictText(c)
}

func (h *Handler) predictText(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Text == nil {
		h.fail(c, http.StatusBadRequest, errors.New(`missing "text" field`))
		return
	}

	ctx := c.Request.Context()
	pred, err := h.predictor.PredictText(ctx, *req.Text)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	resp := PredictResponse{Prediction: pred.Label.String()}
	if req.Sentences {
		sents, err := h.predictor.PredictSentences(ctx, *req.Text)
		if err != nil {
			h.fail(c, statusFor(err), err)
			return
		}
		for _, s := range sents {
			resp.Sentences = append(resp.Sentences, SentenceResult{
				Text:       s.Text,
				Prediction: s.Prediction.Label.String(),
			})
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) predictFile(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer file.Close()

	table, err := sentiment.ReadCSV(file)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.predictor.PredictTable(c.Request.Context(), table, h.textColumn)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := result.Table.WriteCSV(&buf); err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	h.logger.Info().
		Str("file", header.Filename).
		Int("rows", result.Rows).
		Int("skipped", result.Skipped).
		Msg("bulk prediction complete")

	c.Header("Content-Disposition", `attachment; filename="Predictions.csv"`)
	if result.HasChart() {
		c.Header(HeaderGraphExists, "true")
		c.Header(HeaderGraphData, base64.StdEncoding.EncodeToString(result.Chart))
	} else {
		c.Header(HeaderGraphExists, "false")
	}
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	h.logger.Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request failed")
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

// statusFor maps prediction errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sentiment.ErrMissingColumn),
		errors.Is(err, sentiment.ErrInvalidTable):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
