package sentiment

import "errors"

var (
	// ErrMissingColumn is returned when a table lacks the text column.
	ErrMissingColumn = errors.New("text column not found")

	// ErrEmptyCorpus is returned when a batch contains no documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrDimensionMismatch is returned when vector widths disagree.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrInvalidModel is returned for malformed or unsupported model artifacts.
	ErrInvalidModel = errors.New("invalid model")

	// ErrClassOutOfRange is returned for class indices outside {0,1,2}.
	ErrClassOutOfRange = errors.New("class index out of range")

	// ErrInvalidTable is returned for unreadable tabular input.
	ErrInvalidTable = errors.New("invalid table")
)
