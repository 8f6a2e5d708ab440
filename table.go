package sentiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is an in-memory CSV document: a header row and records padded to the
// header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV parses a CSV document whose first record is the header. Records
// shorter than the header are padded with empty cells; longer records are
// rejected.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrInvalidTable)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidTable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrInvalidTable, line, len(record), len(header))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// WithColumn returns a copy of t with values stored under name. An existing
// column of that name is overwritten in place; otherwise the column is
// appended.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("%w: column %q has %d values for %d rows",
			ErrInvalidTable, name, len(values), len(t.Rows))
	}

	idx := t.ColumnIndex(name)
	header := append([]string(nil), t.Header...)
	if idx < 0 {
		idx = len(header)
		header = append(header, name)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(header))
		copy(out, row)
		out[idx] = values[i]
		rows[i] = out
	}
	return &Table{Header: header, Rows: rows}, nil
}

// WriteCSV writes the header followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
