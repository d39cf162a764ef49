package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// utf8BOM lets spreadsheet tools detect the encoding of Hangul day labels.
const utf8BOM = "\ufeff"

var errNoHeaders = errors.New("dataset has no headers")

// Dataset is a rectangular grid of labelled cells. Rows are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Record returns row i in header order. Missing cells are empty.
func (d Dataset) Record(i int) []string {
	record := make([]string, len(d.Headers))
	for col, header := range d.Headers {
		record[col] = d.Rows[i][header]
	}
	return record
}

// CSVExporter renders a Dataset as CSV.
type CSVExporter struct {
	// Comma overrides the field separator; zero means ','.
	Comma rune
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV document in memory.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := e.Write(buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the dataset to w, header row first.
func (e *CSVExporter) Write(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("csv: %w", errNoHeaders)
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("csv: write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if e.Comma != 0 {
		writer.Comma = e.Comma
	}
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("csv: write headers: %w", err)
	}
	for i := range data.Rows {
		if err := writer.Write(data.Record(i)); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
