package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TableSummary is what the extractor derives from delimited content.
type TableSummary struct {
	ColumnNames []string
	RowCount    int
}

// ParseTable validates content as UTF-8 and parses it as comma-separated rows.
// The first row is the header; every following row, empty lines included, is
// counted without being checked against the header's field count. Rows are
// streamed, not retained.
func ParseTable(content []byte) (*TableSummary, error) {
	if !utf8.Valid(content) {
		return nil, newProcessingError(KindDecoding, "failed to decode content", ErrInvalidEncoding)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := newRowReader(string(content))

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, newProcessingError(KindParse, "failed to read header", ErrNoHeaderRow)
	}
	if err != nil {
		return nil, newProcessingError(KindParse, "failed to read header", err)
	}
	summary := &TableSummary{ColumnNames: header}

	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newProcessingError(KindParse, fmt.Sprintf("failed to read data row %d", summary.RowCount+1), err)
		}
		summary.RowCount++
	}
	return summary, nil
}
