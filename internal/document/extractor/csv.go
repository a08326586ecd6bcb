package extractor

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

// CSVExtractor parses comma-separated text into rows.
type CSVExtractor struct {
	Delimiter  rune
	LazyQuotes bool
}

// NewCSVExtractor creates a new CSV extractor
func NewCSVExtractor() *CSVExtractor {
	return &CSVExtractor{Delimiter: ','}
}

// DecodeRows returns the raw records. Empty lines are skipped and rows may
// have different field counts.
func (e *CSVExtractor) DecodeRows(ctx context.Context, content []byte) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(document.DecodeUTF8(content)))
	if e.Delimiter != 0 {
		reader.Comma = e.Delimiter
	}
	reader.LazyQuotes = e.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	rows := [][]string{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}

	return rows, nil
}
